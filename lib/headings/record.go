package headings

import "sort"

// Record is one table row keyed by property, cell values are left as raw
// strings.
type Record map[Property]string

// ordered returns the properties of c in enum order.
func (c Columns) ordered() []Property {
	keys := make([]Property, 0, len(c))
	for p := range c {
		keys = append(keys, p)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// CreateRecord projects a raw row through the resolved columns. Every
// column index must be inside the row.
func CreateRecord(columns Columns, row []string) (Record, error) {
	out := make(Record, len(columns))
	for _, p := range columns.ordered() {
		i := columns[p]
		if i < 0 || i >= len(row) {
			return nil, &IndexOutOfRangeError{Property: p, Index: i, Row: row}
		}
		out[p] = row[i]
	}
	return out, nil
}
