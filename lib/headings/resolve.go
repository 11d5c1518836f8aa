package headings

// Columns is the resolved property -> zero-based column index association
// for one table. Discard never appears in it.
type Columns map[Property]int

// matchingProperties returns every property of m whose matchers match the
// heading, in enum order.
func matchingProperties(heading string, m Mapping) []Property {
	var out []Property
	for _, p := range m.properties() {
		if matchAny(heading, m[p]) {
			out = append(out, p)
		}
	}
	return out
}

// propertyForHeading resolves a heading against an already validated
// mapping. Discard only wins when nothing else matched.
func propertyForHeading(heading string, m Mapping) (Property, error) {
	props := matchingProperties(heading, m)
	if len(props) == 0 {
		return Discard, &UnmatchedHeadingError{Heading: heading, Mapping: m}
	}

	var matched []Property
	for _, p := range props {
		if !p.IsDiscard() {
			matched = append(matched, p)
		}
	}
	switch len(matched) {
	case 0:
		return Discard, nil
	case 1:
		return matched[0], nil
	default:
		return Discard, &AmbiguousHeadingError{Heading: heading, Properties: matched}
	}
}

// NormalizeKey resolves a single heading to the property it denotes. It
// returns Discard for headings that are recognized but ignored.
func NormalizeKey(heading string, m Mapping) (Property, error) {
	if err := m.Validate(); err != nil {
		return Discard, err
	}
	return propertyForHeading(heading, m)
}

// ColumnIndices finds the column of every property in a table's headings.
//
// Each heading must resolve to exactly one property (or to Discard only),
// and no property may be claimed by two headings:
//
//	headings := []string{"apples", "bats", "cats", "dogs"}
//	m := Mapping{
//		Cases:   {Fragment("apples"), Fragment("ants")},
//		Discard: {MustPattern(`^[bc]`)},
//		Deaths:  {MustPattern(`^d`)},
//	}
//
// resolves to Columns{Cases: 0, Deaths: 3}. Properties that no heading
// resolved to are absent, callers that need one must check for it.
func ColumnIndices(headings []string, m Mapping) (Columns, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	result := Columns{}
	for index, heading := range headings {
		p, err := propertyForHeading(heading, m)
		if err != nil {
			return nil, err
		}
		if p.IsDiscard() {
			continue
		}
		if prev, ok := result[p]; ok {
			return nil, &DuplicateColumnError{Property: p, First: prev, Second: index}
		}
		result[p] = index
	}
	return result, nil
}
