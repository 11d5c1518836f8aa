package headings

import (
	"fmt"
	"sort"
	"strings"
)

// FragmentTable is the older mapping shape where each heading fragment
// owns the property it maps to, several fragments may share a property.
type FragmentTable map[string]Property

// Validate fails with an *InvalidMappingKeyError naming every property
// value that is outside the enumeration.
func (t FragmentTable) Validate() error {
	var bad []string
	for _, fragment := range t.fragments() {
		if p := t[fragment]; !p.Valid() {
			bad = append(bad, p.String())
		}
	}
	if len(bad) > 0 {
		return &InvalidMappingKeyError{Keys: bad}
	}
	return nil
}

func (t FragmentTable) fragments() []string {
	out := make([]string, 0, len(t))
	for f := range t {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (t FragmentTable) String() string {
	parts := make([]string, 0, len(t))
	for _, f := range t.fragments() {
		parts = append(parts, fmt.Sprintf("%q: %s", f, t[f]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ParseFragmentTable builds a table from config text, values are property
// names ("null" for Discard).
func ParseFragmentTable(raw map[string]string) (FragmentTable, error) {
	out := make(FragmentTable, len(raw))
	var bad []string
	for fragment, name := range raw {
		p, ok := ParseProperty(name)
		if !ok {
			bad = append(bad, name)
			continue
		}
		out[fragment] = p
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, &InvalidMappingKeyError{Keys: bad}
	}
	return out, nil
}

// NormalizeLegacyKey resolves a heading with a FragmentTable. The distinct
// properties of every fragment contained in the heading slug must be
// exactly one, Discard counts as a property here.
func NormalizeLegacyKey(heading string, t FragmentTable) (Property, error) {
	if err := t.Validate(); err != nil {
		return Discard, err
	}

	slug := Slug(heading)
	seen := map[Property]bool{}
	var found []Property
	for _, fragment := range t.fragments() {
		if !strings.Contains(slug, Slug(fragment)) {
			continue
		}
		p := t[fragment]
		if !seen[p] {
			seen[p] = true
			found = append(found, p)
		}
	}
	if len(found) != 1 {
		sort.Slice(found, func(i, j int) bool { return found[i] < found[j] })
		return Discard, &NoSingleMatchError{Slug: slug, Table: t, Found: found}
	}
	return found[0], nil
}
