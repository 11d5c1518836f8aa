package headings

import (
	"fmt"
)

// Property is a field of the fixed epidemiological schema that table
// columns get mapped onto.
type Property int

const (
	// Discard marks a heading that is recognized but intentionally ignored.
	Discard Property = iota
	Active
	Cases
	County
	Deaths
	Hospitalized
	ICU
	Recovered
	State
	Tested
	// TestedNegative is not in the final schema, it is combined with cases
	// to get the tested number.
	TestedNegative

	propertyCount
)

var propertyNames = [propertyCount]string{
	Discard:        "null",
	Active:         "active",
	Cases:          "cases",
	County:         "county",
	Deaths:         "deaths",
	Hospitalized:   "hospitalized",
	ICU:            "icu",
	Recovered:      "recovered",
	State:          "state",
	Tested:         "tested",
	TestedNegative: "testedNegative",
}

// Properties returns every real property (Discard excluded) in enum order.
func Properties() []Property {
	out := make([]Property, 0, propertyCount-1)
	for p := Active; p < propertyCount; p++ {
		out = append(out, p)
	}
	return out
}

// ParseProperty looks up a property by its mapping key, "null" is Discard.
func ParseProperty(name string) (Property, bool) {
	for i, n := range propertyNames {
		if n == name {
			return Property(i), true
		}
	}
	return Discard, false
}

// Valid reports whether p is a member of the enumeration.
func (p Property) Valid() bool {
	return p >= Discard && p < propertyCount
}

// IsDiscard reports whether p is the Discard sentinel.
func (p Property) IsDiscard() bool {
	return p == Discard
}

func (p Property) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Property(%d)", int(p))
	}
	return propertyNames[p]
}

func (p Property) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid property %d", int(p))
	}
	return []byte(propertyNames[p]), nil
}

func (p *Property) UnmarshalText(text []byte) error {
	parsed, ok := ParseProperty(string(text))
	if !ok {
		return fmt.Errorf("unknown property %q", string(text))
	}
	*p = parsed
	return nil
}
