package headings

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Mapping associates schema properties (Discard included) with the
// matchers that recognize their headings. A property matches a heading
// when any of its matchers does.
type Mapping map[Property][]Matcher

// Validate fails with an *InvalidMappingKeyError naming every key that is
// not part of the Property enumeration, and with ErrNilMatcher when a
// value list holds a nil matcher.
func (m Mapping) Validate() error {
	var bad []string
	for _, p := range m.properties() {
		if !p.Valid() {
			bad = append(bad, p.String())
		}
	}
	if len(bad) > 0 {
		return &InvalidMappingKeyError{Keys: bad}
	}
	for _, p := range m.properties() {
		for i, matcher := range m[p] {
			if matcher == nil {
				return fmt.Errorf("%w: %s[%d]", ErrNilMatcher, p, i)
			}
		}
	}
	return nil
}

func matcherString(m Matcher) string {
	if m == nil {
		return "<nil>"
	}
	return m.String()
}

// properties returns the keys of the mapping ordered by enum value.
func (m Mapping) properties() []Property {
	keys := make([]Property, 0, len(m))
	for p := range m {
		keys = append(keys, p)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (m Mapping) String() string {
	var out strings.Builder
	out.WriteString("{")
	for i, p := range m.properties() {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(p.String())
		out.WriteString(": ")

		matchers := m[p]
		if len(matchers) == 1 {
			out.WriteString(matcherString(matchers[0]))
			continue
		}
		parts := make([]string, len(matchers))
		for j, matcher := range matchers {
			parts[j] = matcherString(matcher)
		}
		out.WriteString("[" + strings.Join(parts, ", ") + "]")
	}
	out.WriteString("}")
	return out.String()
}

// RawMapping is a mapping as authored in a source config: keys are property
// names ("null" for Discard), values are a single matcher or a list of
// them, each either a Matcher or its text form (see ParseMatcher).
type RawMapping map[string]any

// ParseMapping validates the keys of raw and normalizes its values into
// matcher lists. Invalid keys are all reported in one
// *InvalidMappingKeyError before any value is looked at.
func ParseMapping(raw RawMapping) (Mapping, error) {
	names := make([]string, 0, len(raw))
	for k := range raw {
		names = append(names, k)
	}
	sort.Strings(names)

	var bad []string
	for _, name := range names {
		if _, ok := ParseProperty(name); !ok {
			bad = append(bad, name)
		}
	}
	if len(bad) > 0 {
		return nil, &InvalidMappingKeyError{Keys: bad}
	}

	out := make(Mapping, len(raw))
	var errs []error
	for _, name := range names {
		p, _ := ParseProperty(name)
		matchers, err := parseMatchers(raw[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("mapping value for %s: %w", name, err))
			continue
		}
		out[p] = matchers
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func parseMatchers(value any) ([]Matcher, error) {
	switch v := value.(type) {
	case Matcher:
		return []Matcher{v}, nil
	case string:
		m, err := ParseMatcher(v)
		if err != nil {
			return nil, err
		}
		return []Matcher{m}, nil
	case []Matcher:
		return v, nil
	case []string:
		out := make([]Matcher, 0, len(v))
		for _, s := range v {
			m, err := ParseMatcher(s)
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		}
		return out, nil
	case []any:
		out := make([]Matcher, 0, len(v))
		for _, elem := range v {
			ms, err := parseMatchers(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, ms...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported matcher type %T", value)
	}
}
