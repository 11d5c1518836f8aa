package locations

import (
	"episcrape/lib/headings"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var ErrUnreasonableTotals = errors.New("unreasonable totals")

// Location is one scraped row once the cells have been parsed, counts
// that the source does not report are nil.
type Location struct {
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	County  string `json:"county,omitempty"`

	Active         *int `json:"active,omitempty"`
	Cases          *int `json:"cases,omitempty"`
	Deaths         *int `json:"deaths,omitempty"`
	Hospitalized   *int `json:"hospitalized,omitempty"`
	ICU            *int `json:"icu,omitempty"`
	Recovered      *int `json:"recovered,omitempty"`
	Tested         *int `json:"tested,omitempty"`
	TestedNegative *int `json:"testedNegative,omitempty"`
}

// Count returns the field that holds the count for p, nil for properties
// that name the location rather than count something.
func (l *Location) Count(p headings.Property) **int {
	switch p {
	case headings.Active:
		return &l.Active
	case headings.Cases:
		return &l.Cases
	case headings.Deaths:
		return &l.Deaths
	case headings.Hospitalized:
		return &l.Hospitalized
	case headings.ICU:
		return &l.ICU
	case headings.Recovered:
		return &l.Recovered
	case headings.Tested:
		return &l.Tested
	case headings.TestedNegative:
		return &l.TestedNegative
	}
	return nil
}

// Counted returns every property Count has a field for, in enum order.
func Counted() []headings.Property {
	var out []headings.Property
	var sample Location
	for _, p := range headings.Properties() {
		if sample.Count(p) != nil {
			out = append(out, p)
		}
	}
	return out
}

var countySuffix = regexp.MustCompile(`(?i)\s+county$`)
var whitespace = regexp.MustCompile(`\s+`)

// AddCounty normalizes a county name to end in " County".
func AddCounty(name string) string {
	name = strings.TrimSpace(whitespace.ReplaceAllString(name, " "))
	if name == "" {
		return ""
	}
	name = countySuffix.ReplaceAllString(name, "")
	return name + " County"
}

// ApplyTestedNegative folds testedNegative into tested (cases + negative
// results) unless tested was already reported.
func ApplyTestedNegative(l Location) Location {
	if l.TestedNegative == nil {
		return l
	}
	if l.Tested == nil && l.Cases != nil {
		tested := *l.Cases + *l.TestedNegative
		l.Tested = &tested
	}
	l.TestedNegative = nil
	return l
}

// Sum adds up every count across locs, a count nobody reports stays nil.
func Sum(locs []Location) Location {
	var total Location
	for _, p := range Counted() {
		dst := total.Count(p)
		for i := range locs {
			src := *locs[i].Count(p)
			if src == nil {
				continue
			}
			if *dst == nil {
				*dst = new(int)
			}
			**dst += *src
		}
	}
	return total
}

// AssertTotalsAreReasonable fails when a computed total is further than
// tolerance (a fraction of scraped) from the scraped one.
func AssertTotalsAreReasonable(computed, scraped int, tolerance float64) error {
	diff := math.Abs(float64(computed - scraped))
	if diff > tolerance*math.Abs(float64(scraped)) {
		return fmt.Errorf(
			"%w: computed %d, scraped %d (tolerance %.2f)",
			ErrUnreasonableTotals, computed, scraped, tolerance,
		)
	}
	return nil
}

// AddEmptyRegions appends an empty location for every name that is not
// already present as the given field (county or state).
func AddEmptyRegions(locs []Location, names []string, field headings.Property) []Location {
	key := func(l Location) string {
		if field == headings.State {
			return l.State
		}
		return l.County
	}

	present := map[string]bool{}
	for _, l := range locs {
		present[key(l)] = true
	}
	for _, name := range names {
		if present[name] {
			continue
		}
		present[name] = true
		empty := Location{}
		if field == headings.State {
			empty.State = name
		} else {
			empty.County = name
		}
		locs = append(locs, empty)
	}
	return locs
}
