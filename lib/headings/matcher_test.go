package headings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "Cases", expected: "cases"},
		{input: "Positive Cases", expected: "positive-cases"},
		{input: "  Total (%) ", expected: "total"},
		{input: "COVID-19 Tests -- Negative", expected: "covid-19-tests-negative"},
		{input: "Población", expected: "poblacion"},
		{input: "County\n\tName", expected: "county-name"},
		{input: "---", expected: ""},
		{input: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, Slug(test.input), test.input)
	}
}

func TestFragmentMatch(t *testing.T) {
	matching := []string{
		"case", "cases", "CASES", "Cases",
		"positive cases", "total cases",
		"number of cases",
		"base", "vases", "phase",
	}
	for _, h := range matching {
		require.True(t, Fragment("ase").Match(h), h)
	}

	require.True(t, Fragment("Positive Cases").Match("total positive-cases"))
	require.False(t, Fragment("cases").Match("cayses"))
	require.False(t, Fragment("positive cases").Match("positive"))
}

func TestPatternMatchesRawHeading(t *testing.T) {
	p := MustPattern(`^Total \(%\)$`)
	require.True(t, p.Match("Total (%)"))
	require.False(t, p.Match("total"))

	// patterns see the heading as is, so case matters unless the pattern says otherwise
	require.False(t, MustPattern("COUNTY").Match("county"))
	require.True(t, MustPattern("(?i)COUNTY").Match("county"))

	require.False(t, Pattern{}.Match("anything"))
}

func TestParseMatcher(t *testing.T) {
	testCases := []struct {
		text     string
		heading  string
		matches  bool
		isRegexp bool
	}{
		{text: "cases", heading: "Total Cases", matches: true},
		{text: "/^d/", heading: "deaths", matches: true, isRegexp: true},
		{text: "/^d/", heading: "Deaths", matches: false, isRegexp: true},
		{text: "/^d/i", heading: "Deaths", matches: true, isRegexp: true},
		{text: "/a.b/s", heading: "a\nb", matches: true, isRegexp: true},
		{text: "1/2", heading: "1-2 doses", matches: true},
		{text: "/per/100k", heading: "Cases per 100k", matches: true},
		{text: "/cases/g", heading: "Cases (g)", matches: true},
		{text: "/per/100k", heading: "per 100", matches: false},
	}

	for _, test := range testCases {
		m, err := ParseMatcher(test.text)
		require.NoError(t, err, test.text)
		_, isPattern := m.(Pattern)
		require.Equal(t, test.isRegexp, isPattern, test.text)
		require.Equal(t, test.matches, m.Match(test.heading), test.text)
	}

	_, err := ParseMatcher("/(/")
	require.Error(t, err)
	_, err = ParseMatcher("/(/i")
	require.Error(t, err)
}

func TestParseProperty(t *testing.T) {
	for _, p := range append(Properties(), Discard) {
		parsed, ok := ParseProperty(p.String())
		require.True(t, ok, p.String())
		require.Equal(t, p, parsed)
	}

	_, ok := ParseProperty("invalid_mapping_key")
	require.False(t, ok)
	_, ok = ParseProperty("Cases")
	require.False(t, ok)

	require.Len(t, Properties(), 10)
	require.NotContains(t, Properties(), Discard)
}

func TestRecordJSON(t *testing.T) {
	encoded, err := json.Marshal(Record{Cases: "12", TestedNegative: "1,024"})
	require.NoError(t, err)
	require.JSONEq(t, `{"cases": "12", "testedNegative": "1,024"}`, string(encoded))

	var decoded Record
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Equal(t, Record{Cases: "12", TestedNegative: "1,024"}, decoded)

	require.Error(t, json.Unmarshal([]byte(`{"vases": "1"}`), &decoded))
}
