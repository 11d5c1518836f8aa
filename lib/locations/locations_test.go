package locations

import (
	"encoding/json"
	"episcrape/lib/headings"
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(n int) *int { return &n }

func TestAddCounty(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "Baker", expected: "Baker County"},
		{input: "Hood  River", expected: "Hood River County"},
		{input: "Lane County", expected: "Lane County"},
		{input: " Linn county ", expected: "Linn County"},
		{input: "", expected: ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, AddCounty(test.input), test.input)
	}
}

func TestApplyTestedNegative(t *testing.T) {
	l := ApplyTestedNegative(Location{Cases: ptr(10), TestedNegative: ptr(90)})
	require.Equal(t, 100, *l.Tested)
	require.Nil(t, l.TestedNegative)

	l = ApplyTestedNegative(Location{Cases: ptr(10), Tested: ptr(50), TestedNegative: ptr(90)})
	require.Equal(t, 50, *l.Tested)
	require.Nil(t, l.TestedNegative)

	l = ApplyTestedNegative(Location{Cases: ptr(10)})
	require.Nil(t, l.Tested)
}

func TestSum(t *testing.T) {
	total := Sum([]Location{
		{County: "Baker County", Cases: ptr(1), Deaths: ptr(0)},
		{County: "Benton County", Cases: ptr(24), Tested: ptr(300)},
		{County: "Clatsop County"},
	})
	require.Equal(t, 25, *total.Cases)
	require.Equal(t, 0, *total.Deaths)
	require.Equal(t, 300, *total.Tested)
	require.Nil(t, total.Recovered)
	require.Empty(t, total.County)
}

func TestAssertTotalsAreReasonable(t *testing.T) {
	require.NoError(t, AssertTotalsAreReasonable(100, 100, 0))
	require.NoError(t, AssertTotalsAreReasonable(96, 100, 0.05))
	require.ErrorIs(t, AssertTotalsAreReasonable(94, 100, 0.05), ErrUnreasonableTotals)
	require.ErrorIs(t, AssertTotalsAreReasonable(101, 100, 0), ErrUnreasonableTotals)
}

func TestAddEmptyRegions(t *testing.T) {
	locs := AddEmptyRegions(
		[]Location{{County: "Baker County", Cases: ptr(1)}},
		[]string{"Baker County", "Benton County", "Benton County"},
		headings.County,
	)
	require.Equal(t, []Location{
		{County: "Baker County", Cases: ptr(1)},
		{County: "Benton County"},
	}, locs)
}

func TestLocationJSONOmitsAbsentCounts(t *testing.T) {
	encoded, err := json.Marshal(Location{State: "iso2:US-OR", County: "Baker County", Cases: ptr(0)})
	require.NoError(t, err)
	require.JSONEq(t, `{"state": "iso2:US-OR", "county": "Baker County", "cases": 0}`, string(encoded))
}

func TestCounted(t *testing.T) {
	require.NotContains(t, Counted(), headings.County)
	require.NotContains(t, Counted(), headings.State)
	require.Contains(t, Counted(), headings.TestedNegative)
	require.Len(t, Counted(), 8)
}
