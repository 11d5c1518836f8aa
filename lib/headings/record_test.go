package headings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateRecord(t *testing.T) {
	columns := Columns{Cases: 0, Deaths: 4}
	row := []string{"abc", "1", "2", "def", "xxx"}

	record, err := CreateRecord(columns, row)
	require.NoError(t, err)
	require.Equal(t, Record{Cases: "abc", Deaths: "xxx"}, record)

	again, err := CreateRecord(columns, row)
	require.NoError(t, err)
	require.Equal(t, record, again)
}

func TestCreateRecordOutOfRange(t *testing.T) {
	columns := Columns{Cases: 0, Deaths: 4}
	row := []string{"abc", "1", "2"}

	_, err := CreateRecord(columns, row)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	require.EqualError(t, err, `deaths (index 4) out of range for ["abc", "1", "2"]`)

	var outOfRange *IndexOutOfRangeError
	require.True(t, errors.As(err, &outOfRange))
	require.Equal(t, Deaths, outOfRange.Property)
	require.Equal(t, 4, outOfRange.Index)
	require.Equal(t, row, outOfRange.Row)
}

func TestCreateRecordReportsFirstPropertyInOrder(t *testing.T) {
	columns := Columns{Tested: 9, Active: 7, Cases: 0}
	_, err := CreateRecord(columns, []string{"1"})

	var outOfRange *IndexOutOfRangeError
	require.True(t, errors.As(err, &outOfRange))
	require.Equal(t, Active, outOfRange.Property)
}

func TestResolveThenProject(t *testing.T) {
	table := [][]string{
		{"County", "Cases", "Deaths", "Negative", "% Positive"},
		{"Baker", "1", "0", "120", "0.8"},
		{"Benton", "24", "1", "1,203", "2.0"},
	}
	m := Mapping{
		Cases:          {Fragment("cases")},
		County:         {Fragment("county")},
		Deaths:         {Fragment("deaths")},
		TestedNegative: {Fragment("negative")},
		Discard:        {Fragment("percent"), MustPattern("%")},
	}

	columns, err := ColumnIndices(table[0], m)
	require.NoError(t, err)

	var records []Record
	for _, row := range table[1:] {
		r, err := CreateRecord(columns, row)
		require.NoError(t, err)
		records = append(records, r)
	}
	require.Equal(t, []Record{
		{County: "Baker", Cases: "1", Deaths: "0", TestedNegative: "120"},
		{County: "Benton", Cases: "24", Deaths: "1", TestedNegative: "1,203"},
	}, records)
}
