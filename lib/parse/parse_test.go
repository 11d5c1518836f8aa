package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
	}{
		{input: "0", expected: 0},
		{input: "1,234", expected: 1234},
		{input: " 12 ", expected: 12},
		{input: "12*", expected: 12},
		{input: "1,024.0", expected: 1024},
		{input: "-3", expected: -3},
	}
	for _, test := range testCases {
		n, err := Number(test.input)
		require.NoError(t, err, test.input)
		require.Equal(t, test.expected, n, test.input)
	}
}

func TestNumberErrors(t *testing.T) {
	for _, input := range []string{"", "  ", "-", "—"} {
		_, err := Number(input)
		require.ErrorIs(t, err, ErrEmpty, input)
	}
	for _, input := range []string{"n/a", "pending", "1-2-3"} {
		_, err := Number(input)
		require.ErrorIs(t, err, ErrNotANumber, input)
	}
}

func TestFloat(t *testing.T) {
	f, err := Float("2.5%")
	require.NoError(t, err)
	require.Equal(t, 2.5, f)

	_, err = Float("")
	require.ErrorIs(t, err, ErrEmpty)
}

func TestOptionalNumber(t *testing.T) {
	n, err := OptionalNumber("")
	require.NoError(t, err)
	require.Nil(t, n)

	n, err = OptionalNumber("1,000")
	require.NoError(t, err)
	require.Equal(t, 1000, *n)

	_, err = OptionalNumber("abc")
	require.ErrorIs(t, err, ErrNotANumber)
}
