package htmltable

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<table id="other"><tr><td>not this one</td></tr></table>
<div class="wrapper">
<table>
  <thead>
    <tr><th>County</th><th>Cases<sup>1</sup></th><th colspan="2">Tests</th></tr>
  </thead>
  <tbody>
    <tr><td>Baker</td><td> 1 </td><td>120</td><td>3</td></tr>
    <tr></tr>
    <tr><td>Benton<br>County</td><td>1,024</td><td>&nbsp;</td><td><script>x()</script>4</td></tr>
    <tr><td>Total</td><td>1,025</td><td>120</td><td>7</td></tr>
  </tbody>
</table>
</div>
</body></html>`

func TestFromReader(t *testing.T) {
	rows, err := FromReader(strings.NewReader(page), `table:contains("County")`)
	require.NoError(t, err)

	expected := [][]string{
		{"County", "Cases1", "Tests", "Tests"},
		{"Baker", "1", "120", "3"},
		{"Benton County", "1,024", "", "4"},
		{"Total", "1,025", "120", "7"},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Fatal(diff)
	}
}

func TestFromReaderWrapperSelector(t *testing.T) {
	rows, err := FromReader(strings.NewReader(page), "div.wrapper")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, "County", rows[0][0])
}

func TestFromReaderNotFound(t *testing.T) {
	_, err := FromReader(strings.NewReader(page), "table.missing")
	require.ErrorIs(t, err, ErrTableNotFound)
}
