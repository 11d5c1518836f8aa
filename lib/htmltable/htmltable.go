package htmltable

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var ErrTableNotFound = errors.New("table not found")

// cells wider than this are treated as malformed markup
const maxColspan = 64

func getText(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		buffer.WriteString(node.Data)
		return
	case html.ElementNode:
		if node.Data == "br" {
			buffer.WriteByte(' ')
			return
		}
		if node.Data == "script" || node.Data == "style" {
			return
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		getText(child, buffer)
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// CellText is the visible text of a cell with non-printable runes removed
// and whitespace collapsed.
func CellText(node *html.Node) string {
	var buffer bytes.Buffer
	getText(node, &buffer)

	text := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, buffer.String())
	text = innerWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func colspan(cell *goquery.Selection) int {
	n, err := strconv.Atoi(strings.TrimSpace(cell.AttrOr("colspan", "1")))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxColspan {
		return maxColspan
	}
	return n
}

// FromSelection normalizes a table element into rows of cell strings.
// Rows without cells are dropped, a cell spanning N columns is repeated
// N times.
func FromSelection(table *goquery.Selection) [][]string {
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Children().Filter("th, td").Each(func(_ int, cell *goquery.Selection) {
			text := ""
			if len(cell.Nodes) > 0 {
				text = CellText(cell.Nodes[0])
			}
			for i := 0; i < colspan(cell); i++ {
				row = append(row, text)
			}
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	return rows
}

// FromDocument finds the first element matching selector and normalizes it.
func FromDocument(doc *goquery.Document, selector string) ([][]string, error) {
	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, selector)
	}
	if !table.Is("table") {
		if inner := table.Find("table").First(); inner.Length() > 0 {
			table = inner
		}
	}
	return FromSelection(table), nil
}

func FromReader(r io.Reader, selector string) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return FromDocument(doc, selector)
}
