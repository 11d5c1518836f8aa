// Package report writes generated data to disk and renders the summary
// tables printed at the end of a run.
package report

import (
	"encoding/csv"
	"encoding/json"
	"episcrape/internal/batch"
	"episcrape/lib/locations"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary is the per location, per date line of the summary table.
type Summary struct {
	Key          string `json:"key"`
	Date         string `json:"date"`
	Cases        *int   `json:"cases,omitempty"`
	Recovered    *int   `json:"recovered,omitempty"`
	Deaths       *int   `json:"deaths,omitempty"`
	Tested       *int   `json:"tested,omitempty"`
	Hospitalized *int   `json:"hospitalized,omitempty"`
}

// RawLocation is a scraped location tagged with the source it came from.
type RawLocation struct {
	Source    string `json:"source"`
	Aggregate string `json:"aggregate,omitempty"`
	locations.Location
}

func Key(l locations.Location) string {
	return fmt.Sprintf("%s/%s/%s", l.Country, l.State, l.County)
}

func Summarize(results []batch.Result) []Summary {
	var out []Summary
	for _, res := range results {
		for _, loc := range res.Locations {
			out = append(out, Summary{
				Key:          Key(loc),
				Date:         res.Date,
				Cases:        loc.Cases,
				Recovered:    loc.Recovered,
				Deaths:       loc.Deaths,
				Tested:       loc.Tested,
				Hospitalized: loc.Hospitalized,
			})
		}
	}
	return out
}

func RawPath(dir, date string) string {
	return filepath.Join(dir, fmt.Sprintf("raw-%s.json", date))
}

// WriteRaw writes every location scraped for date to raw-<date>.json in dir.
func WriteRaw(dir, date string, results []batch.Result) error {
	raw := []RawLocation{}
	for _, res := range results {
		for _, loc := range res.Locations {
			raw = append(raw, RawLocation{
				Source:    res.Source.Key,
				Aggregate: res.Source.Aggregate,
				Location:  loc,
			})
		}
	}

	encoded, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return err
	}
	return os.WriteFile(RawPath(dir, date), encoded, 0644)
}

var csvHeader = []string{"key", "date", "cases", "recovered", "deaths", "tested", "hospitalized"}

func formatCount(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func WriteSummaryCSV(dir string, records []Summary) error {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, "summary.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	err = w.Write(csvHeader)
	if err != nil {
		return err
	}
	for _, r := range records {
		err := w.Write([]string{
			r.Key,
			r.Date,
			formatCount(r.Cases),
			formatCount(r.Recovered),
			formatCount(r.Deaths),
			formatCount(r.Tested),
			formatCount(r.Hospitalized),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// RenderSummary renders one table per location key (in order of first
// appearance) with that location's rows sorted by date.
func RenderSummary(w io.Writer, records []Summary) {
	var keys []string
	byKey := map[string][]Summary{}
	for _, r := range records {
		if _, ok := byKey[r.Key]; !ok {
			keys = append(keys, r.Key)
		}
		byKey[r.Key] = append(byKey[r.Key], r)
	}

	for _, key := range keys {
		rows := byKey[key]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Date < rows[j].Date
		})

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(w)
		t.SetTitle(key)
		t.AppendHeader(table.Row{"Date", "Cases", "Recovered", "Deaths", "Tested", "Hospitalized"})
		for _, r := range rows {
			t.AppendRow(table.Row{
				r.Date,
				formatCount(r.Cases),
				formatCount(r.Recovered),
				formatCount(r.Deaths),
				formatCount(r.Tested),
				formatCount(r.Hospitalized),
			})
		}
		t.Render()
	}
}
