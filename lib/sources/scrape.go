package sources

import (
	"bytes"
	"episcrape/lib/headings"
	"episcrape/lib/htmltable"
	"episcrape/lib/locations"
	"episcrape/lib/parse"
	"fmt"
)

// Scrape turns the pages crawled for date into locations using the scraper
// active on that date. pages must be in crawl target order.
func (s Source) Scrape(date string, pages [][]byte) ([]locations.Location, error) {
	sc, err := s.ScraperFor(date)
	if err != nil {
		return nil, err
	}
	if len(pages) < len(sc.Crawl) {
		return nil, fmt.Errorf("expected %d crawled pages, got %d", len(sc.Crawl), len(pages))
	}
	return sc.scrape(s, pages)
}

func resolveRow(index, length int) (int, bool) {
	if index < 0 {
		index += length
	}
	return index, index >= 0 && index < length
}

func (sc Scraper) scrape(src Source, pages [][]byte) ([]locations.Location, error) {
	layout := sc.Table
	table, err := htmltable.FromReader(bytes.NewReader(pages[0]), layout.Selector)
	if err != nil {
		return nil, err
	}

	headingRow, ok := resolveRow(layout.HeadingRow, len(table))
	if !ok {
		return nil, fmt.Errorf("heading row %d out of range for a table of %d rows", layout.HeadingRow, len(table))
	}
	columns, err := headings.ColumnIndices(table[headingRow], sc.mapping)
	if err != nil {
		return nil, err
	}

	totalsRow := -1
	if layout.TotalsRow != nil {
		totalsRow, ok = resolveRow(*layout.TotalsRow, len(table))
		if !ok || totalsRow == headingRow {
			return nil, fmt.Errorf("totals row %d out of range for a table of %d rows", *layout.TotalsRow, len(table))
		}
	}

	var locs []locations.Location
	for i, row := range table {
		if i == headingRow || i == totalsRow {
			continue
		}
		record, err := headings.CreateRecord(columns, row)
		if err != nil {
			return nil, err
		}
		loc, err := sc.toLocation(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		locs = append(locs, locations.ApplyTestedNegative(loc))
	}

	total := locations.Sum(locs)
	total.State = src.State
	locs = append(locs, total)

	if totalsRow >= 0 {
		if _, ok := columns[headings.Cases]; ok {
			record, err := headings.CreateRecord(columns, table[totalsRow])
			if err != nil {
				return nil, err
			}
			scraped, err := parse.Number(record[headings.Cases])
			if err != nil {
				return nil, fmt.Errorf("totals row: %w", err)
			}
			computed := 0
			if total.Cases != nil {
				computed = *total.Cases
			}
			err = locations.AssertTotalsAreReasonable(computed, scraped, layout.Tolerance)
			if err != nil {
				return nil, err
			}
		}
	}

	locs = locations.AddEmptyRegions(locs, layout.Regions, src.aggregateField())
	for i := range locs {
		if locs[i].Country == "" {
			locs[i].Country = src.Country
		}
		if locs[i].State == "" {
			locs[i].State = src.State
		}
	}
	return locs, nil
}

func (sc Scraper) toLocation(record headings.Record) (locations.Location, error) {
	var loc locations.Location
	for _, p := range headings.Properties() {
		cell, ok := record[p]
		if !ok {
			continue
		}
		switch p {
		case headings.County:
			if sc.countyCleanup != nil {
				cell = sc.countyCleanup.ReplaceAllString(cell, "")
			}
			loc.County = locations.AddCounty(cell)
		case headings.State:
			loc.State = cell
		default:
			count := loc.Count(p)
			if count == nil {
				continue
			}
			n, err := parse.OptionalNumber(cell)
			if err != nil {
				return loc, fmt.Errorf("%s: %w", p, err)
			}
			*count = n
		}
	}
	return loc, nil
}
