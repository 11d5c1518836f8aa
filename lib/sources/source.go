// Package sources describes where each health authority publishes its
// table and how to turn that table into locations.
package sources

import (
	"episcrape/lib/dates"
	"episcrape/lib/headings"
	"errors"
	"fmt"
	"regexp"
	"sort"
)

var (
	ErrNoScraper        = errors.New("no scraper for date")
	ErrUnknownSource    = errors.New("unknown source")
	ErrUnsupportedCrawl = errors.New("unsupported crawl type")
)

const defaultTolerance = 0.05

type Friendly struct {
	Name string `json:"name"`
	Url  string `json:"url"`
}

type CrawlTarget struct {
	// only "page" is supported
	Type string `json:"type"`
	Data string `json:"data"`
	Url  string `json:"url"`
}

// TotalsRow counts from the end when negative, nil means the table has no
// totals row.
type TableSpec struct {
	Selector      string              `json:"selector"`
	HeadingRow    int                 `json:"heading_row"`
	TotalsRow     *int                `json:"totals_row"`
	Mapping       headings.RawMapping `json:"mapping"`
	CountyCleanup string              `json:"county_cleanup"`
	Regions       []string            `json:"regions"`
	Tolerance     float64             `json:"tolerance"`
}

type Scraper struct {
	StartDate string        `json:"start_date"`
	Crawl     []CrawlTarget `json:"crawl"`
	Table     TableSpec     `json:"table"`

	mapping       headings.Mapping
	countyCleanup *regexp.Regexp
}

type Source struct {
	Key         string    `json:"-"`
	Country     string    `json:"country"`
	State       string    `json:"state"`
	Aggregate   string    `json:"aggregate"`
	Priority    int       `json:"priority"`
	Friendly    Friendly  `json:"friendly"`
	Maintainers []string  `json:"maintainers"`
	Scrapers    []Scraper `json:"scrapers"`
}

// prepare checks the scraper and compiles its mapping and cleanup regex.
func (sc *Scraper) prepare() error {
	if _, err := dates.Parse(sc.StartDate); err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	if len(sc.Crawl) == 0 {
		return fmt.Errorf("scraper starting %s has nothing to crawl", sc.StartDate)
	}
	for _, target := range sc.Crawl {
		if target.Type != "page" {
			return fmt.Errorf("%w: %q", ErrUnsupportedCrawl, target.Type)
		}
		if target.Url == "" {
			return fmt.Errorf("scraper starting %s has a crawl target without a url", sc.StartDate)
		}
	}

	mapping, err := headings.ParseMapping(sc.Table.Mapping)
	if err != nil {
		return err
	}
	sc.mapping = mapping

	if sc.Table.CountyCleanup != "" {
		sc.countyCleanup, err = regexp.Compile(sc.Table.CountyCleanup)
		if err != nil {
			return fmt.Errorf("county_cleanup: %w", err)
		}
	}
	if sc.Table.Tolerance == 0 {
		sc.Table.Tolerance = defaultTolerance
	}
	return nil
}

func (s *Source) prepare() error {
	switch s.Aggregate {
	case "county", "state":
	default:
		return fmt.Errorf("aggregate must be county or state, got %q", s.Aggregate)
	}
	if len(s.Scrapers) == 0 {
		return fmt.Errorf("no scrapers")
	}
	for i := range s.Scrapers {
		if err := s.Scrapers[i].prepare(); err != nil {
			return err
		}
	}
	// dates are YYYY-MM-DD so they sort lexically
	sort.SliceStable(s.Scrapers, func(i, j int) bool {
		return s.Scrapers[i].StartDate < s.Scrapers[j].StartDate
	})
	return nil
}

// ScraperFor returns the scraper with the latest start date on or before
// date.
func (s Source) ScraperFor(date string) (Scraper, error) {
	for i := len(s.Scrapers) - 1; i >= 0; i-- {
		if s.Scrapers[i].StartDate <= date {
			return s.Scrapers[i], nil
		}
	}
	return Scraper{}, fmt.Errorf("%w: %s on %s", ErrNoScraper, s.Key, date)
}

// Mapping is the parsed heading mapping of the scraper.
func (sc Scraper) Mapping() headings.Mapping {
	return sc.mapping
}

func (s Source) aggregateField() headings.Property {
	if s.Aggregate == "state" {
		return headings.State
	}
	return headings.County
}
