// Package batch crawls and scrapes many sources for a date with a bounded
// number of sources in flight, one failing source never stops the others.
package batch

import (
	"context"
	"episcrape/internal/assert"
	"episcrape/internal/chrono"
	"episcrape/lib/dates"
	"episcrape/lib/locations"
	"episcrape/lib/pagecache"
	"episcrape/lib/sources"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency    = 10
	DefaultStatusInterval = 5 * time.Second
)

type Crawler interface {
	Crawl(ctx context.Context, src sources.Source, date string) error
}

type PageCache interface {
	Get(ctx context.Context, source, date string) ([]pagecache.Page, error)
}

type Options struct {
	Concurrency    int
	StatusInterval time.Duration
	// where status tables are rendered, defaults to stdout
	Output io.Writer
}

type Runner struct {
	registry sources.Registry
	crawler  Crawler
	pages    PageCache
	time     chrono.TimeAPI
	opts     Options
}

func NewRunner(
	registry sources.Registry,
	crawler Crawler,
	pages PageCache,
	time chrono.TimeAPI,
	opts Options,
) Runner {
	assert.NotNil("crawler", crawler)
	assert.NotNil("page cache", pages)
	assert.NotNil("time", time)

	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = DefaultStatusInterval
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return Runner{
		registry: registry,
		crawler:  crawler,
		pages:    pages,
		time:     time,
		opts:     opts,
	}
}

type Result struct {
	Source    sources.Source
	Date      string
	Locations []locations.Location
}

// Plan returns the dates to generate and whether they need a fresh crawl.
// Without a start date only today is generated and it is always crawled,
// otherwise every date from start to end (today when empty) is scraped
// from the cache.
func Plan(start, end string, time chrono.TimeAPI) ([]string, bool, error) {
	today := dates.Format(time.Now())
	if start == "" {
		return []string{today}, true, nil
	}
	if end == "" {
		end = today
	}
	list, err := dates.Range(start, end)
	if err != nil {
		return nil, false, err
	}
	return list, false, nil
}

func (r Runner) job(ctx context.Context, t *tracker, key, date string, crawl bool) (Result, error) {
	src, err := r.registry.Get(key)
	if err != nil {
		return Result{}, err
	}
	if crawl {
		t.set(key, Crawling)
		if err := r.crawler.Crawl(ctx, src, date); err != nil {
			return Result{}, err
		}
	}

	t.set(key, Scraping)
	pages, err := r.pages.Get(ctx, key, date)
	if err != nil {
		return Result{}, err
	}
	bodies := make([][]byte, len(pages))
	for i, p := range pages {
		bodies[i] = p.Body
	}
	locs, err := src.Scrape(date, bodies)
	if err != nil {
		return Result{}, err
	}
	return Result{Source: src, Date: date, Locations: locs}, nil
}

// Run processes keys for date and returns the results of the sources that
// succeeded, in key order. Failures are logged and reported in the status
// table, they are never returned.
func (r Runner) Run(ctx context.Context, keys []string, date string, crawl bool) []Result {
	t := newTracker(date, keys)
	results := make([]*Result, len(keys))

	stop := make(chan struct{})
	reported := make(chan struct{})
	go func() {
		defer close(reported)
		ticker := time.NewTicker(r.opts.StatusInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.render(r.opts.Output, r.time.Now())
			case <-stop:
				return
			}
		}
	}()

	group := errgroup.Group{}
	group.SetLimit(r.opts.Concurrency)
	for i, key := range keys {
		group.Go(func() error {
			res, err := r.job(ctx, t, key, date, crawl)
			if err != nil {
				slog.ErrorContext(ctx, "source failed", "source", key, "date", date, "err", err)
				t.set(key, Failed)
				return nil
			}
			t.set(key, Done)
			results[i] = &res
			return nil
		})
	}
	group.Wait()

	close(stop)
	<-reported
	t.render(r.opts.Output, r.time.Now())

	var out []Result
	for _, res := range results {
		if res != nil {
			out = append(out, *res)
		}
	}
	return out
}
