// Package crawler fetches the pages a source's scraper needs and keeps
// them in the page cache.
package crawler

import (
	"context"
	"episcrape/lib/dates"
	"episcrape/lib/pagecache"
	"episcrape/lib/sources"
	"episcrape/lib/telemetry"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = telemetry.Tracer("episcrape/lib/crawler")

type Config struct {
	// requests per second allowed against a single host
	Rate           float64 `json:"rate"`
	Burst          int     `json:"burst"`
	TimeoutSeconds int     `json:"timeout_seconds"`
	UserAgent      string  `json:"user_agent"`
}

func DefaultConfig() Config {
	return Config{
		Rate:           1,
		Burst:          2,
		TimeoutSeconds: 30,
		UserAgent:      "episcrape/1.0",
	}
}

type Crawler struct {
	client *resty.Client
	store  pagecache.Store
	config Config

	mutex    sync.Mutex
	limiters map[string]*rate.Limiter
}

func New(store pagecache.Store, config Config) *Crawler {
	defaults := DefaultConfig()
	if config.Rate <= 0 {
		config.Rate = defaults.Rate
	}
	if config.Burst <= 0 {
		config.Burst = defaults.Burst
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}

	client := resty.New()
	client.SetHeader("user-agent", config.UserAgent)
	client.SetTimeout(time.Second * time.Duration(config.TimeoutSeconds))
	telemetry.InstrumentResty(client, "episcrape/lib/crawler/http")

	return &Crawler{
		client:   client,
		store:    store,
		config:   config,
		limiters: map[string]*rate.Limiter{},
	}
}

func (c *Crawler) limiter(host string) *rate.Limiter {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	l, ok := c.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(c.config.Rate), c.config.Burst)
		c.limiters[host] = l
	}
	return l
}

// Fetch gets a single url, waiting for the host's rate limit first. Any
// non 2xx response is an error.
func (c *Crawler) Fetch(ctx context.Context, target string) (pagecache.Page, error) {
	u, err := url.Parse(target)
	if err != nil {
		return pagecache.Page{}, err
	}
	if err := c.limiter(u.Host).Wait(ctx); err != nil {
		return pagecache.Page{}, err
	}

	res, err := c.client.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		return pagecache.Page{}, fmt.Errorf("fetch %s: %w", target, err)
	}
	if !res.IsSuccess() {
		return pagecache.Page{}, fmt.Errorf("fetch %s: unexpected status %s", target, res.Status())
	}
	return pagecache.Page{
		Url:       target,
		FetchedAt: dates.Now(),
		Body:      res.Body(),
	}, nil
}

// Crawl fetches every crawl target of the scraper active on date and
// caches them together, nothing is cached if any target fails.
func (c *Crawler) Crawl(ctx context.Context, src sources.Source, date string) error {
	ctx, span := tracer.Start(ctx, "Crawl")
	defer span.End()
	span.SetAttributes(
		attribute.String("source", src.Key),
		attribute.String("date", date),
	)

	sc, err := src.ScraperFor(date)
	if err != nil {
		span.SetStatus(codes.Error, "no scraper")
		return err
	}

	pages := make([]pagecache.Page, 0, len(sc.Crawl))
	for _, target := range sc.Crawl {
		page, err := c.Fetch(ctx, target.Url)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch failed")
			return err
		}
		pages = append(pages, page)
	}

	err = c.store.Put(ctx, src.Key, date, pages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to cache pages")
		return fmt.Errorf("cache %s: %w", src.Key, err)
	}
	slog.InfoContext(ctx, "crawled source", "source", src.Key, "date", date, "pages", len(pages))
	return nil
}
