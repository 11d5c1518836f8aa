package commands

import (
	"context"
	"episcrape/internal/batch"
	"episcrape/internal/chrono"
	"episcrape/lib/crawler"
	"episcrape/lib/dates"
	"episcrape/lib/telemetry"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	crawlSources  []string
	crawlSchedule string
)

func init() {
	crawlCmd.Flags().StringArrayVarP(&crawlSources, "source", "s", nil, "Source key to crawl, can be repeated (all sources by default).")
	crawlCmd.Flags().StringVar(&crawlSchedule, "schedule", "", "Cron schedule (UTC) to keep crawling on instead of crawling once.")
	rootCmd.AddCommand(crawlCmd)
}

// crawlAll crawls every key for today, returning how many failed.
func crawlAll(ctx context.Context, a *app, c *crawler.Crawler, clock chrono.TimeAPI, keys []string) int {
	date := dates.Format(clock.Now())

	limit := a.config.Batch.Concurrency
	if limit <= 0 {
		limit = batch.DefaultConcurrency
	}

	var failed int
	var group errgroup.Group
	group.SetLimit(limit)
	results := make([]error, len(keys))
	for i, key := range keys {
		group.Go(func() error {
			src, err := a.registry.Get(key)
			if err == nil {
				err = c.Crawl(ctx, src, date)
			}
			results[i] = err
			return nil
		})
	}
	group.Wait()

	for i, err := range results {
		if err != nil {
			slog.ErrorContext(ctx, "crawl failed", "source", keys[i], "date", date, "err", err)
			failed++
		}
	}
	slog.InfoContext(ctx, "crawl finished", "date", date, "sources", len(keys), "failed", failed)
	return failed
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [--source <key> ...] [--schedule <cron>]",
	Short: "Crawls today's pages into the page cache, once or on a schedule.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := getApp(ctx)
		keys := sourceKeys(a, crawlSources)
		c := crawler.New(a.store, a.config.Crawler)
		clock := chrono.NewStandardTime()

		if crawlSchedule == "" {
			if failed := crawlAll(ctx, a, c, clock, keys); failed > 0 {
				return fmt.Errorf("%d of %d sources failed", failed, len(keys))
			}
			return nil
		}

		cron := chrono.NewStandardCron()
		err := cron.Cron(crawlSchedule, func() {
			crawlAll(ctx, a, c, clock, keys)
		})
		if err != nil {
			return err
		}
		telemetry.InstrumentPerfStats(ctx, 30*time.Second)
		slog.InfoContext(ctx, "crawling on schedule", "schedule", crawlSchedule, "sources", len(keys))

		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		cron.Stop(stopCtx)
		return nil
	},
}
