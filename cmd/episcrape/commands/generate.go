package commands

import (
	"episcrape/internal/batch"
	"episcrape/internal/chrono"
	"episcrape/internal/report"
	"episcrape/lib/crawler"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	generateOutput      string
	generateSources     []string
	generateDate        string
	generateEndDate     string
	generateConcurrency int
)

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Directory to write raw files to.")
	generateCmd.Flags().StringArrayVarP(&generateSources, "source", "s", nil, "Source key to include, can be repeated (all sources by default).")
	generateCmd.Flags().StringVarP(&generateDate, "date", "d", "", "Start at yyyy-mm-dd, scraping cached pages (today with a fresh crawl by default).")
	generateCmd.Flags().StringVarP(&generateEndDate, "endDate", "e", "", "End at yyyy-mm-dd (today by default).")
	generateCmd.Flags().IntVar(&generateConcurrency, "concurrency", 0, "Sources processed at once (batch.concurrency from the config by default).")
	generateCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(generateCmd)
}

// sourceKeys returns the requested keys, or every registered key.
func sourceKeys(a *app, requested []string) []string {
	if len(requested) == 0 {
		return a.registry.Keys()
	}
	return requested
}

var generateCmd = &cobra.Command{
	Use:   "generate --output <dir> [--source <key> ...] [--date yyyy-mm-dd [--endDate yyyy-mm-dd]]",
	Short: "Crawls and scrapes sources, writing raw files and a summary for each date.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := getApp(ctx)
		clock := chrono.NewStandardTime()

		list, crawl, err := batch.Plan(generateDate, generateEndDate, clock)
		if err != nil {
			return err
		}
		keys := sourceKeys(a, generateSources)
		slog.InfoContext(ctx, "generating", "dates", len(list), "sources", len(keys), "crawl", crawl)

		concurrency := a.config.Batch.Concurrency
		if generateConcurrency > 0 {
			concurrency = generateConcurrency
		}
		runner := batch.NewRunner(
			a.registry,
			crawler.New(a.store, a.config.Crawler),
			a.store,
			clock,
			batch.Options{
				Concurrency:    concurrency,
				StatusInterval: time.Duration(a.config.Batch.StatusIntervalSeconds) * time.Second,
				Output:         os.Stdout,
			},
		)

		var summaries []report.Summary
		for _, date := range list {
			fmt.Printf("\n%s\nGenerating %s\n", strings.Repeat("=", 40), date)

			results := runner.Run(ctx, keys, date, crawl)
			err := report.WriteRaw(generateOutput, date, results)
			if err != nil {
				return fmt.Errorf("failed to write raw file for %s: %w", date, err)
			}
			summaries = append(summaries, report.Summarize(results)...)

			if ctx.Err() != nil {
				return ctx.Err()
			}
		}

		err = report.WriteSummaryCSV(generateOutput, summaries)
		if err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		report.RenderSummary(os.Stdout, summaries)
		return nil
	},
}
