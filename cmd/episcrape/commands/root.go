package commands

import (
	"context"
	"episcrape/lib/pagecache"
	"episcrape/lib/sources"
	"episcrape/lib/telemetry"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

// app is everything a command needs, it is prepared once before any
// command runs.
type app struct {
	config    Config
	registry  sources.Registry
	store     pagecache.Store
	telemetry telemetry.Telemetry
}

type appKeyType int

var appKey appKeyType

func getApp(ctx context.Context) *app {
	return ctx.Value(appKey).(*app)
}

var rootCmd = &cobra.Command{
	Use:   "episcrape",
	Short: "episcrape crawls health authority pages and scrapes their case tables.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(debug)

		config, err := readConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		registry, err := sources.Load(config.SourcesDir)
		if err != nil {
			return fmt.Errorf("failed to load sources: %w", err)
		}

		a := &app{config: config, registry: registry}
		if cmd.Annotations["cache"] == "none" {
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		}

		a.telemetry, err = telemetry.Setup(cmd.Context(), "episcrape", config.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to setup telemetry: %w", err)
		}
		a.store, err = pagecache.Open(cmd.Context(), config.Cache)
		if err != nil {
			return fmt.Errorf("failed to open page cache: %w", err)
		}
		cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		a := getApp(cmd.Context())
		if a.store != (pagecache.Store{}) {
			if err := a.store.Close(); err != nil {
				slog.Warn("failed to close page cache", "err", err)
			}
		}
		if err := a.telemetry.Shutdown(context.Background()); err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to episcrape.json5 (searched for from the working directory up by default).")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log at debug level.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
