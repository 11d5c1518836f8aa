package commands

import (
	"episcrape/internal/batch"
	"episcrape/lib/configutil"
	"episcrape/lib/crawler"
	"episcrape/lib/pagecache"
	"episcrape/lib/telemetry"
	"time"
)

const configName = "episcrape.json5"

type BatchConfig struct {
	Concurrency           int `json:"concurrency"`
	StatusIntervalSeconds int `json:"status_interval_seconds"`
}

type Config struct {
	Cache pagecache.Config `json:"cache"`
	// a directory of <key>.json5 sources merged over the built in ones
	SourcesDir string           `json:"sources_dir"`
	Crawler    crawler.Config   `json:"crawler"`
	Batch      BatchConfig      `json:"batch"`
	Telemetry  telemetry.Config `json:"telemetry"`
}

func defaultConfig() Config {
	return Config{
		Cache:   pagecache.Config{File: ".episcrape/pages.db"},
		Crawler: crawler.DefaultConfig(),
		Batch: BatchConfig{
			Concurrency:           batch.DefaultConcurrency,
			StatusIntervalSeconds: int(batch.DefaultStatusInterval / time.Second),
		},
	}
}

// readConfig reads path, or searches for episcrape.json5 from the working
// directory up when path is empty. Without any file the defaults are used.
func readConfig(path string) (Config, error) {
	return configutil.ReadOrDefault(path, configName, defaultConfig())
}
