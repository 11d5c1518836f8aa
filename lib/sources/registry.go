package sources

import (
	"embed"
	"episcrape/lib/configutil"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed data/*.json5
var builtin embed.FS

type Registry struct {
	sources map[string]Source
}

func isSourceFile(name string) bool {
	return strings.HasSuffix(name, ".json5") && !strings.HasSuffix(name, ".local.json5")
}

func keyOf(name string) string {
	return strings.TrimSuffix(filepath.Base(name), ".json5")
}

// Load reads the built in sources, then every <key>.json5 in dir (if dir
// is not empty). A file in dir with the key of a built in source is merged
// over it, as is a <key>.local.json5 next to it.
func Load(dir string) (Registry, error) {
	raw := map[string][][]byte{}

	entries, err := fs.ReadDir(builtin, "data")
	if err != nil {
		return Registry{}, err
	}
	for _, e := range entries {
		if !isSourceFile(e.Name()) {
			continue
		}
		contents, err := builtin.ReadFile(path.Join("data", e.Name()))
		if err != nil {
			return Registry{}, err
		}
		key := keyOf(e.Name())
		raw[key] = append(raw[key], contents)
	}

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return Registry{}, fmt.Errorf("read sources directory: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !isSourceFile(e.Name()) {
				continue
			}
			name := filepath.Join(dir, e.Name())
			contents, err := os.ReadFile(name)
			if err != nil {
				return Registry{}, err
			}
			key := keyOf(e.Name())
			raw[key] = append(raw[key], contents)

			local, err := os.ReadFile(configutil.LocalPath(name))
			if err == nil {
				slog.Info("merging source with local overrides", "source", key)
				raw[key] = append(raw[key], local)
			} else if !os.IsNotExist(err) {
				return Registry{}, err
			}
		}
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	reg := Registry{sources: map[string]Source{}}
	for _, key := range keys {
		layers := raw[key]
		src, err := configutil.Parse[Source](layers[0], layers[1:]...)
		if err != nil {
			return Registry{}, fmt.Errorf("source %s: %w", key, err)
		}
		src.Key = key
		if err := src.prepare(); err != nil {
			return Registry{}, fmt.Errorf("source %s: %w", key, err)
		}
		reg.sources[key] = src
	}
	return reg, nil
}

// Keys returns every registered source key, sorted.
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r.sources))
	for k := range r.sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r Registry) Get(key string) (Source, error) {
	src, ok := r.sources[key]
	if !ok {
		return Source{}, fmt.Errorf("%w: %s", ErrUnknownSource, key)
	}
	return src, nil
}
