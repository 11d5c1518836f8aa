package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// LocalPath is the override file that sits next to `name`,
// "sources/us-or.json5" -> "sources/us-or.local.json5".
func LocalPath(name string) string {
	prefixname, ext := splitExt(filepath.Base(name))
	return filepath.Join(
		filepath.Dir(name),
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
}

// Parse decodes json5 `base` and merges every override on top of it, later
// overrides win. Empty overrides are skipped.
func Parse[T any](base []byte, overrides ...[]byte) (T, error) {
	var out T
	if len(base) > 0 {
		if err := json5.Unmarshal(base, &out); err != nil {
			return out, err
		}
	}
	for _, raw := range overrides {
		if len(raw) == 0 {
			continue
		}
		var override T
		if err := json5.Unmarshal(raw, &override); err != nil {
			return out, err
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
	}
	return out, nil
}

// reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
func ReadConfig[T any](name string) (T, error) {
	var out T

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}

	localFilepath := LocalPath(name)
	localFile, err := os.ReadFile(localFilepath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}

	if len(defaultFile) == 0 && len(localFile) == 0 {
		return out, os.ErrNotExist
	}
	if len(localFile) > 0 {
		slog.Info("merging config with local overrides", "local", localFilepath)
	}

	out, err = Parse[T](defaultFile, localFile)
	if err != nil {
		return out, fmt.Errorf("read config %s: %w", name, err)
	}
	return out, nil
}

// ReadConfig but it recursively goes up the filesystem until the root
// to find a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var defaultOut T

	root, err := filepath.Abs("/")
	if err != nil {
		return defaultOut, err
	}
	current, err := os.Getwd()
	if err != nil {
		return defaultOut, err
	}

	for current != root {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if os.IsNotExist(err) {
			current = filepath.Dir(current)
			continue
		}
		if err != nil {
			return defaultOut, err
		}

		return config, nil
	}

	return defaultOut, os.ErrNotExist
}

// ReadOrDefault reads `name` (if given) or searches for `fallback` up the
// filesystem. A missing file yields `defaults`, anything found is merged
// over them.
func ReadOrDefault[T any](name, fallback string, defaults T) (T, error) {
	var found T
	var err error
	if name != "" {
		found, err = ReadConfig[T](name)
	} else {
		found, err = ReadRecursively[T](fallback)
	}
	if os.IsNotExist(err) {
		if name != "" {
			return defaults, fmt.Errorf("config %s: %w", name, err)
		}
		return defaults, nil
	}
	if err != nil {
		return defaults, err
	}

	out := defaults
	if err := mergo.Merge(&out, found, mergo.WithOverride); err != nil {
		return defaults, err
	}
	return out, nil
}
