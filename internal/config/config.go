// Package config loads the engine's small TOML configuration file.
// Every field has a safe default, so a missing or absent file is not
// an error: the engine runs the same as it would with an empty file.
package config

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the settings that can be supplied ahead of time,
// separately from UCI "setoption" commands issued after startup.
type Config struct {
	HashMB   int    `toml:"hash_mb"`
	LogLevel string `toml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		HashMB:   64,
		LogLevel: "INFO",
	}
}

// Load reads a TOML file at path into a Config seeded with Default's
// values, so the file only needs to mention the fields it wants to
// override. An empty path, or a path with no file at it, returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return cfg, err
	}
	return cfg, nil
}
