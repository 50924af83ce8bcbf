// Package config loads ~/.config/stopsmokin/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/stopsmokin/internal/constants"
	"github.com/julianstephens/stopsmokin/internal/utils"
)

const defaultConfigYAML = `# stopsmokin configuration

# Data location. A file path ending in .json uses the flat JSON store, any
# other path is a SQLite database. A postgres:// URL selects PostgreSQL; keep
# passwords out of it (use the keyring, STOPSMOKIN_DB_CONNECTION or .pgpass).
storage: ~/.config/stopsmokin/stopsmokin.db

# IANA timezone used for the "today" boundary, or Local.
timezone: Local

# Number of trailing weeks bucketed for the weekly average and the
# reduction baseline.
week_window: 12

# Verbose logging to stderr.
debug: false
`

// Config models config.yaml.
type Config struct {
	Storage    string `yaml:"storage"`
	Timezone   string `yaml:"timezone"`
	WeekWindow int    `yaml:"week_window"`
	Debug      bool   `yaml:"debug"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Storage:    constants.DefaultStorePath,
		Timezone:   constants.DefaultTimezone,
		WeekWindow: constants.DefaultWeekWindow,
	}
}

// Load reads path. A missing file yields the defaults; fields absent from
// the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.Storage = strings.TrimSpace(cfg.Storage)
	if cfg.Storage == "" {
		cfg.Storage = constants.DefaultStorePath
	}
	if cfg.Timezone == "" {
		cfg.Timezone = constants.DefaultTimezone
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the timezone and week window.
func (c Config) Validate() error {
	if _, err := utils.LoadLocation(c.Timezone); err != nil {
		return err
	}
	if c.WeekWindow < 1 {
		return fmt.Errorf("week_window must be at least 1, got %d", c.WeekWindow)
	}
	return nil
}

// EnsureFile writes the commented default config to path if nothing is
// there yet. It reports whether a file was created.
func EnsureFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return false, fmt.Errorf("config: create dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0600); err != nil {
		return false, fmt.Errorf("config: write %s: %w", path, err)
	}
	return true, nil
}

// Save writes c to path, replacing any comments in the file.
func Save(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
