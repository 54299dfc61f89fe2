// Package config handles activityinfo configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the activityinfo configuration.
type Config struct {
	Store   StoreConfig   `toml:"store"`
	Query   QueryConfig   `toml:"query"`
	Report  ReportConfig  `toml:"report"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

// StoreConfig selects the database.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string `toml:"path"`

	// Driver is "sqlite3" (cgo, default) or "sqlite" (pure Go).
	Driver string `toml:"driver"`
}

// QueryConfig bounds site queries.
type QueryConfig struct {
	// MaxLimit caps the page size of every request. Zero means no cap.
	MaxLimit int `toml:"max_limit"`

	// IndicatorCacheSize is the number of indicators kept in memory.
	IndicatorCacheSize int `toml:"indicator_cache_size"`
}

// ReportConfig holds rendering defaults.
type ReportConfig struct {
	// Format is the default output format: "pdf" or "rtf".
	Format string `toml:"format"`

	// OutputDir receives rendered files when no explicit path is given.
	OutputDir string `toml:"output_dir"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the metrics at the end of each command.
	Textfile string `toml:"textfile"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Store:  StoreConfig{Path: "activityinfo.db", Driver: "sqlite3"},
		Query:  QueryConfig{MaxLimit: 1000, IndicatorCacheSize: 256},
		Report: ReportConfig{Format: "pdf", OutputDir: "."},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path. Keys missing from
// the file keep their default values; unknown keys are rejected.
func LoadFrom(path string) (*Config, error) {
	config := Default()
	md, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// Validate rejects values the rest of the program cannot use.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "", "sqlite3", "sqlite":
	default:
		return fmt.Errorf("store.driver must be sqlite3 or sqlite, got %q", c.Store.Driver)
	}
	if c.Query.MaxLimit < 0 {
		return fmt.Errorf("query.max_limit must not be negative, got %d", c.Query.MaxLimit)
	}
	switch c.Report.Format {
	case "", "pdf", "rtf", "trace":
	default:
		return fmt.Errorf("report.format must be pdf, rtf or trace, got %q", c.Report.Format)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/activityinfo/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "activityinfo", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "activityinfo", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}
