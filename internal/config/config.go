// Package config defines service configuration structures and loading hooks.
//
// Values are layered, lowest precedence first: the defaults of New, an
// optional YAML file named by NEXTALBUM_CONFIG, then NEXTALBUM_* environment
// variables. A .env file is read into the environment before the env layer.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/nextalbum/internal/domain/model"
	scoring "github.com/okian/nextalbum/internal/domain/scoring"
	"github.com/okian/nextalbum/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// LibraryPath is the SQLite file holding the track index.
	LibraryPath string `koanf:"library_path"`

	// StatePath is the SQLite file holding exclusions and preferences.
	StatePath string `koanf:"state_path"`

	// ScanRoots are the directories the library command indexes.
	ScanRoots []string `koanf:"scan_roots"`

	// SortKey, SortDirection, UseRatings and SkipExcluded seed the stored
	// preferences the first time the state database is created.
	SortKey       string `koanf:"sort_key"`
	SortDirection string `koanf:"sort_direction"`
	UseRatings    bool   `koanf:"use_ratings"`
	SkipExcluded  bool   `koanf:"skip_excluded"`
}

// New creates a Config holding the defaults.
func New() *Config {
	defaults := model.DefaultPreferences()
	return &Config{
		LogLevel:      "info",
		LogFormat:     string(logger.FormatText),
		Addr:          ":9080",
		LibraryPath:   "library.db",
		StatePath:     "nextalbum.db",
		SortKey:       defaults.SortKey,
		SortDirection: defaults.Direction,
		UseRatings:    defaults.UseRatings,
		SkipExcluded:  defaults.SkipExcluded,
	}
}

// Preferences returns the configured default preferences in canonical form.
func (c *Config) Preferences() model.Preferences {
	p := model.Preferences{
		UseRatings:   c.UseRatings,
		SortKey:      c.SortKey,
		Direction:    c.SortDirection,
		SkipExcluded: c.SkipExcluded,
	}
	if o, err := scoring.ParseOrder(c.SortKey, c.SortDirection); err == nil {
		p.SortKey = string(o.Key)
		p.Direction = string(o.Direction)
	}
	return p
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.LibraryPath) == "":
		return fmt.Errorf("%w: library_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.StatePath) == "":
		return fmt.Errorf("%w: state_path must not be empty", ErrInvalidConfig)
	}

	switch logger.Format(strings.ToLower(c.LogFormat)) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	if _, err := scoring.ParseOrder(c.SortKey, c.SortDirection); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
