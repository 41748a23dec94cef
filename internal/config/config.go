// Package config loads tally's settings from the config file, the
// environment and command-line flags.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	// timezones must resolve on systems without a zoneinfo database
	_ "time/tzdata"

	"github.com/ayoisaiah/tally/internal/taxonomy"
)

type (
	// Config holds all configuration settings
	Config struct {
		Location      *time.Location `json:"-"`
		Taxonomy      taxonomy.Lists
		Timezone      string
		LLM           LLMConfig
		Log           LogConfig
		Storage       StorageConfig
		System        SystemConfig
		CLI           CLIConfig
		Notifications NotificationConfig
		Display       DisplayConfig
	}

	// LLMConfig holds the settings of the AI parsing strategy
	LLMConfig struct {
		Provider    string
		Model       string
		APIKey      string
		Timeout     time.Duration
		Temperature float64
		MaxTokens   int
	}

	// LogConfig holds log file settings
	LogConfig struct {
		Level      string
		MaxSize    int
		MaxBackups int
		MaxAge     int
	}

	// StorageConfig selects the database backend and file
	StorageConfig struct {
		Backend string
		Path    string
	}

	// NotificationConfig holds notification settings
	NotificationConfig struct {
		Enabled bool
	}

	// DisplayConfig holds display-related settings
	DisplayConfig struct {
		DarkTheme bool
	}

	// SystemConfig holds system-related settings
	SystemConfig struct {
		ConfigPath string
	}

	// CLIConfig holds settings that only come from command-line flags
	CLIConfig struct {
		NoAI    bool
		Verbose bool
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v0.3.0"

const (
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// AIEnabled reports whether the AI parsing strategy should be used.
func (c *Config) AIEnabled() bool {
	if c.CLI.NoAI {
		return false
	}

	return c.LLM.Provider == ProviderGemini && c.LLM.APIKey != ""
}

// New creates a new Config with default values and applies options
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("config option error: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}
