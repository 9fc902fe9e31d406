// Package config loads the deepthink server configuration from an optional
// YAML file, applying defaults for everything omitted.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/steveyegge/deepthink/internal/thinking"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Store    StoreConfig     `yaml:"store"`
	Thinking thinking.Config `yaml:"thinking"`
}

// ServerConfig controls the stdio server.
type ServerConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// RateLimit is the maximum requests per second accepted from the
	// client. Zero disables limiting.
	RateLimit float64 `yaml:"rate_limit"`

	// RateBurst is the burst allowance when RateLimit is set.
	RateBurst int `yaml:"rate_burst"`

	// MaxRequestBytes caps the size of a single request line.
	MaxRequestBytes int `yaml:"max_request_bytes"`
}

// StoreConfig selects and configures the session store backend.
type StoreConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the SQLite database file, used when Backend is "sqlite".
	Path string `yaml:"path"`
}

// Default returns the stock configuration: in-memory sessions, info logging,
// a generous rate limit, 1MB request lines.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			LogLevel:        "info",
			RateLimit:       50,
			RateBurst:       100,
			MaxRequestBytes: 1 << 20,
		},
		Store: StoreConfig{
			Backend: StoreMemory,
			Path:    ".deepthink/sessions.db",
		},
		Thinking: thinking.DefaultConfig(),
	}
}

// Load reads the config file at path. A missing file is not an error: the
// defaults are returned. Settings present in the file override defaults
// field by field; omitted fields keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	file.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields that cannot be silently repaired.
func (c *Config) Validate() error {
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.Server.LogLevel)
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("sqlite backend requires store.path")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate_limit cannot be negative")
	}
	return nil
}

// fileConfig mirrors Config with pointer/optional semantics so "set to zero"
// and "omitted" can be told apart where it matters.
type fileConfig struct {
	Server struct {
		LogLevel        string   `yaml:"log_level"`
		RateLimit       *float64 `yaml:"rate_limit"`
		RateBurst       *int     `yaml:"rate_burst"`
		MaxRequestBytes *int     `yaml:"max_request_bytes"`
	} `yaml:"server"`
	Store struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
	} `yaml:"store"`
	Thinking struct {
		MaxDepth      *int     `yaml:"max_depth"`
		MinConfidence *float64 `yaml:"min_confidence"`
		MaxIterations *int     `yaml:"max_iterations"`
		Temperature   *float64 `yaml:"temperature"`
	} `yaml:"thinking"`
}

func (f *fileConfig) apply(cfg *Config) {
	if f.Server.LogLevel != "" {
		cfg.Server.LogLevel = f.Server.LogLevel
	}
	if f.Server.RateLimit != nil {
		cfg.Server.RateLimit = *f.Server.RateLimit
	}
	if f.Server.RateBurst != nil {
		cfg.Server.RateBurst = *f.Server.RateBurst
	}
	if f.Server.MaxRequestBytes != nil {
		cfg.Server.MaxRequestBytes = *f.Server.MaxRequestBytes
	}

	if f.Store.Backend != "" {
		cfg.Store.Backend = f.Store.Backend
	}
	if f.Store.Path != "" {
		cfg.Store.Path = f.Store.Path
	}

	if f.Thinking.MaxDepth != nil {
		cfg.Thinking.MaxDepth = *f.Thinking.MaxDepth
	}
	if f.Thinking.MinConfidence != nil {
		cfg.Thinking.MinConfidence = *f.Thinking.MinConfidence
	}
	if f.Thinking.MaxIterations != nil {
		cfg.Thinking.MaxIterations = *f.Thinking.MaxIterations
	}
	if f.Thinking.Temperature != nil {
		cfg.Thinking.Temperature = *f.Thinking.Temperature
	}
	cfg.Thinking = cfg.Thinking.Normalize()
}
