// Package config provides unified configuration loading for vecsim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nvandessel/vecsim/internal/elemtype"
	"gopkg.in/yaml.v3"
)

// VecsimConfig contains all vecsim configuration settings.
type VecsimConfig struct {
	// Vector contains settings for the growth simulator.
	Vector VectorConfig `json:"vector" yaml:"vector"`

	// String contains settings for the string buffer simulator.
	String StringConfig `json:"string" yaml:"string"`

	// Log configures the on-screen operation log.
	Log LogConfig `json:"log" yaml:"log"`

	// Server configures the HTTP visualization server.
	Server ServerConfig `json:"server" yaml:"server"`

	// Audit configures the SQLite audit trail of served actions.
	Audit AuditConfig `json:"audit" yaml:"audit"`

	// Logging contains settings for operational and event logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// VectorConfig configures the growth simulator.
type VectorConfig struct {
	// InitialCapacity is restored on reset and type change.
	InitialCapacity int `json:"initial_capacity" yaml:"initial_capacity"`

	// DefaultType is the declared element type at startup: int, double, char or string.
	DefaultType string `json:"default_type" yaml:"default_type"`

	// BaseAddress is the simulated address of slot 0.
	BaseAddress int `json:"base_address" yaml:"base_address"`

	// FreshDelay is how long a pushed element stays highlighted.
	FreshDelay time.Duration `json:"fresh_delay" yaml:"fresh_delay"`
}

// StringConfig configures the string buffer simulator.
type StringConfig struct {
	InitialText string `json:"initial_text" yaml:"initial_text"`
	MinCapacity int    `json:"min_capacity" yaml:"min_capacity"`
}

// LogConfig configures the operation log.
type LogConfig struct {
	// MaxEntries is the number of messages kept, newest first.
	MaxEntries int `json:"max_entries" yaml:"max_entries"`
}

// ServerConfig configures `vecsim serve`.
type ServerConfig struct {
	// OpenBrowser opens the page in the default browser on start.
	OpenBrowser bool `json:"open_browser" yaml:"open_browser"`
}

// AuditConfig configures the audit trail.
type AuditConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file. Empty means ~/.vecsim/audit.db.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LoggingConfig configures vecsim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables event logging to ~/.vecsim/events.jsonl.
	// "trace" additionally logs full snapshots after each action.
	Level string `json:"level" yaml:"level"`
}

// Default returns a VecsimConfig with the playground's defaults.
func Default() *VecsimConfig {
	return &VecsimConfig{
		Vector: VectorConfig{
			InitialCapacity: 4,
			DefaultType:     string(elemtype.Int),
			BaseAddress:     7000,
			FreshDelay:      500 * time.Millisecond,
		},
		String: StringConfig{
			InitialText: "Hello",
			MinCapacity: 15,
		},
		Log: LogConfig{
			MaxEntries: 5,
		},
		Server: ServerConfig{
			OpenBrowser: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns the vecsim home directory (~/.vecsim).
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(homeDir, ".vecsim"), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.vecsim/config.yaml -> environment variables
func Load() (*VecsimConfig, error) {
	config := Default()

	if configPath, err := Path(); err == nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*VecsimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Audit.Path = os.ExpandEnv(config.Audit.Path)

	return config, nil
}

// Save writes the configuration to path, creating parent directories.
func Save(cfg *VecsimConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *VecsimConfig) Validate() error {
	if c.Vector.InitialCapacity < 0 {
		return fmt.Errorf("vector.initial_capacity must be non-negative, got %d", c.Vector.InitialCapacity)
	}

	if _, err := elemtype.Parse(c.Vector.DefaultType); err != nil {
		return fmt.Errorf("vector.default_type: %w", err)
	}

	if c.Vector.BaseAddress <= 0 {
		return fmt.Errorf("vector.base_address must be positive, got %d", c.Vector.BaseAddress)
	}

	if c.Vector.FreshDelay < 0 {
		return fmt.Errorf("vector.fresh_delay must be non-negative, got %v", c.Vector.FreshDelay)
	}

	if c.String.MinCapacity < 0 {
		return fmt.Errorf("string.min_capacity must be non-negative, got %d", c.String.MinCapacity)
	}

	if c.Log.MaxEntries < 1 {
		return fmt.Errorf("log.max_entries must be at least 1, got %d", c.Log.MaxEntries)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *VecsimConfig) {
	if v := os.Getenv("VECSIM_INITIAL_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Vector.InitialCapacity = n
		}
	}

	if v := os.Getenv("VECSIM_DEFAULT_TYPE"); v != "" {
		config.Vector.DefaultType = v
	}

	if v := os.Getenv("VECSIM_FRESH_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Vector.FreshDelay = d
		}
	}

	if v := os.Getenv("VECSIM_LOG_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Log.MaxEntries = n
		}
	}

	if v := os.Getenv("VECSIM_AUDIT"); v != "" {
		config.Audit.Enabled = v == "true" || v == "1"
	}

	if v := os.Getenv("VECSIM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
