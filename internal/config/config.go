// Package config loads and persists the granola-sync YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotFound indicates that no configuration file exists yet.
var ErrNotFound = errors.New("configuration file not found")

// WebhookConfig configures the delivery endpoint.
type WebhookConfig struct {
	URL    string `yaml:"url"`
	Secret string `yaml:"secret"`
}

// GranolaConfig configures the source side.
type GranolaConfig struct {
	Folders           []string `yaml:"folders"`
	IncludeTranscript bool     `yaml:"include_transcript"`
}

// SyncConfig holds the sync loop settings. Interval and RetryDelay are in
// seconds.
type SyncConfig struct {
	Interval      int `yaml:"interval"`
	BatchSize     int `yaml:"batch_size"`
	RetryAttempts int `yaml:"retry_attempts"`
	RetryDelay    int `yaml:"retry_delay"`
}

// IntervalDuration returns the poll interval as a duration.
func (c SyncConfig) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

// RetryDelayDuration returns the delay between webhook retries as a
// duration.
func (c SyncConfig) RetryDelayDuration() time.Duration {
	return time.Duration(c.RetryDelay) * time.Second
}

// LoggingConfig configures the root logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// StateConfig locates the ledger database.
type StateConfig struct {
	File string `yaml:"file"`
}

// Config is the full configuration model.
type Config struct {
	Webhook WebhookConfig `yaml:"webhook"`
	Granola GranolaConfig `yaml:"granola"`
	Sync    SyncConfig    `yaml:"sync"`
	Logging LoggingConfig `yaml:"logging"`
	State   StateConfig   `yaml:"state"`
}

// Default returns a configuration with all defaults filled in. The webhook
// section has no sensible defaults and must be provided.
func Default() *Config {
	return &Config{
		Granola: GranolaConfig{
			IncludeTranscript: true,
		},
		Sync: SyncConfig{
			Interval:      300,
			BatchSize:     10,
			RetryAttempts: 3,
			RetryDelay:    30,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
		State: StateConfig{
			File: "~/.granola-sync/state.db",
		},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	return "~/.granola-sync/config.yaml"
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path with restrictive permissions, the
// file contains the webhook secret.
func Save(cfg *Config, path string) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks that required fields are present and numeric settings
// are sane.
func (c *Config) Validate() error {
	if c.Webhook.URL == "" {
		return errors.New("webhook.url is required")
	}
	if c.Webhook.Secret == "" {
		return errors.New("webhook.secret is required")
	}
	if c.Sync.Interval <= 0 {
		return errors.New("sync.interval must be positive")
	}
	if c.Sync.BatchSize <= 0 {
		return errors.New("sync.batch_size must be positive")
	}
	if c.Sync.RetryAttempts < 1 {
		return errors.New("sync.retry_attempts must be at least 1")
	}
	if c.Sync.RetryDelay < 0 {
		return errors.New("sync.retry_delay must not be negative")
	}
	return nil
}

// ExpandPath resolves a leading "~/" to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}
