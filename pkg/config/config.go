// Package config holds the daemon configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for idlewatcher.
type Config struct {
	// IdleTimeout is how long both idle signals must agree before the
	// action fires.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// Command and Args form the action spawned on an idle decision.
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`

	// PollInterval is the fixed period of the decision loop.
	PollInterval time.Duration `yaml:"poll_interval"`

	// Display names a Wayland display explicitly, bypassing probing.
	Display string `yaml:"display"`

	// Seat restricts idle notifications to a named seat. Empty
	// subscribes on every advertised seat.
	Seat string `yaml:"seat"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		IdleTimeout:  3600 * time.Second,
		Command:      "/usr/bin/systemctl",
		Args:         []string{"suspend"},
		PollInterval: 5 * time.Second,
	}
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getConfigPath returns the config file path.
func getConfigPath() string {
	if path := os.Getenv("IDLEWATCHER_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "idlewatcher", "config.yaml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "idlewatcher", "config.yaml")
	}

	return ""
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) error {
	if timeout := os.Getenv("IDLEWATCHER_TIMEOUT"); timeout != "" {
		secs, err := strconv.Atoi(timeout)
		if err != nil {
			return fmt.Errorf("invalid IDLEWATCHER_TIMEOUT: %w", err)
		}
		cfg.IdleTimeout = time.Duration(secs) * time.Second
	}

	if command := os.Getenv("IDLEWATCHER_COMMAND"); command != "" {
		cfg.SetCommandLine(command)
	}

	if interval := os.Getenv("IDLEWATCHER_POLL_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid IDLEWATCHER_POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}

	if display := os.Getenv("IDLEWATCHER_DISPLAY"); display != "" {
		cfg.Display = display
	}

	if seat := os.Getenv("IDLEWATCHER_SEAT"); seat != "" {
		cfg.Seat = seat
	}

	return nil
}

// SetCommandLine splits a full command string on spaces and installs it
// as Command plus Args.
func (c *Config) SetCommandLine(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		c.Command = ""
		c.Args = nil
		return
	}
	c.Command = fields[0]
	c.Args = fields[1:]
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle_timeout must be positive, got %v", c.IdleTimeout)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %v", c.PollInterval)
	}

	if c.Command == "" {
		return fmt.Errorf("command must not be empty")
	}

	return nil
}
