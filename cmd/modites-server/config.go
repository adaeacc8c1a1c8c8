// Package main provides the Modites server CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/good-yellow-bee/modites/internal/upstream"
	"github.com/good-yellow-bee/modites/pkg/config"
)

// Environment variables that override the config file.
const (
	EnvRosterURL = "MODITES_ROSTER_URL"
	EnvDBPath    = "MODITES_DB_PATH"
)

// Config represents the server configuration.
type Config struct {
	Server   ServerConfig     `yaml:"server"`
	Roster   RosterConfig     `yaml:"roster"`
	Database DatabaseConfig   `yaml:"database"`
	Projects ProjectsConfig   `yaml:"projects"`
	Map      MapConfig        `yaml:"map"`
	Metrics  MetricsConfig    `yaml:"metrics"`
	Logging  config.LogConfig `yaml:"logging"`
	Verbose  bool             `yaml:"-"` // set via CLI flag
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	HTTPAddress   string          `yaml:"http_address"` // HTTP listen address (default: :8080)
	WebUI         *bool           `yaml:"web_ui"`       // Serve the HTML UI (default: true)
	SecureCookies bool            `yaml:"secure_cookies"`
	SessionTTL    string          `yaml:"session_ttl"` // e.g. "24h"
	TLS           TLSConfig       `yaml:"tls"`
	RateLimit     RateLimitConfig `yaml:"rate_limit"`
}

// TLSConfig contains HTTPS settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// RateLimitConfig bounds API requests per client IP.
type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

// RosterConfig points at the roster endpoint.
type RosterConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"` // empty or "0" disables the timeout
}

// DatabaseConfig locates the project database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ProjectsConfig controls the optional seed file.
type ProjectsConfig struct {
	SeedFile string `yaml:"seed_file"`
	Watch    bool   `yaml:"watch"`
	Debounce string `yaml:"debounce"`
}

// MapConfig contains map panel settings.
type MapConfig struct {
	DefaultHeight int `yaml:"default_height"` // window height used when a request omits h
}

// MetricsConfig contains Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadEnvFile loads variables from a .env file into the process
// environment. A missing file is not an error; variables already set win.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvRosterURL); v != "" {
		c.Roster.URL = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
}

// setDefaults sets default values for missing config fields.
func (c *Config) setDefaults() {
	if c.Server.HTTPAddress == "" {
		c.Server.HTTPAddress = ":8080"
	}
	if c.Server.WebUI == nil {
		enabled := true
		c.Server.WebUI = &enabled
	}
	if c.Server.SessionTTL == "" {
		c.Server.SessionTTL = "24h"
	}
	if c.Server.RateLimit.PerMinute == 0 {
		c.Server.RateLimit.PerMinute = 120
	}
	if c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = 30
	}
	if c.Roster.URL == "" {
		c.Roster.URL = upstream.DefaultRosterURL
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/modites.db"
	}
	if c.Projects.Debounce == "" {
		c.Projects.Debounce = "250ms"
	}
	if c.Map.DefaultHeight == 0 {
		c.Map.DefaultHeight = 800
	}
	if c.Metrics.Address == "" {
		c.Metrics.Address = ":9090"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = config.LogFormatJSON
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.HTTPAddress == "" {
		return fmt.Errorf("server.http_address is required")
	}
	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" {
			return fmt.Errorf("server.tls.cert_file is required when TLS is enabled")
		}
		if c.Server.TLS.KeyFile == "" {
			return fmt.Errorf("server.tls.key_file is required when TLS is enabled")
		}
	}
	if ttl, err := time.ParseDuration(c.Server.SessionTTL); err != nil || ttl <= 0 {
		return fmt.Errorf("server.session_ttl must be a positive duration")
	}
	if c.Server.RateLimit.PerMinute < 0 || c.Server.RateLimit.Burst < 0 {
		return fmt.Errorf("server.rate_limit values must not be negative")
	}
	rosterTimeout, err := c.RosterTimeout()
	if err != nil {
		return err
	}
	rc := upstream.Config{URL: c.Roster.URL, Timeout: rosterTimeout}
	if err := rc.Validate(); err != nil {
		return fmt.Errorf("roster: %w", err)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Projects.Watch && c.Projects.SeedFile == "" {
		return fmt.Errorf("projects.seed_file is required when projects.watch is enabled")
	}
	if d, err := time.ParseDuration(c.Projects.Debounce); err != nil || d <= 0 {
		return fmt.Errorf("projects.debounce must be a positive duration")
	}
	if c.Map.DefaultHeight <= 0 {
		return fmt.Errorf("map.default_height must be positive")
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return fmt.Errorf("metrics.address is required when metrics are enabled")
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}

// RosterTimeout returns the roster client timeout; zero means none.
func (c *Config) RosterTimeout() (time.Duration, error) {
	if c.Roster.Timeout == "" || c.Roster.Timeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Roster.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("roster.timeout must be a non-negative duration")
	}
	return d, nil
}

// SessionTTL returns the parsed session lifetime. Call after Validate.
func (c *Config) SessionTTL() time.Duration {
	d, _ := time.ParseDuration(c.Server.SessionTTL)
	return d
}

// ProjectsDebounce returns the parsed seed watcher debounce. Call after
// Validate.
func (c *Config) ProjectsDebounce() time.Duration {
	d, _ := time.ParseDuration(c.Projects.Debounce)
	return d
}
