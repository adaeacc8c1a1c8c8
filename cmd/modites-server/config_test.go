package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/good-yellow-bee/modites/internal/upstream"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Server.HTTPAddress)
	assert.True(t, *cfg.Server.WebUI)
	assert.Equal(t, upstream.DefaultRosterURL, cfg.Roster.URL)
	assert.Equal(t, 800, cfg.Map.DefaultHeight)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL())

	timeout, err := cfg.RosterTimeout()
	require.NoError(t, err)
	assert.Zero(t, timeout, "no roster timeout unless configured")
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "modites.yaml", `
server:
  http_address: ":9000"
  web_ui: false
roster:
  url: "http://roster.internal/modites"
  timeout: "5s"
projects:
  seed_file: "projects.yaml"
  watch: true
map:
  default_height: 1024
logging:
  format: console
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9000", cfg.Server.HTTPAddress)
	assert.False(t, *cfg.Server.WebUI)
	assert.Equal(t, 1024, cfg.Map.DefaultHeight)
	assert.Equal(t, 250*time.Millisecond, cfg.ProjectsDebounce())
	timeout, err := cfg.RosterTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeFile(t, "bad.yaml", "server: [unclosed"))
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tls without cert", func(c *Config) { c.Server.TLS.Enabled = true }},
		{"bad session ttl", func(c *Config) { c.Server.SessionTTL = "forever" }},
		{"roster scheme", func(c *Config) { c.Roster.URL = "ftp://example.com/modites" }},
		{"roster timeout", func(c *Config) { c.Roster.Timeout = "soon" }},
		{"watch without seed", func(c *Config) { c.Projects.Watch = true }},
		{"zero height", func(c *Config) { c.Map.DefaultHeight = -1 }},
		{"log level", func(c *Config) { c.Logging.Level = "chatty" }},
		{"negative rate", func(c *Config) { c.Server.RateLimit.PerMinute = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvRosterURL, "https://staging.example.com/modites")
	t.Setenv(EnvDBPath, "/tmp/staging.db")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "https://staging.example.com/modites", cfg.Roster.URL)
	assert.Equal(t, "/tmp/staging.db", cfg.Database.Path)
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	os.Unsetenv(EnvDBPath)
	path := writeFile(t, ".env", EnvDBPath+"=/var/lib/modites/projects.db\n")

	require.NoError(t, LoadEnvFile(path))
	t.Cleanup(func() { os.Unsetenv(EnvDBPath) })
	assert.Equal(t, "/var/lib/modites/projects.db", os.Getenv(EnvDBPath))

	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	assert.NoError(t, LoadEnvFile(""))
}
