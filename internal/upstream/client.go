// Package upstream fetches the roster from the external roster endpoint.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/good-yellow-bee/modites/internal/models"
	"github.com/good-yellow-bee/modites/internal/roster"
)

// DefaultRosterURL is the public roster endpoint.
const DefaultRosterURL = "https://mosquito-slack-bot.herokuapp.com/modites"

// Config holds roster endpoint configuration.
type Config struct {
	URL     string        // Roster endpoint URL
	Timeout time.Duration // Request timeout; zero disables it
}

// Validate validates the roster endpoint configuration.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("roster URL is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("parse roster URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("roster URL must use http or https")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("roster timeout must not be negative")
	}
	return nil
}

// Client reads the roster with a single unauthenticated GET.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new roster client.
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid roster config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: config,
		logger: logger,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// URL returns the configured endpoint.
func (c *Client) URL() string {
	return c.config.URL
}

// FetchRoster downloads the roster and returns it sorted by last name.
func (c *Client) FetchRoster(ctx context.Context) ([]models.Modite, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("roster endpoint error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}

	return roster.SortByLastName(c.decodeMembers(records)), nil
}

// decodeMembers decodes each record on its own. Records that are not
// objects or carry no id are skipped; malformed fields are zeroed.
func (c *Client) decodeMembers(records []json.RawMessage) []models.Modite {
	modites := make([]models.Modite, 0, len(records))
	for i, raw := range records {
		m, malformed, err := models.DecodeModite(raw)
		if err != nil {
			c.logger.Warn("skipping roster record", zap.Int("index", i), zap.Error(err))
			continue
		}
		if m.ID == "" {
			c.logger.Warn("skipping roster record without id", zap.Int("index", i), zap.Strings("malformed", malformed))
			continue
		}
		if len(malformed) > 0 {
			c.logger.Warn("roster member has malformed fields",
				zap.String("id", m.ID), zap.Strings("fields", malformed))
		}
		modites = append(modites, m)
	}
	return modites
}
