// Package api provides the HTTP server: the JSON API plus the web UI.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/good-yellow-bee/modites/internal/api/health"
	"github.com/good-yellow-bee/modites/internal/data"
	"github.com/good-yellow-bee/modites/internal/storage"
	"github.com/good-yellow-bee/modites/internal/web/session"
)

// Config contains HTTP server configuration.
type Config struct {
	Address            string
	WebUIEnabled       bool // Serve the HTML UI next to the API
	UseSecureCookies   bool // Use Secure flag for cookies (true in production with HTTPS)
	HTTPTLSEnabled     bool
	HTTPTLSCertFile    string
	HTTPTLSKeyFile     string
	SessionTTL         time.Duration
	RateLimitPerMinute int // Per client IP, API routes only
	RateLimitBurst     int
	DefaultMapHeight   int // Window height assumed when a request omits h
	ShutdownTimeout    time.Duration
	Verbose            bool
}

// SetDefaults applies default values for missing configuration.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 120
	}
	if c.RateLimitBurst == 0 {
		c.RateLimitBurst = 30
	}
	if c.DefaultMapHeight == 0 {
		c.DefaultMapHeight = 800
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// Server is the HTTP server.
type Server struct {
	config        *Config
	data          *data.Store
	storage       storage.Storage
	sessions      *session.Store
	server        *http.Server
	healthHandler *health.Handler
	logger        *zap.Logger
	closers       []func()
}

// New creates a new server. db may be nil when the project store is
// disabled.
func New(cfg *Config, store *data.Store, db storage.Storage, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if store == nil {
		return nil, errors.New("data store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg.SetDefaults()

	s := &Server{
		config:        cfg,
		data:          store,
		storage:       db,
		sessions:      session.NewStore(cfg.SessionTTL),
		healthHandler: health.NewHandler(),
		logger:        logger,
	}
	s.healthHandler.RegisterChecker(health.NewRosterChecker(store.Loaded))
	if db != nil {
		s.healthHandler.RegisterChecker(health.NewSQLiteChecker(db))
	}

	s.server = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.setupRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     zap.NewStdLog(logger.Named("http")),
	}
	if cfg.HTTPTLSEnabled {
		s.server.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS13,
		}
	}

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run starts the HTTP server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening",
			zap.String("address", ln.Addr().String()),
			zap.Bool("tls", s.config.HTTPTLSEnabled),
			zap.Bool("web_ui", s.config.WebUIEnabled),
		)
		var err error
		if s.config.HTTPTLSEnabled {
			err = s.server.ServeTLS(ln, s.config.HTTPTLSCertFile, s.config.HTTPTLSKeyFile)
		} else {
			err = s.server.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		s.close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errChan:
		s.close()
		return err
	}
}

func (s *Server) close() {
	s.sessions.Close()
	for _, fn := range s.closers {
		fn()
	}
}
