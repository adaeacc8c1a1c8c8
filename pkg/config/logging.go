package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log output formats.
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// Validate checks the level and format.
func (c LogConfig) Validate() error {
	if c.Level != "" {
		if _, err := zapcore.ParseLevel(c.Level); err != nil {
			return fmt.Errorf("logging.level: %w", err)
		}
	}
	switch c.Format {
	case "", LogFormatJSON, LogFormatConsole:
		return nil
	default:
		return fmt.Errorf("logging.format must be %q or %q", LogFormatJSON, LogFormatConsole)
	}
}

// NewLogger builds a zap logger: production JSON by default, development
// console output for the console format. verbose forces debug level.
func NewLogger(c LogConfig, verbose bool) (*zap.Logger, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Format == LogFormatConsole {
		zc = zap.NewDevelopmentConfig()
	}
	if c.Level != "" {
		level, _ := zapcore.ParseLevel(c.Level)
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
