package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLogConfig_Validate(t *testing.T) {
	assert.NoError(t, LogConfig{}.Validate())
	assert.NoError(t, LogConfig{Level: "warn", Format: "console"}.Validate())
	assert.Error(t, LogConfig{Level: "loud"}.Validate())
	assert.Error(t, LogConfig{Format: "xml"}.Validate())
}

func TestNewLogger_Levels(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "warn"}, false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewLogger(LogConfig{Level: "warn"}, true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_DefaultsToInfo(t *testing.T) {
	logger, err := NewLogger(LogConfig{}, false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestVersionString(t *testing.T) {
	s := VersionString("modctl")
	assert.True(t, strings.HasPrefix(s, "modctl "+Version), s)
	assert.Contains(t, s, Commit)
}
