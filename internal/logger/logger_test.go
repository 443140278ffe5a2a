package logger_test

import (
	"testing"

	"github.com/krasavchik01/rbbb-sub002/internal/config"
	"github.com/krasavchik01/rbbb-sub002/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	app := &config.AppConfig{Name: "rbbb-api", Environment: "development"}

	t.Run("configured level", func(t *testing.T) {
		l, err := logger.NewLogger(&config.LoggingConfig{Level: "warn", Format: "json"}, app)
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		l, err := logger.NewLogger(&config.LoggingConfig{Level: "chatty"}, app)
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})
}
