package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/postcodes/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("local logs debug as text", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.Setup(logger.EnvLocal, &buf)

		log.Debug("lookup", "postcode", "SW1W 0NY")

		assert.True(t, log.Enabled(ctx, slog.LevelDebug))
		assert.Contains(t, buf.String(), "postcode=\"SW1W 0NY\"")
	})

	t.Run("development logs info as json", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.Setup(logger.EnvDev, &buf)

		log.Info("lookup")

		assert.False(t, log.Enabled(ctx, slog.LevelDebug))
		assert.Contains(t, buf.String(), `"msg":"lookup"`)
	})

	t.Run("production drops time and info", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.Setup(logger.EnvProd, &buf)

		log.Info("hidden")
		log.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
		assert.NotContains(t, buf.String(), `"time"`)
	})

	t.Run("unknown env warns and logs errors only", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.Setup("staging", &buf)

		assert.False(t, log.Enabled(ctx, slog.LevelWarn))
		assert.Contains(t, buf.String(), "available_envs")
	})
}
