package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hookgate-io/hookgate/internal/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level_"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	logger := New(slog.LevelInfo, "json")
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)

	textLogger := New(slog.LevelDebug, "text")
	assert.NotNil(t, textLogger)
}

func TestWithContext_NoRequestID(t *testing.T) {
	logger := New(slog.LevelInfo, "json")
	assert.Same(t, logger.Logger, logger.WithContext(context.Background()))
}

func TestWithContext_RequestID(t *testing.T) {
	logger := New(slog.LevelInfo, "json")
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")

	// A request-scoped logger is derived when the context carries an ID.
	assert.NotSame(t, logger.Logger, logger.WithContext(ctx))
}

func TestWith(t *testing.T) {
	logger := New(slog.LevelInfo, "json").With(Service("gateway"))
	assert.NotNil(t, logger)
}
