package ctxlog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"model-mapper/internal/ctxlog"
)

func TestFromContext(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback := slog.New(slog.NewJSONHandler(io.Discard, nil))

	ctx := ctxlog.WithLogger(context.Background(), logger)

	assert.Same(t, logger, ctxlog.FromContext(ctx, fallback))
	assert.Same(t, fallback, ctxlog.FromContext(context.Background(), fallback))
	assert.Same(t, slog.Default(), ctxlog.FromContext(context.Background(), nil))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ctxlog.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ctxlog.ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ctxlog.ParseLevel("chatty"))
}
