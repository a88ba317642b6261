package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/stockpile/pkg/logger"
)

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, logger.L, logger.WithCtx(context.Background()))
}

func TestWithCtxReturnsInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	reqLog := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc123")

	ctx := logger.InjectLogger(context.Background(), reqLog)
	logger.WithCtx(ctx).Info("stock updated", "item", "hm-100")

	assert.Contains(t, buf.String(), "request_id=abc123")
	assert.Contains(t, buf.String(), "item=hm-100")
}

func TestMultiHandlerFansOut(t *testing.T) {
	var info, warn bytes.Buffer
	h := logger.NewMultiHandler(
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	log := slog.New(h).With("request_id", "r1")

	log.Info("listed items")
	log.Warn("import row skipped")

	assert.Contains(t, info.String(), "listed items")
	assert.Contains(t, info.String(), "import row skipped")
	assert.NotContains(t, warn.String(), "listed items")
	assert.Contains(t, warn.String(), "request_id=r1")
}
