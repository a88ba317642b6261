// Package logger provides the process logger built on log/slog.
//
// WithCtx returns the per-request logger installed by the Logger middleware,
// so every line written while serving a request carries its request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("supply recorded", "item", itemSlug, "qty", qty)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/stockpile/config"
)

var L *slog.Logger

// mongoSink is non-nil while logs are mirrored to MongoDB.
var mongoSink *MongoHandler

func init() {
	L = slog.New(consoleHandler(os.Stdout))
	slog.SetDefault(L)
}

func consoleHandler(w io.Writer) slog.Handler {
	switch config.AppEnv() {
	case "production", "prod":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "testing", "test":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// Setup mirrors logs to MongoDB when LOG_MONGO_URI is configured. A sink that
// cannot connect is reported and skipped; console logging always stays on.
func Setup() {
	uri := config.LogMongoURI()
	if uri == "" || mongoSink != nil {
		return
	}

	h, err := NewMongoHandler(uri, config.LogMongoDatabase(), config.LogMongoCollection())
	if err != nil {
		L.Warn("logger: mongo sink disabled", "error", err)
		return
	}

	mongoSink = h
	L = slog.New(NewMultiHandler(consoleHandler(os.Stdout), h))
	slog.SetDefault(L)
	L.Info("logger: mirroring to mongo", "db", config.LogMongoDatabase(), "collection", config.LogMongoCollection())
}

// Close flushes and disconnects the MongoDB sink, if any.
func Close() {
	if mongoSink != nil {
		mongoSink.Close()
		mongoSink = nil
	}
}

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
