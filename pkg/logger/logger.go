// Package logger provides the suite's structured, levelled logger built on
// log/slog.
//
// Production-like environments (ENV=prod) log JSON; everything else logs
// human-readable text. LOG_LEVEL (debug, info, warn, error) overrides the
// per-environment default.
//
// WithCtx returns a logger already tagged with the request ID, so every log
// line written while serving a mock-server request is correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("user created", "id", user.ID)
//	// → time=... level=INFO msg="user created" request_id=a1b2c3d4 id=4
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/e2esuite/config"
)

var L *slog.Logger

func init() {
	L = New(os.Stdout, config.Env(), config.LogLevel())
	slog.SetDefault(L)
}

// New builds a logger for the given environment name and level string.
func New(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(env, level)}

	switch env {
	case "production", "prod":
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}

func parseLevel(env, level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	if env == "production" || env == "prod" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or the base
// logger when there is none.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
