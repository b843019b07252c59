// Package logger wraps log/slog with a JSON handler and request-scoped
// attributes.
package logger

import (
    "context"
    "io"
    "log/slog"
    "os"
    "strings"
)

type contextKey string

const (
    RequestIDKey contextKey = "request_id"
    UserIDKey    contextKey = "user_id"
)

var defaultLogger = New(os.Stdout, os.Getenv("LOG_LEVEL"))

// New builds a JSON logger writing to w.  level is one of debug, info,
// warn or error; anything else means info.
func New(w io.Writer, level string) *slog.Logger {
    opts := &slog.HandlerOptions{Level: parseLevel(level)}
    return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "debug":
        return slog.LevelDebug
    case "warn", "warning":
        return slog.LevelWarn
    case "error":
        return slog.LevelError
    }
    return slog.LevelInfo
}

// SetDefault replaces the package logger and slog's default.
func SetDefault(l *slog.Logger) {
    defaultLogger = l
    slog.SetDefault(l)
}

func Default() *slog.Logger { return defaultLogger }

// WithContext returns the default logger enriched with the request id and
// user id stored in ctx, if any.
func WithContext(ctx context.Context) *slog.Logger {
    l := defaultLogger
    if v := ctx.Value(RequestIDKey); v != nil {
        l = l.With("request_id", v)
    }
    if v := ctx.Value(UserIDKey); v != nil {
        l = l.With("user_id", v)
    }
    return l
}

func Info(msg string, args ...any)  { defaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }

func InfoContext(ctx context.Context, msg string, args ...any)  { WithContext(ctx).Info(msg, args...) }
func WarnContext(ctx context.Context, msg string, args ...any)  { WithContext(ctx).Warn(msg, args...) }
func ErrorContext(ctx context.Context, msg string, args ...any) { WithContext(ctx).Error(msg, args...) }
