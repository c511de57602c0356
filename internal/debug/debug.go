// Package debug provides context-based debug mode with structured logging.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const debugKey contextKey = "debug_enabled"

// redacted replaces secret attribute values in log output.
const redacted = "[redacted]"

var secretKeys = map[string]struct{}{
	"api_key":    {},
	"app_secret": {},
	"password":   {},
}

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}

// NewLogger returns a text logger writing to w. Debug records are dropped
// unless debugEnabled is set. Secret attributes are never printed.
func NewLogger(w io.Writer, debugEnabled bool) *slog.Logger {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redact,
	}))
}

// SetupLogger installs NewLogger(os.Stderr, debugEnabled) as the default.
func SetupLogger(debugEnabled bool) {
	slog.SetDefault(NewLogger(os.Stderr, debugEnabled))
}

// ClientLogger returns the logger the API client should use for ctx, or nil
// when debug mode is off so the client stays silent.
func ClientLogger(ctx context.Context) *slog.Logger {
	if !IsEnabled(ctx) {
		return nil
	}
	return slog.Default().With("component", "billomat")
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if _, ok := secretKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	return a
}
