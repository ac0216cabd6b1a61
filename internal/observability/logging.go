package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogConfig holds configuration for the structured logger.
type LogConfig struct {
	Level       string // "debug", "info", "warn", "error"
	Format      string // "json" or "text"
	ServiceName string
	Environment string
}

// The credential service handles passwords, signing secrets, JWTs, and the
// cookies carrying them. Redaction is keyed to those fields.
//
// sensitivePatterns match anywhere in the attribute key: "password" also
// catches password_hash, "secret" catches auth.access_secret, "_token"
// catches access_token and refresh_token without swallowing the
// token_transport config key, which is safe to log.
var sensitivePatterns = []string{
	"password",
	"secret",
	"_token",
	"token_hash",
	"authorization",
	"bearer",
	"cookie",
	"credential",
}

// sensitiveKeys match the attribute key exactly.
var sensitiveKeys = []string{
	"token",
	"jwt",
}

// InitLogger creates the service logger with credential redaction and sets
// it as the slog default.
func InitLogger(cfg LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := NewRedactingHandler(os.Stdout, cfg.Format, level)

	logger := slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	slog.SetDefault(logger)
	return logger
}

// NewRedactingHandler builds a JSON or text slog handler whose attributes
// pass through credential redaction. Format values other than "text"
// produce JSON.
func NewRedactingHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactCredentials,
	}
	if strings.ToLower(format) == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// redactCredentials is a ReplaceAttr function that blanks credential fields.
func redactCredentials(_ []string, a slog.Attr) slog.Attr {
	keyLower := strings.ToLower(a.Key)
	for _, key := range sensitiveKeys {
		if keyLower == key {
			return slog.String(a.Key, "[REDACTED]")
		}
	}
	for _, pattern := range sensitivePatterns {
		if strings.Contains(keyLower, pattern) {
			return slog.String(a.Key, "[REDACTED]")
		}
	}
	return a
}

// WithTraceID returns a new logger with the trace ID from context.
func WithTraceID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if traceID := TraceIDFromContext(ctx); traceID != "" {
		return logger.With(slog.String("trace_id", traceID))
	}
	return logger
}
