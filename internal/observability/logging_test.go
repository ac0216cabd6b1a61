package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vocablearn/vocab-platform/internal/observability"
)

func TestRedactingHandler(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		value        string
		shouldRedact bool
	}{
		{"password is redacted", "password", "secret123", true},
		{"password_hash is redacted", "password_hash", "$2a$10$abcdef", true},
		{"access_token is redacted", "access_token", "eyJhbGciOi", true},
		{"refresh_token is redacted", "refresh_token", "eyJhbGciOi", true},
		{"bare token key is redacted", "token", "eyJhbGciOi", true},
		{"token_hash is redacted", "token_hash", "9f86d08188", true},
		{"signing secret is redacted", "auth.access_secret", "hunter2hunter2", true},
		{"authorization header is redacted", "authorization", "Bearer eyJhbGciOi", true},
		{"cookie header is redacted", "cookie", "accessToken=eyJhbGciOi", true},
		{"token_transport stays loggable", "token_transport", "header", false},
		{"user_id not redacted", "user_id", "42", false},
		{"username not redacted", "username", "alice", false},
		{"word not redacted", "word", "ephemeral", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(observability.NewRedactingHandler(&buf, "json", slog.LevelInfo))

			logger.Info("test", tt.key, tt.value)
			output := buf.String()

			if tt.shouldRedact {
				assert.Contains(t, output, "[REDACTED]", "expected %s to be redacted", tt.key)
				assert.NotContains(t, output, tt.value, "expected actual value to not appear for %s", tt.key)
			} else {
				assert.Contains(t, output, tt.value, "expected %s value to appear", tt.key)
				assert.NotContains(t, output, "[REDACTED]", "expected %s to not be redacted", tt.key)
			}
		})
	}
}

func TestRedactingHandler_FormatAndLevel(t *testing.T) {
	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(observability.NewRedactingHandler(&buf, "text", slog.LevelInfo))

		logger.Info("auth.signup", "username", "alice")

		assert.Contains(t, buf.String(), "username=alice")
		assert.NotContains(t, buf.String(), `"username"`)
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(observability.NewRedactingHandler(&buf, "json", slog.LevelWarn))

		logger.Info("auth.signup", "user_id", int64(42))
		assert.Empty(t, buf.String())

		logger.Warn("auth.signin_failed", "user_id", int64(42))
		assert.Contains(t, buf.String(), "auth.signin_failed")
	})
}

func TestInitLogger(t *testing.T) {
	t.Run("carries service context", func(t *testing.T) {
		logger := observability.InitLogger(observability.LogConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "vocabsvc",
			Environment: "test",
		})
		assert.NotNil(t, logger)
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		logger := observability.InitLogger(observability.LogConfig{
			Level:       "loud",
			Format:      "json",
			ServiceName: "vocabsvc",
			Environment: "test",
		})
		require.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})
}

func TestWithTraceID(t *testing.T) {
	t.Run("no active span leaves logger unchanged", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		assert.Same(t, logger, observability.WithTraceID(context.Background(), logger))
	})

	t.Run("active span attaches trace_id", func(t *testing.T) {
		tp := sdktrace.NewTracerProvider()
		defer func() { _ = tp.Shutdown(context.Background()) }()

		ctx, span := tp.Tracer("test").Start(context.Background(), "auth.signin")
		defer span.End()

		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		observability.WithTraceID(ctx, logger).InfoContext(ctx, "auth.signin", "user_id", int64(42))

		assert.Contains(t, buf.String(), "trace_id")
		assert.Contains(t, buf.String(), span.SpanContext().TraceID().String())
	})
}
