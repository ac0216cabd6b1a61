package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/vocablearn/vocab-platform/internal/observability"
)

// Logout revokes the caller's active refresh token. The caller's identity
// comes from the already-verified access token; logging out twice is a
// no-op, not an error.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	ctx, span := tracer.Start(ctx, "auth.logout")
	defer span.End()

	logger := observability.WithTraceID(ctx, s.logger)

	if err := s.ledger.Revoke(ctx, userID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	revocationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "logout")))
	logger.InfoContext(ctx, "auth.logout", "user_id", userID)

	return nil
}
