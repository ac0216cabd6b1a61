package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/vocablearn/vocab-platform/internal/auth"
	"github.com/vocablearn/vocab-platform/internal/domain"
	"github.com/vocablearn/vocab-platform/internal/observability"
)

// Refresh exchanges a valid, active refresh token for a new token pair.
// Rotation is on-use: storing the new token's hash atomically replaces the
// old one, so the presented token cannot be replayed. Every failure mode
// collapses to domain.ErrInvalidRefresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ctx, span := tracer.Start(ctx, "auth.refresh")
	defer span.End()

	logger := observability.WithTraceID(ctx, s.logger)

	// 1. Cryptographic verification: signature, expiry, identity claims.
	claims, err := s.validator.ValidateRefreshToken(refreshToken)
	if err != nil {
		authFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "invalid_refresh_token")))
		span.SetStatus(codes.Error, "invalid refresh token")
		return nil, err
	}

	// 2. Ledger check: a well-signed token that is no longer the user's
	// active one (rotated away or revoked) is dead.
	active, err := s.ledger.IsActive(ctx, claims.UserID, auth.HashRefreshToken(refreshToken))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("check ledger: %w", err)
	}
	if !active {
		authFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "inactive_refresh_token")))
		span.SetStatus(codes.Error, "refresh token not active")
		return nil, fmt.Errorf("%w: token is no longer active", domain.ErrInvalidRefresh)
	}

	// 3. Rotate: minting the pair overwrites the ledger slot.
	identity := domain.Identity{UserID: claims.UserID, Username: claims.Username}
	tokens, err := s.mintPair(ctx, identity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	logger.InfoContext(ctx, "auth.token_refreshed", "user_id", claims.UserID)

	return &tokens, nil
}
