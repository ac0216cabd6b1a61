package app

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/vocablearn/vocab-platform/internal/domain"
	"github.com/vocablearn/vocab-platform/internal/observability"
)

// Signin verifies credentials and establishes a new session. Unknown
// usernames and wrong passwords return the same error; a dummy hash
// comparison keeps the two paths at comparable latency.
func (s *AuthService) Signin(ctx context.Context, username, password string) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "auth.signin")
	defer span.End()

	logger := observability.WithTraceID(ctx, s.logger)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	user, err := s.userStore.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if dc, ok := s.hasher.(dummyComparer); ok {
				dc.VerifyDummy(password)
			}
			authFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "unknown_user")))
			span.SetStatus(codes.Error, "invalid credentials")
			return nil, domain.ErrInvalidCredentials
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("find account: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		authFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "wrong_password")))
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, domain.ErrInvalidCredentials
	}

	identity := domain.Identity{UserID: user.ID, Username: user.Username}
	tokens, err := s.mintPair(ctx, identity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("establish session: %w", err)
	}

	signinsTotal.Add(ctx, 1)
	logger.InfoContext(ctx, "auth.signin", "user_id", user.ID, "username", user.Username)

	return &AuthResult{User: *user, Tokens: tokens}, nil
}

// dummyComparer is implemented by hashers that can burn a comparison for
// timing equalization when the account does not exist.
type dummyComparer interface {
	VerifyDummy(password string)
}
