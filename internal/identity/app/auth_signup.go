package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/vocablearn/vocab-platform/internal/domain"
	"github.com/vocablearn/vocab-platform/internal/observability"
)

// SignupParams holds the inputs for account registration.
type SignupParams struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

// Signup registers a new account and establishes its first session.
func (s *AuthService) Signup(ctx context.Context, params SignupParams) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "auth.signup")
	defer span.End()

	logger := observability.WithTraceID(ctx, s.logger)

	// Normalize once so validation, persistence, and the token identity all
	// see the same username.
	params.Username = strings.TrimSpace(params.Username)

	if err := validateSignup(params); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// No existence pre-check: the store's unique constraint decides the
	// duplicate race, so concurrent signups yield exactly one winner.
	userID, err := s.userStore.Create(ctx, NewUser{
		Username:     params.Username,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        params.Email,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			authFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "duplicate_username")))
		}
		span.SetStatus(codes.Error, "create account failed")
		return nil, fmt.Errorf("create account: %w", err)
	}

	identity := domain.Identity{UserID: userID, Username: params.Username}
	tokens, err := s.mintPair(ctx, identity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("establish session: %w", err)
	}

	signupsTotal.Add(ctx, 1)
	logger.InfoContext(ctx, "auth.signup", "user_id", userID, "username", params.Username)

	return &AuthResult{
		User: UserRecord{
			ID:        userID,
			Username:  params.Username,
			FirstName: params.FirstName,
			LastName:  params.LastName,
			Email:     params.Email,
		},
		Tokens: tokens,
	}, nil
}

// validateSignup expects params.Username to already be trimmed.
func validateSignup(params SignupParams) error {
	switch {
	case len(params.Username) < domain.MinUsernameLength:
		return fmt.Errorf("%w: username must be at least %d characters",
			domain.ErrInvalidInput, domain.MinUsernameLength)
	case len(params.Username) > domain.MaxUsernameLength:
		return fmt.Errorf("%w: username must be at most %d characters",
			domain.ErrInvalidInput, domain.MaxUsernameLength)
	case len(params.Password) < domain.MinPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters",
			domain.ErrInvalidInput, domain.MinPasswordLength)
	case strings.TrimSpace(params.FirstName) == "":
		return fmt.Errorf("%w: first name is required", domain.ErrInvalidInput)
	case strings.TrimSpace(params.LastName) == "":
		return fmt.Errorf("%w: last name is required", domain.ErrInvalidInput)
	}
	return nil
}
