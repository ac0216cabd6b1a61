// Package app contains the application services for accounts and sessions.
package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/vocablearn/vocab-platform/internal/auth"
	"github.com/vocablearn/vocab-platform/internal/domain"
)

var tracer = otel.Tracer("identity/app")

var (
	signupsTotal      metric.Int64Counter
	signinsTotal      metric.Int64Counter
	tokenMintedTotal  metric.Int64Counter
	authFailuresTotal metric.Int64Counter
	revocationsTotal  metric.Int64Counter
)

func init() {
	m := otel.Meter("identity/app")

	signupsTotal, _ = m.Int64Counter("auth_signups_total",
		metric.WithDescription("Total accounts created"))
	signinsTotal, _ = m.Int64Counter("auth_signins_total",
		metric.WithDescription("Total successful signins"))
	tokenMintedTotal, _ = m.Int64Counter("auth_token_minted_total",
		metric.WithDescription("Total token pairs minted"))
	authFailuresTotal, _ = m.Int64Counter("security_auth_failures_total",
		metric.WithDescription("Total authentication failures"))
	revocationsTotal, _ = m.Int64Counter("security_session_revocations_total",
		metric.WithDescription("Total refresh token revocations"))
}

// UserRecord represents an account stored in the users table.
type UserRecord struct {
	ID           int64
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	CreatedAt    time.Time
}

// NewUser holds the inputs for creating an account.
type NewUser struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
}

// UserStore persists and retrieves account records.
type UserStore interface {
	// Create inserts the account and returns its assigned id. Returns
	// domain.ErrDuplicateUsername when the username is already taken; the
	// store's uniqueness constraint is the authoritative duplicate signal.
	Create(ctx context.Context, user NewUser) (int64, error)

	// FindByUsername returns domain.ErrNotFound when no account exists.
	FindByUsername(ctx context.Context, username string) (*UserRecord, error)
}

// RefreshLedger tracks the single active refresh token per user. Values
// are stored hashed; a presented token matches only if its hash equals the
// stored hash exactly.
type RefreshLedger interface {
	// Store records tokenHash as the user's active refresh token,
	// atomically replacing any previous one.
	Store(ctx context.Context, userID int64, tokenHash string, issuedAt time.Time) error

	// IsActive reports whether tokenHash is the user's current active token.
	IsActive(ctx context.Context, userID int64, tokenHash string) (bool, error)

	// Revoke removes the user's active token. Revoking when none exists
	// is not an error.
	Revoke(ctx context.Context, userID int64) error
}

// TokenPair is an access/refresh token pair returned by the auth flows.
type TokenPair struct {
	AccessToken       string
	RefreshToken      string
	AccessTokenExpiry time.Time
}

// AuthResult is returned by Signup and Signin on success.
type AuthResult struct {
	User   UserRecord
	Tokens TokenPair
}

// AuthServiceConfig holds the dependencies for AuthService.
type AuthServiceConfig struct {
	UserStore UserStore
	Ledger    RefreshLedger
	Hasher    auth.PasswordHasher
	Minter    *auth.Minter
	Validator *auth.Validator
	Clock     domain.Clock
	Logger    *slog.Logger
}

// AuthService orchestrates the four auth flows: Signup, Signin, Refresh,
// and Logout.
type AuthService struct {
	userStore UserStore
	ledger    RefreshLedger
	hasher    auth.PasswordHasher
	minter    *auth.Minter
	validator *auth.Validator
	clock     domain.Clock
	logger    *slog.Logger
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		userStore: cfg.UserStore,
		ledger:    cfg.Ledger,
		hasher:    cfg.Hasher,
		minter:    cfg.Minter,
		validator: cfg.Validator,
		clock:     cfg.Clock,
		logger:    cfg.Logger,
	}
}

// mintPair mints an access/refresh pair and records the refresh token's
// hash as the user's single active session, replacing any previous one.
func (s *AuthService) mintPair(ctx context.Context, id domain.Identity) (TokenPair, error) {
	access, err := s.minter.MintAccessToken(id)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.minter.MintRefreshToken(id)
	if err != nil {
		return TokenPair{}, err
	}

	hash := auth.HashRefreshToken(refresh.Token)
	if err := s.ledger.Store(ctx, id.UserID, hash, s.clock.Now().UTC()); err != nil {
		return TokenPair{}, err
	}

	tokenMintedTotal.Add(ctx, 1)

	return TokenPair{
		AccessToken:       access.Token,
		RefreshToken:      refresh.Token,
		AccessTokenExpiry: access.ExpiresAt,
	}, nil
}
