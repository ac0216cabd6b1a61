package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vocablearn/vocab-platform/internal/domain"
)

// MintResult holds the result of minting a token.
type MintResult struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// Minter creates signed HS256 JWTs. Access and refresh tokens are signed
// with distinct secrets so neither class can stand in for the other.
type Minter struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	clock         domain.Clock
}

// MinterConfig holds configuration for creating a Minter.
type MinterConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Clock         domain.Clock
}

// NewMinter creates a new JWT minter.
func NewMinter(cfg MinterConfig) *Minter {
	return &Minter{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
		clock:         cfg.Clock,
	}
}

// MintAccessToken creates a signed short-lived access token for the user.
func (m *Minter) MintAccessToken(id domain.Identity) (MintResult, error) {
	return m.mint(id, m.accessSecret, m.accessTTL)
}

// MintRefreshToken creates a signed long-lived refresh token for the user.
func (m *Minter) MintRefreshToken(id domain.Identity) (MintResult, error) {
	return m.mint(id, m.refreshSecret, m.refreshTTL)
}

func (m *Minter) mint(id domain.Identity, secret []byte, ttl time.Duration) (MintResult, error) {
	now := m.clock.Now().UTC()
	jti := uuid.NewString()
	expiresAt := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", id.UserID),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti,
		},
		UserID:   id.UserID,
		Username: id.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return MintResult{}, fmt.Errorf("sign token: %w", err)
	}

	return MintResult{
		Token:     signed,
		JTI:       jti,
		ExpiresAt: expiresAt,
	}, nil
}
