package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vocablearn/vocab-platform/internal/domain"
)

// Validator validates HS256 JWTs. Every verification failure collapses to
// a single domain error so callers cannot distinguish a bad signature from
// an expired or malformed token.
type Validator struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	clock         domain.Clock
}

// ValidatorConfig holds configuration for creating a Validator.
type ValidatorConfig struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	Clock         domain.Clock
}

// NewValidator creates a new JWT validator.
func NewValidator(cfg ValidatorConfig) *Validator {
	return &Validator{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		issuer:        cfg.Issuer,
		clock:         cfg.Clock,
	}
}

// ValidateAccessToken parses and fully validates an access token.
// Returns domain.ErrInvalidToken on any failure.
func (v *Validator) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := v.parseToken(tokenString, v.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: access token", domain.ErrInvalidToken)
	}
	return claims, nil
}

// ValidateRefreshToken parses and fully validates a refresh token.
// Returns domain.ErrInvalidRefresh on any failure. Signature validity is
// necessary but not sufficient: the caller must also check the token
// against the active-session ledger.
func (v *Validator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims, err := v.parseToken(tokenString, v.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token", domain.ErrInvalidRefresh)
	}
	return claims, nil
}

func (v *Validator) parseToken(tokenString string, secret []byte) (*Claims, error) {
	var claims Claims

	opts := []jwt.ParserOption{
		jwt.WithIssuer(v.issuer),
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(v.timeFunc),
		jwt.WithExpirationRequired(),
	}

	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if claims.UserID == 0 || claims.Username == "" {
		return nil, fmt.Errorf("missing identity claims")
	}

	return &claims, nil
}

func (v *Validator) timeFunc() time.Time {
	return v.clock.Now()
}
