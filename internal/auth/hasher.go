package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vocablearn/vocab-platform/internal/domain"
)

// PasswordHasher provides password hashing and verification.
type PasswordHasher interface {
	// Hash produces a salted hash of the password.
	Hash(password string) (string, error)

	// Verify checks if the password matches the hash.
	// Returns (true, nil) on match, (false, nil) on mismatch, or error on
	// a malformed stored hash.
	Verify(password, hash string) (bool, error)
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher at the standard work factor.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: domain.PasswordHashCost}
}

// Hash produces a bcrypt hash of the password. The salt is embedded in the
// hash string, so each call yields a different hash for the same input.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password cannot be empty", domain.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks if the password matches the hash.
func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify password: %w", err)
}

// dummyHash is a bcrypt hash of an unguessable constant, compared against
// when the username does not exist so that signin latency does not reveal
// which usernames are registered.
var dummyHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("vocab-platform-timing-pad"), domain.PasswordHashCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// VerifyDummy burns one bcrypt comparison and always reports a mismatch.
func (h *BcryptHasher) VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
