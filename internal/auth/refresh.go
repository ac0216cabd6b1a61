package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashRefreshToken returns the SHA-256 hex digest of a refresh token.
// Only the hash is stored server-side; hash equality stands in for value
// equality when the ledger is consulted.
func HashRefreshToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// MatchRefreshHash verifies a refresh token against its stored hash using
// constant-time comparison.
func MatchRefreshHash(token, storedHash string) bool {
	return ConstantTimeEqual(HashRefreshToken(token), storedHash)
}

// ConstantTimeEqual compares two hash strings in constant time.
func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
