package domain

import "errors"

// Sentinel errors for domain error conditions.
// Use errors.Is() for matching - never compare error strings.
var (
	// Resource errors
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Auth errors
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingToken       = errors.New("access token is required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
	ErrUnauthorized       = errors.New("authentication required")

	// Operational errors
	ErrUnavailable = errors.New("storage temporarily unavailable")

	// Configuration errors
	ErrConfigRequired = errors.New("required configuration key missing")
	ErrConfigInvalid  = errors.New("invalid configuration value")
)

// clientErrors enumerates all domain errors that represent client-side issues.
var clientErrors = []error{
	ErrInvalidInput,
	ErrNotFound,
	ErrAlreadyExists,
	ErrDuplicateUsername,
	ErrInvalidCredentials,
	ErrMissingToken,
	ErrInvalidToken,
	ErrInvalidRefresh,
	ErrUnauthorized,
}

// IsClientError returns true if the error represents a client-side issue
// that will not succeed on retry without client-side changes.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsAuthError returns true if the error represents a failed or missing
// authentication rather than a malformed request.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrInvalidRefresh) ||
		errors.Is(err, ErrUnauthorized)
}

// IsNotFound returns true if the error represents a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
