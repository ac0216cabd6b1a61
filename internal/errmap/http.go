// Package errmap converts domain errors into transport-level error responses.
// The auth service never leaks store-layer detail to clients: every internal
// failure maps to one of the taxonomy entries below or to a generic 500.
package errmap

import (
	"errors"
	"net/http"

	"github.com/vocablearn/vocab-platform/internal/domain"
)

// HTTPError represents an HTTP error response.
type HTTPError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e HTTPError) Error() string {
	return e.Message
}

// httpMapping defines a domain error to HTTP status/code mapping.
type httpMapping struct {
	err        error
	statusCode int
	code       string
}

// httpMappings maps domain errors to HTTP status codes and error codes.
// Order matters: first match wins (via errors.Is).
//
// Missing credentials are 401; a credential that is present but invalid or
// expired is 403 so clients can tell "log in" from "re-authenticate".
var httpMappings = []httpMapping{
	// Validation errors
	{domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},

	// Auth errors
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrMissingToken, http.StatusUnauthorized, "MISSING_TOKEN"},
	{domain.ErrInvalidRefresh, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED"},
	{domain.ErrInvalidToken, http.StatusForbidden, "INVALID_TOKEN"},

	// Resource errors
	{domain.ErrDuplicateUsername, http.StatusConflict, "DUPLICATE_USERNAME"},
	{domain.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},

	// Availability
	{domain.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
}

// ToHTTPError converts a domain error to an HTTP error.
func ToHTTPError(err error) HTTPError {
	if err == nil {
		return HTTPError{StatusCode: http.StatusOK}
	}
	for _, m := range httpMappings {
		if errors.Is(err, m.err) {
			return HTTPError{StatusCode: m.statusCode, Code: m.code, Message: err.Error()}
		}
	}
	// Never expose internal error details to clients
	return HTTPError{StatusCode: http.StatusInternalServerError, Code: "INTERNAL", Message: "internal error"}
}

// ToHTTPStatusCode extracts just the HTTP status code for a domain error.
func ToHTTPStatusCode(err error) int {
	return ToHTTPError(err).StatusCode
}
