package errmap_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vocablearn/vocab-platform/internal/domain"
	"github.com/vocablearn/vocab-platform/internal/errmap"
)

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"nil error", nil, http.StatusOK, ""},
		{"validation", domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"missing token", domain.ErrMissingToken, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"invalid token", domain.ErrInvalidToken, http.StatusForbidden, "INVALID_TOKEN"},
		{"invalid refresh", domain.ErrInvalidRefresh, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
		{"duplicate username", domain.ErrDuplicateUsername, http.StatusConflict, "DUPLICATE_USERNAME"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"storage unavailable", domain.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"unknown maps to 500", errors.New("pool exhausted"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errmap.ToHTTPError(tt.err)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestToHTTPError_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("signup: %w", domain.ErrDuplicateUsername)

	got := errmap.ToHTTPError(wrapped)

	assert.Equal(t, http.StatusConflict, got.StatusCode)
	assert.Equal(t, "DUPLICATE_USERNAME", got.Code)
}

func TestToHTTPError_NeverLeaksInternals(t *testing.T) {
	internal := errors.New("pq: connection refused at 10.0.0.3:5432")

	got := errmap.ToHTTPError(internal)

	assert.Equal(t, http.StatusInternalServerError, got.StatusCode)
	assert.Equal(t, "internal error", got.Message, "internal detail must not reach clients")
}

func TestToHTTPStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, errmap.ToHTTPStatusCode(domain.ErrInvalidCredentials))
	assert.Equal(t, http.StatusOK, errmap.ToHTTPStatusCode(nil))
}
