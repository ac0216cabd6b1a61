package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vocablearn/vocab-platform/internal/domain"
)

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid input", domain.ErrInvalidInput, true},
		{"duplicate username", domain.ErrDuplicateUsername, true},
		{"invalid credentials", domain.ErrInvalidCredentials, true},
		{"missing token", domain.ErrMissingToken, true},
		{"invalid token", domain.ErrInvalidToken, true},
		{"invalid refresh", domain.ErrInvalidRefresh, true},
		{"not found", domain.ErrNotFound, true},
		{"wrapped client error", fmt.Errorf("signup: %w", domain.ErrDuplicateUsername), true},
		{"storage unavailable", domain.ErrUnavailable, false},
		{"arbitrary error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsClientError(tt.err))
		})
	}
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, domain.IsAuthError(domain.ErrInvalidCredentials))
	assert.True(t, domain.IsAuthError(domain.ErrMissingToken))
	assert.True(t, domain.IsAuthError(fmt.Errorf("refresh: %w", domain.ErrInvalidRefresh)))
	assert.False(t, domain.IsAuthError(domain.ErrInvalidInput))
	assert.False(t, domain.IsAuthError(domain.ErrDuplicateUsername))
	assert.False(t, domain.IsAuthError(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, domain.IsNotFound(domain.ErrNotFound))
	assert.True(t, domain.IsNotFound(fmt.Errorf("state: %w", domain.ErrNotFound)))
	assert.False(t, domain.IsNotFound(domain.ErrInvalidToken))
}
