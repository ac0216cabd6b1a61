package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocablearn/vocab-platform/internal/domain"
)

func TestRefresh(t *testing.T) {
	t.Run("valid refresh token rotates the pair", func(t *testing.T) {
		h := newTestService(t)
		signup := signupAlice(t, h)

		h.clock.Advance(time.Minute)
		tokens, err := h.svc.Refresh(context.Background(), signup.Tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEqual(t, signup.Tokens.RefreshToken, tokens.RefreshToken)
	})

	t.Run("rotated-away token cannot be replayed", func(t *testing.T) {
		h := newTestService(t)
		signup := signupAlice(t, h)

		rotated, err := h.svc.Refresh(context.Background(), signup.Tokens.RefreshToken)
		require.NoError(t, err)

		// The original token is well-signed and unexpired, but rotation
		// overwrote its ledger slot.
		_, err = h.svc.Refresh(context.Background(), signup.Tokens.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrInvalidRefresh)

		// The replacement still works.
		h.clock.Advance(time.Second)
		_, err = h.svc.Refresh(context.Background(), rotated.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("expired refresh token rejected", func(t *testing.T) {
		h := newTestService(t)
		signup := signupAlice(t, h)

		h.clock.Advance(domain.RefreshTokenLifetime + time.Second)
		_, err := h.svc.Refresh(context.Background(), signup.Tokens.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrInvalidRefresh)
	})

	t.Run("access token rejected in refresh flow", func(t *testing.T) {
		h := newTestService(t)
		signup := signupAlice(t, h)

		_, err := h.svc.Refresh(context.Background(), signup.Tokens.AccessToken)
		assert.ErrorIs(t, err, domain.ErrInvalidRefresh)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		h := newTestService(t)

		_, err := h.svc.Refresh(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, domain.ErrInvalidRefresh)
	})

	t.Run("ledger error does not collapse to invalid refresh", func(t *testing.T) {
		h := newTestService(t)
		signup := signupAlice(t, h)

		broken := h.withLedger(&stubLedger{
			isActiveFn: func(context.Context, int64, string) (bool, error) {
				return false, errors.New("connection lost")
			},
		})

		_, err := broken.Refresh(context.Background(), signup.Tokens.RefreshToken)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvalidRefresh)
	})
}

func TestLogout(t *testing.T) {
	t.Run("logout kills the active refresh token", func(t *testing.T) {
		h := newTestService(t)
		signup := signupAlice(t, h)

		require.NoError(t, h.svc.Logout(context.Background(), signup.User.ID))

		_, err := h.svc.Refresh(context.Background(), signup.Tokens.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrInvalidRefresh)
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		h := newTestService(t)
		signup := signupAlice(t, h)

		require.NoError(t, h.svc.Logout(context.Background(), signup.User.ID))
		require.NoError(t, h.svc.Logout(context.Background(), signup.User.ID))
	})

	t.Run("ledger failure surfaces", func(t *testing.T) {
		h := newTestService(t)
		broken := h.withLedger(&stubLedger{
			revokeFn: func(context.Context, int64) error {
				return errors.New("connection lost")
			},
		})

		assert.Error(t, broken.Logout(context.Background(), 1))
	})
}
