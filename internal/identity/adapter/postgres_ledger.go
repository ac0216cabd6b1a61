package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vocablearn/vocab-platform/internal/auth"
)

// RefreshLedger implements app.RefreshLedger backed by the refresh_tokens
// table. user_id is the primary key, so each user holds at most one row.
type RefreshLedger struct {
	db DB
}

// NewRefreshLedger creates a RefreshLedger.
func NewRefreshLedger(db DB) *RefreshLedger {
	return &RefreshLedger{db: db}
}

// Store records the user's active refresh token hash. The upsert is a
// single statement: replacing the previous token and installing the new
// one cannot interleave with a concurrent rotation.
func (l *RefreshLedger) Store(ctx context.Context, userID int64, tokenHash string, issuedAt time.Time) error {
	_, err := l.db.Exec(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, issued_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE
		 SET token_hash = EXCLUDED.token_hash, issued_at = EXCLUDED.issued_at`,
		userID, tokenHash, issuedAt,
	)
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// IsActive reports whether tokenHash is the user's current active token.
// The comparison against the stored hash is constant-time.
func (l *RefreshLedger) IsActive(ctx context.Context, userID int64, tokenHash string) (bool, error) {
	var stored string
	err := l.db.QueryRow(ctx,
		`SELECT token_hash FROM refresh_tokens WHERE user_id = $1`,
		userID,
	).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query refresh token: %w", err)
	}
	return auth.ConstantTimeEqual(tokenHash, stored), nil
}

// Revoke removes the user's active token. Deleting a missing row succeeds.
func (l *RefreshLedger) Revoke(ctx context.Context, userID int64) error {
	_, err := l.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}
