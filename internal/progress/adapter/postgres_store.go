// Package adapter contains the storage gateway backends.
package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vocablearn/vocab-platform/internal/domain"
	"github.com/vocablearn/vocab-platform/internal/progress/app"
)

// DB is the subset of pgxpool.Pool the Postgres store uses. pgxmock
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements app.Store backed by the word_attempts and
// user_state tables.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a PostgresStore.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// SaveAttempt appends one attempt row.
func (s *PostgresStore) SaveAttempt(ctx context.Context, attempt app.WordAttempt) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO word_attempts
		 (user_id, word, user_answer, is_correct, attempted_at_ms, time_taken_ms,
		  accuracy_points, speed_points, category, hint_used, attempts_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		attempt.UserID, attempt.Word, attempt.UserAnswer, attempt.IsCorrect,
		attempt.AttemptedAtMs, attempt.TimeTakenMs, attempt.AccuracyPoints,
		attempt.SpeedPoints, attempt.Category, attempt.HintUsed, attempt.AttemptsCount,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// AttemptsByUser returns the user's attempts, newest first.
func (s *PostgresStore) AttemptsByUser(ctx context.Context, userID int64) ([]app.WordAttempt, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, word, user_answer, is_correct, attempted_at_ms,
		        time_taken_ms, accuracy_points, speed_points, category, hint_used, attempts_count
		 FROM word_attempts
		 WHERE user_id = $1
		 ORDER BY attempted_at_ms DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []app.WordAttempt
	for rows.Next() {
		var a app.WordAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.Word, &a.UserAnswer, &a.IsCorrect,
			&a.AttemptedAtMs, &a.TimeTakenMs, &a.AccuracyPoints, &a.SpeedPoints,
			&a.Category, &a.HintUsed, &a.AttemptsCount); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

// SaveState upserts the user's state row in a single statement.
func (s *PostgresStore) SaveState(ctx context.Context, state app.UserState) error {
	items, err := json.Marshal(state.OwnedItems)
	if err != nil {
		return fmt.Errorf("encode owned items: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO user_state (user_id, accuracy_points, speed_points, owned_items, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE
		 SET accuracy_points = EXCLUDED.accuracy_points,
		     speed_points = EXCLUDED.speed_points,
		     owned_items = EXCLUDED.owned_items,
		     updated_at = EXCLUDED.updated_at`,
		state.UserID, state.AccuracyPoints, state.SpeedPoints, items, state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

// StateByUser returns the user's state or domain.ErrNotFound.
func (s *PostgresStore) StateByUser(ctx context.Context, userID int64) (*app.UserState, error) {
	var (
		state app.UserState
		items []byte
	)
	err := s.db.QueryRow(ctx,
		`SELECT user_id, accuracy_points, speed_points, owned_items, updated_at
		 FROM user_state WHERE user_id = $1`,
		userID,
	).Scan(&state.UserID, &state.AccuracyPoints, &state.SpeedPoints, &items, &state.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: state for user %d", domain.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("query state: %w", err)
	}

	if err := json.Unmarshal(items, &state.OwnedItems); err != nil {
		return nil, fmt.Errorf("decode owned items: %w", err)
	}
	return &state, nil
}
