package adapter

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/vocablearn/vocab-platform/internal/domain"
	"github.com/vocablearn/vocab-platform/internal/progress/app"
)

// SQLiteStore implements app.Store on a local SQLite file for
// single-device deployments. The schema is created on open.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS user_state (
    user_id         INTEGER PRIMARY KEY,
    accuracy_points INTEGER NOT NULL DEFAULT 0,
    speed_points    INTEGER NOT NULL DEFAULT 0,
    owned_items     TEXT    NOT NULL DEFAULT '[]',
    updated_at_ms   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS word_attempts (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id         INTEGER NOT NULL,
    word            TEXT    NOT NULL,
    user_answer     TEXT    NOT NULL,
    is_correct      INTEGER NOT NULL,
    attempted_at_ms INTEGER NOT NULL,
    time_taken_ms   INTEGER NOT NULL DEFAULT 0,
    accuracy_points INTEGER NOT NULL DEFAULT 0,
    speed_points    INTEGER NOT NULL DEFAULT 0,
    category        TEXT    NOT NULL DEFAULT '',
    hint_used       INTEGER NOT NULL DEFAULT 0,
    attempts_count  INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS word_attempts_user_recency_idx
    ON word_attempts (user_id, attempted_at_ms DESC);
`

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists. ":memory:" is accepted for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	busyMs := domain.SQLiteTimeout.Milliseconds()
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d;", busyMs)); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveAttempt appends one attempt row.
func (s *SQLiteStore) SaveAttempt(ctx context.Context, attempt app.WordAttempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO word_attempts
		 (user_id, word, user_answer, is_correct, attempted_at_ms, time_taken_ms,
		  accuracy_points, speed_points, category, hint_used, attempts_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
func (s *SQLiteStore) AttemptsByUser(ctx context.Context, userID int64) ([]app.WordAttempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, word, user_answer, is_correct, attempted_at_ms,
		        time_taken_ms, accuracy_points, speed_points, category, hint_used, attempts_count
		 FROM word_attempts
		 WHERE user_id = ?
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
func (s *SQLiteStore) SaveState(ctx context.Context, state app.UserState) error {
	items, err := json.Marshal(state.OwnedItems)
	if err != nil {
		return fmt.Errorf("encode owned items: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_state (user_id, accuracy_points, speed_points, owned_items, updated_at_ms)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE
		 SET accuracy_points = excluded.accuracy_points,
		     speed_points = excluded.speed_points,
		     owned_items = excluded.owned_items,
		     updated_at_ms = excluded.updated_at_ms`,
		state.UserID, state.AccuracyPoints, state.SpeedPoints, string(items),
		state.UpdatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

// StateByUser returns the user's state or domain.ErrNotFound.
func (s *SQLiteStore) StateByUser(ctx context.Context, userID int64) (*app.UserState, error) {
	var (
		state     app.UserState
		items     string
		updatedMs int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, accuracy_points, speed_points, owned_items, updated_at_ms
		 FROM user_state WHERE user_id = ?`,
		userID,
	).Scan(&state.UserID, &state.AccuracyPoints, &state.SpeedPoints, &items, &updatedMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: state for user %d", domain.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("query state: %w", err)
	}

	if err := json.Unmarshal([]byte(items), &state.OwnedItems); err != nil {
		return nil, fmt.Errorf("decode owned items: %w", err)
	}
	state.UpdatedAt = domain.FromMillis(updatedMs)
	return &state, nil
}

var _ app.Store = (*SQLiteStore)(nil)
