// Package adapter contains the Postgres implementations of the identity
// store ports.
package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vocablearn/vocab-platform/internal/domain"
	"github.com/vocablearn/vocab-platform/internal/identity/app"
)

// DB is the subset of pgxpool.Pool the adapters use. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserStore implements app.UserStore backed by the users table.
type UserStore struct {
	db DB
}

// NewUserStore creates a UserStore.
func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts the account and returns its assigned id. The unique
// constraint on username is the authoritative duplicate signal: a
// unique-violation maps to domain.ErrDuplicateUsername regardless of what
// any earlier read said.
func (s *UserStore) Create(ctx context.Context, user app.NewUser) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, first_name, last_name, email)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		 RETURNING id`,
		user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Email,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: %s", domain.ErrDuplicateUsername, user.Username)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// FindByUsername returns the account or domain.ErrNotFound.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*app.UserRecord, error) {
	var (
		rec   app.UserRecord
		email *string
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, username, password_hash, first_name, last_name, email, created_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(&rec.ID, &rec.Username, &rec.PasswordHash, &rec.FirstName, &rec.LastName, &email, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	if email != nil {
		rec.Email = *email
	}
	return &rec, nil
}
