// Package app contains the application service for per-user learning state.
package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/vocablearn/vocab-platform/internal/domain"
	"github.com/vocablearn/vocab-platform/internal/observability"
)

var tracer = otel.Tracer("progress/app")

var (
	attemptsSavedTotal metric.Int64Counter
	stateWritesTotal   metric.Int64Counter
)

func init() {
	m := otel.Meter("progress/app")

	attemptsSavedTotal, _ = m.Int64Counter("storage_attempts_saved_total",
		metric.WithDescription("Total word attempts persisted"))
	stateWritesTotal, _ = m.Int64Counter("storage_state_writes_total",
		metric.WithDescription("Total user state upserts"))
}

// WordAttempt is one answer to one vocabulary prompt, append-only.
// AttemptedAtMs is UTC epoch milliseconds.
type WordAttempt struct {
	ID             int64  `json:"id,omitempty"`
	UserID         int64  `json:"-"`
	Word           string `json:"word"`
	UserAnswer     string `json:"userAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
	AttemptedAtMs  int64  `json:"attemptedAt"`
	TimeTakenMs    int64  `json:"timeTakenMs"`
	AccuracyPoints int    `json:"accuracyPoints"`
	SpeedPoints    int    `json:"speedPoints"`
	Category       string `json:"category"`
	HintUsed       bool   `json:"hintUsed"`
	AttemptsCount  int    `json:"attemptsCount"`
}

// UserState is the whole-row snapshot of a user's game state. Writes are
// last-write-wins at row granularity.
type UserState struct {
	UserID         int64     `json:"-"`
	AccuracyPoints int       `json:"accuracyPoints"`
	SpeedPoints    int       `json:"speedPoints"`
	OwnedItems     []string  `json:"ownedItems"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// Store is the capability interface for user-state persistence. The
// backend (Postgres or SQLite) is chosen once at startup; callers hold
// only this interface. Authorization happens before the call: the store
// trusts the user id it is given.
type Store interface {
	// SaveAttempt appends one attempt.
	SaveAttempt(ctx context.Context, attempt WordAttempt) error

	// AttemptsByUser returns the user's attempts, newest first.
	AttemptsByUser(ctx context.Context, userID int64) ([]WordAttempt, error)

	// SaveState upserts the user's whole state row.
	SaveState(ctx context.Context, state UserState) error

	// StateByUser returns domain.ErrNotFound when the user has no state yet.
	StateByUser(ctx context.Context, userID int64) (*UserState, error)
}

// StorageService fronts the Store with timestamping, validation, and
// telemetry.
type StorageService struct {
	store  Store
	clock  domain.Clock
	logger *slog.Logger
}

// NewStorageService creates a StorageService.
func NewStorageService(store Store, clock domain.Clock, logger *slog.Logger) *StorageService {
	return &StorageService{store: store, clock: clock, logger: logger}
}

// SaveAttempt persists one attempt for the user, stamping the attempt time
// when the client did not provide one.
func (s *StorageService) SaveAttempt(ctx context.Context, userID int64, attempt WordAttempt) error {
	ctx, span := tracer.Start(ctx, "storage.save_attempt")
	defer span.End()

	if attempt.Word == "" {
		return domain.ErrInvalidInput
	}

	attempt.UserID = userID
	if attempt.AttemptedAtMs == 0 {
		attempt.AttemptedAtMs = domain.NowUTCMillis(s.clock)
	}
	if attempt.AttemptsCount == 0 {
		attempt.AttemptsCount = 1
	}

	if err := s.store.SaveAttempt(ctx, attempt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	attemptsSavedTotal.Add(ctx, 1)
	return nil
}

// AttemptsByUser returns the user's attempt history, newest first.
func (s *StorageService) AttemptsByUser(ctx context.Context, userID int64) ([]WordAttempt, error) {
	ctx, span := tracer.Start(ctx, "storage.attempts_by_user")
	defer span.End()

	attempts, err := s.store.AttemptsByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return attempts, nil
}

// SaveState upserts the user's state row, last write wins.
func (s *StorageService) SaveState(ctx context.Context, userID int64, state UserState) error {
	ctx, span := tracer.Start(ctx, "storage.save_state")
	defer span.End()

	state.UserID = userID
	state.UpdatedAt = s.clock.Now().UTC()
	if state.OwnedItems == nil {
		state.OwnedItems = []string{}
	}

	if err := s.store.SaveState(ctx, state); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	stateWritesTotal.Add(ctx, 1)
	logger := observability.WithTraceID(ctx, s.logger)
	logger.DebugContext(ctx, "storage.state_saved", "user_id", userID)
	return nil
}

// StateByUser returns the user's state or domain.ErrNotFound.
func (s *StorageService) StateByUser(ctx context.Context, userID int64) (*UserState, error) {
	ctx, span := tracer.Start(ctx, "storage.state_by_user")
	defer span.End()

	state, err := s.store.StateByUser(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return state, nil
}
