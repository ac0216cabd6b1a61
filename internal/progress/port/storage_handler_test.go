package port_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocablearn/vocab-platform/internal/auth"
	"github.com/vocablearn/vocab-platform/internal/domain"
	"github.com/vocablearn/vocab-platform/internal/domain/domaintest"
	"github.com/vocablearn/vocab-platform/internal/progress/app"
	"github.com/vocablearn/vocab-platform/internal/progress/port"
	identityport "github.com/vocablearn/vocab-platform/internal/identity/port"
)

// stubStorageService implements the handler's storageService.
type stubStorageService struct {
	saveAttemptFn    func(ctx context.Context, userID int64, attempt app.WordAttempt) error
	attemptsByUserFn func(ctx context.Context, userID int64) ([]app.WordAttempt, error)
	saveStateFn      func(ctx context.Context, userID int64, state app.UserState) error
	stateByUserFn    func(ctx context.Context, userID int64) (*app.UserState, error)
}

func (s *stubStorageService) SaveAttempt(ctx context.Context, userID int64, attempt app.WordAttempt) error {
	if s.saveAttemptFn != nil {
		return s.saveAttemptFn(ctx, userID, attempt)
	}
	return nil
}

func (s *stubStorageService) AttemptsByUser(ctx context.Context, userID int64) ([]app.WordAttempt, error) {
	if s.attemptsByUserFn != nil {
		return s.attemptsByUserFn(ctx, userID)
	}
	return nil, nil
}

func (s *stubStorageService) SaveState(ctx context.Context, userID int64, state app.UserState) error {
	if s.saveStateFn != nil {
		return s.saveStateFn(ctx, userID, state)
	}
	return nil
}

func (s *stubStorageService) StateByUser(ctx context.Context, userID int64) (*app.UserState, error) {
	if s.stateByUserFn != nil {
		return s.stateByUserFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

type storageFixture struct {
	router *mux.Router
	minter *auth.Minter
}

func newStorageFixture(t *testing.T, svc *stubStorageService) *storageFixture {
	t.Helper()
	clock := domaintest.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	minter := auth.NewMinter(auth.MinterConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     domain.AccessTokenLifetime,
		RefreshTTL:    domain.RefreshTokenLifetime,
		Issuer:        "vocab-platform",
		Clock:         clock,
	})
	validator := auth.NewValidator(auth.ValidatorConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		Issuer:        "vocab-platform",
		Clock:         clock,
	})
	transport := identityport.NewTokenTransport(identityport.TokenTransportConfig{
		Mode:       domain.TransportHeader,
		AccessTTL:  domain.AccessTokenLifetime,
		RefreshTTL: domain.RefreshTokenLifetime,
	})
	middleware := identityport.NewMiddleware(validator, transport)

	router := mux.NewRouter()
	port.NewStorageHandler(svc, middleware).Register(router)
	return &storageFixture{router: router, minter: minter}
}

func (f *storageFixture) authedRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	token, err := f.minter.MintAccessToken(domain.Identity{UserID: 42, Username: "alice"})
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	return req
}

func TestStorageRoutesRequireAuth(t *testing.T) {
	f := newStorageFixture(t, &stubStorageService{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/storage/attempt"},
		{http.MethodGet, "/api/storage/attempts"},
		{http.MethodPost, "/api/storage/state"},
		{http.MethodGet, "/api/storage/state"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestSaveAttemptHandler(t *testing.T) {
	t.Run("saves the attempt for the authenticated user", func(t *testing.T) {
		var gotUserID int64
		var gotAttempt app.WordAttempt
		svc := &stubStorageService{
			saveAttemptFn: func(_ context.Context, userID int64, attempt app.WordAttempt) error {
				gotUserID = userID
				gotAttempt = attempt
				return nil
			},
		}
		f := newStorageFixture(t, svc)

		body := `{"word":"ephemeral","userAnswer":"ephemral","isCorrect":false,"category":"adjectives"}`
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodPost, "/api/storage/attempt", body))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, int64(42), gotUserID)
		assert.Equal(t, "ephemeral", gotAttempt.Word)
		assert.False(t, gotAttempt.IsCorrect)
	})

	t.Run("invalid attempt is 400", func(t *testing.T) {
		svc := &stubStorageService{
			saveAttemptFn: func(context.Context, int64, app.WordAttempt) error {
				return domain.ErrInvalidInput
			},
		}
		f := newStorageFixture(t, svc)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodPost, "/api/storage/attempt", `{}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAttemptsHandler(t *testing.T) {
	t.Run("returns attempts newest first", func(t *testing.T) {
		svc := &stubStorageService{
			attemptsByUserFn: func(_ context.Context, userID int64) ([]app.WordAttempt, error) {
				assert.Equal(t, int64(42), userID)
				return []app.WordAttempt{
					{Word: "newest", AttemptedAtMs: 3000},
					{Word: "older", AttemptedAtMs: 2000},
				}, nil
			},
		}
		f := newStorageFixture(t, svc)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodGet, "/api/storage/attempts", ""))

		require.Equal(t, http.StatusOK, rec.Code)
		var got []app.WordAttempt
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "newest", got[0].Word)
	})

	t.Run("no attempts is an empty list, not null", func(t *testing.T) {
		f := newStorageFixture(t, &stubStorageService{})

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodGet, "/api/storage/attempts", ""))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})
}

func TestStateHandlers(t *testing.T) {
	t.Run("save state round trips through the service", func(t *testing.T) {
		var gotState app.UserState
		svc := &stubStorageService{
			saveStateFn: func(_ context.Context, _ int64, state app.UserState) error {
				gotState = state
				return nil
			},
		}
		f := newStorageFixture(t, svc)

		body := `{"accuracyPoints":120,"speedPoints":80,"ownedItems":["hat"]}`
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodPost, "/api/storage/state", body))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 120, gotState.AccuracyPoints)
		assert.Equal(t, []string{"hat"}, gotState.OwnedItems)
	})

	t.Run("get state returns the snapshot", func(t *testing.T) {
		svc := &stubStorageService{
			stateByUserFn: func(context.Context, int64) (*app.UserState, error) {
				return &app.UserState{AccuracyPoints: 120, OwnedItems: []string{"hat"}}, nil
			},
		}
		f := newStorageFixture(t, svc)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodGet, "/api/storage/state", ""))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"accuracyPoints":120`)
	})

	t.Run("absent state is 404", func(t *testing.T) {
		f := newStorageFixture(t, &stubStorageService{})

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, f.authedRequest(t, http.MethodGet, "/api/storage/state", ""))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
