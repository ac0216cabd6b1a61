// Package port exposes the user-state storage gateway over HTTP. Every
// route runs behind the auth middleware; the owner is always the caller.
package port

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vocablearn/vocab-platform/internal/domain"
	"github.com/vocablearn/vocab-platform/internal/httpapi"
	"github.com/vocablearn/vocab-platform/internal/progress/app"
)

// storageService is the narrow app-layer interface the handler requires.
type storageService interface {
	SaveAttempt(ctx context.Context, userID int64, attempt app.WordAttempt) error
	AttemptsByUser(ctx context.Context, userID int64) ([]app.WordAttempt, error)
	SaveState(ctx context.Context, userID int64, state app.UserState) error
	StateByUser(ctx context.Context, userID int64) (*app.UserState, error)
}

// requireAuth wraps handlers with the identity requirement.
type requireAuth interface {
	Require(next http.Handler) http.Handler
}

// StorageHandler translates HTTP requests into storage service calls.
type StorageHandler struct {
	svc  storageService
	auth requireAuth
}

// NewStorageHandler creates a StorageHandler.
func NewStorageHandler(svc storageService, auth requireAuth) *StorageHandler {
	return &StorageHandler{svc: svc, auth: auth}
}

// Register mounts the storage routes on the router.
func (h *StorageHandler) Register(r *mux.Router) {
	r.Handle("/api/storage/attempt", h.auth.Require(http.HandlerFunc(h.SaveAttempt))).Methods(http.MethodPost)
	r.Handle("/api/storage/attempts", h.auth.Require(http.HandlerFunc(h.Attempts))).Methods(http.MethodGet)
	r.Handle("/api/storage/state", h.auth.Require(http.HandlerFunc(h.SaveState))).Methods(http.MethodPost)
	r.Handle("/api/storage/state", h.auth.Require(http.HandlerFunc(h.State))).Methods(http.MethodGet)
}

// SaveAttempt records one word attempt for the caller.
func (h *StorageHandler) SaveAttempt(w http.ResponseWriter, r *http.Request) {
	identity, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, domain.ErrUnauthorized)
		return
	}

	var attempt app.WordAttempt
	if err := httpapi.DecodeJSON(r, &attempt); err != nil {
		httpapi.WriteError(w, domain.ErrInvalidInput)
		return
	}

	if err := h.svc.SaveAttempt(r.Context(), identity.UserID, attempt); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, map[string]string{"message": "attempt saved"})
}

// Attempts returns the caller's attempt history, newest first.
func (h *StorageHandler) Attempts(w http.ResponseWriter, r *http.Request) {
	identity, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, domain.ErrUnauthorized)
		return
	}

	attempts, err := h.svc.AttemptsByUser(r.Context(), identity.UserID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if attempts == nil {
		attempts = []app.WordAttempt{}
	}
	httpapi.WriteJSON(w, http.StatusOK, attempts)
}

// SaveState upserts the caller's whole state row.
func (h *StorageHandler) SaveState(w http.ResponseWriter, r *http.Request) {
	identity, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, domain.ErrUnauthorized)
		return
	}

	var state app.UserState
	if err := httpapi.DecodeJSON(r, &state); err != nil {
		httpapi.WriteError(w, domain.ErrInvalidInput)
		return
	}

	if err := h.svc.SaveState(r.Context(), identity.UserID, state); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"message": "state saved"})
}

// State returns the caller's state, 404 when none exists yet.
func (h *StorageHandler) State(w http.ResponseWriter, r *http.Request) {
	identity, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, domain.ErrUnauthorized)
		return
	}

	state, err := h.svc.StateByUser(r.Context(), identity.UserID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, state)
}
