package port

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/vocablearn/vocab-platform/internal/domain"
	"github.com/vocablearn/vocab-platform/internal/httpapi"
	"github.com/vocablearn/vocab-platform/internal/identity/app"
)

// authService is a narrow, consumer-defined interface for the auth service
// operations the handler requires. The *app.AuthService satisfies this.
type authService interface {
	Signup(ctx context.Context, params app.SignupParams) (*app.AuthResult, error)
	Signin(ctx context.Context, username, password string) (*app.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*app.TokenPair, error)
	Logout(ctx context.Context, userID int64) error
}

// AuthHandler translates HTTP requests into app-layer calls.
type AuthHandler struct {
	svc        authService
	transport  *TokenTransport
	middleware *Middleware
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, transport *TokenTransport, middleware *Middleware) *AuthHandler {
	return &AuthHandler{svc: svc, transport: transport, middleware: middleware}
}

// Register mounts the auth routes on the router.
func (h *AuthHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/auth/signup", h.Signup).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/signin", h.Signin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/refresh-token", h.Refresh).Methods(http.MethodPost)
	r.Handle("/api/auth/logout", h.middleware.Require(http.HandlerFunc(h.Logout))).Methods(http.MethodPost)
}

type signupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

type authResponse struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`

	// Populated only in header transport mode.
	AccessToken       string     `json:"accessToken,omitempty"`
	RefreshToken      string     `json:"refreshToken,omitempty"`
	AccessTokenExpiry *time.Time `json:"accessTokenExpiry,omitempty"`
}

type tokenResponse struct {
	AccessToken       string     `json:"accessToken,omitempty"`
	RefreshToken      string     `json:"refreshToken,omitempty"`
	AccessTokenExpiry *time.Time `json:"accessTokenExpiry,omitempty"`
}

// Signup registers a new account.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, domain.ErrInvalidInput)
		return
	}

	result, err := h.svc.Signup(r.Context(), app.SignupParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	h.transport.WriteTokens(w, result.Tokens.AccessToken, result.Tokens.RefreshToken)
	httpapi.WriteJSON(w, http.StatusCreated, h.authBody(result))
}

// Signin verifies credentials and establishes a session.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, domain.ErrInvalidInput)
		return
	}

	result, err := h.svc.Signin(r.Context(), req.Username, req.Password)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	h.transport.WriteTokens(w, result.Tokens.AccessToken, result.Tokens.RefreshToken)
	httpapi.WriteJSON(w, http.StatusOK, h.authBody(result))
}

// Refresh rotates the caller's token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	// Body is optional in cookie mode.
	_ = httpapi.DecodeJSON(r, &req)

	refreshToken := h.transport.RefreshToken(r, req.RefreshToken)
	if refreshToken == "" {
		httpapi.WriteError(w, domain.ErrInvalidRefresh)
		return
	}

	tokens, err := h.svc.Refresh(r.Context(), refreshToken)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	h.transport.WriteTokens(w, tokens.AccessToken, tokens.RefreshToken)

	var body tokenResponse
	if h.transport.InBody() {
		body = tokenResponse{
			AccessToken:       tokens.AccessToken,
			RefreshToken:      tokens.RefreshToken,
			AccessTokenExpiry: &tokens.AccessTokenExpiry,
		}
	}
	httpapi.WriteJSON(w, http.StatusOK, body)
}

// Logout revokes the caller's session. Runs behind the Require middleware.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, domain.ErrUnauthorized)
		return
	}

	if err := h.svc.Logout(r.Context(), identity.UserID); err != nil {
		httpapi.WriteError(w, err)
		return
	}

	h.transport.ClearTokens(w)
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) authBody(result *app.AuthResult) authResponse {
	body := authResponse{
		UserID:    result.User.ID,
		Username:  result.User.Username,
		FirstName: result.User.FirstName,
		LastName:  result.User.LastName,
		Email:     result.User.Email,
	}
	if h.transport.InBody() {
		body.AccessToken = result.Tokens.AccessToken
		body.RefreshToken = result.Tokens.RefreshToken
		body.AccessTokenExpiry = &result.Tokens.AccessTokenExpiry
	}
	return body
}
