package port

import (
	"net/http"

	"github.com/vocablearn/vocab-platform/internal/auth"
	"github.com/vocablearn/vocab-platform/internal/domain"
	"github.com/vocablearn/vocab-platform/internal/httpapi"
)

// accessValidator is the narrow validator interface the middleware needs.
type accessValidator interface {
	ValidateAccessToken(tokenString string) (*auth.Claims, error)
}

// Middleware authenticates requests and attaches the caller's identity to
// the request context. It verifies tokens cryptographically only; the
// refresh ledger is never consulted on the request path.
type Middleware struct {
	validator accessValidator
	transport *TokenTransport
}

// NewMiddleware creates an auth Middleware.
func NewMiddleware(validator accessValidator, transport *TokenTransport) *Middleware {
	return &Middleware{validator: validator, transport: transport}
}

// Require rejects requests without a valid access token. A missing token
// and an invalid one fail differently: 401 asks the client to log in, 403
// tells it the credential it sent is no good.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.transport.AccessToken(r)
		if token == "" {
			httpapi.WriteError(w, domain.ErrMissingToken)
			return
		}

		claims, err := m.validator.ValidateAccessToken(token)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}

		ctx := domain.WithIdentity(r.Context(), domain.Identity{
			UserID:   claims.UserID,
			Username: claims.Username,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional attaches identity when a valid token is present and lets the
// request through unauthenticated otherwise.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := m.transport.AccessToken(r); token != "" {
			if claims, err := m.validator.ValidateAccessToken(token); err == nil {
				ctx := domain.WithIdentity(r.Context(), domain.Identity{
					UserID:   claims.UserID,
					Username: claims.Username,
				})
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}
