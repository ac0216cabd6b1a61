// Package port exposes the identity service over HTTP.
package port

import (
	"net/http"
	"strings"
	"time"

	"github.com/vocablearn/vocab-platform/internal/domain"
)

// Cookie names used in cookie transport mode.
const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

// TokenTransport reads and writes the token pair according to the
// deployment's transport mode. In header mode tokens travel in the
// Authorization header and response body; in cookie mode they live in
// HTTP-only cookies and never appear in bodies.
type TokenTransport struct {
	mode         domain.TokenTransport
	cookieDomain string
	secure       bool
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

// TokenTransportConfig holds configuration for creating a TokenTransport.
type TokenTransportConfig struct {
	Mode         domain.TokenTransport
	CookieDomain string
	Secure       bool
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// NewTokenTransport creates a TokenTransport.
func NewTokenTransport(cfg TokenTransportConfig) *TokenTransport {
	return &TokenTransport{
		mode:         cfg.Mode,
		cookieDomain: cfg.CookieDomain,
		secure:       cfg.Secure,
		accessTTL:    cfg.AccessTTL,
		refreshTTL:   cfg.RefreshTTL,
	}
}

// Mode returns the configured transport mode.
func (t *TokenTransport) Mode() domain.TokenTransport {
	return t.mode
}

// AccessToken extracts the access token from the request, or "" when absent.
func (t *TokenTransport) AccessToken(r *http.Request) string {
	if t.mode == domain.TransportCookie {
		if c, err := r.Cookie(accessCookieName); err == nil {
			return c.Value
		}
		return ""
	}

	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return header[len(prefix):]
	}
	return ""
}

// RefreshToken extracts the refresh token from the request. In header mode
// the caller supplies it in the request body, so bodyToken is used.
func (t *TokenTransport) RefreshToken(r *http.Request, bodyToken string) string {
	if t.mode == domain.TransportCookie {
		if c, err := r.Cookie(refreshCookieName); err == nil {
			return c.Value
		}
		return ""
	}
	return bodyToken
}

// WriteTokens delivers a freshly minted pair to the client. In cookie mode
// both tokens are set as HTTP-only cookies; header mode is a no-op and the
// handler returns them in the body instead.
func (t *TokenTransport) WriteTokens(w http.ResponseWriter, accessToken, refreshToken string) {
	if t.mode != domain.TransportCookie {
		return
	}
	http.SetCookie(w, t.cookie(accessCookieName, accessToken, t.accessTTL))
	http.SetCookie(w, t.cookie(refreshCookieName, refreshToken, t.refreshTTL))
}

// ClearTokens expires both cookies. Harmless in header mode.
func (t *TokenTransport) ClearTokens(w http.ResponseWriter) {
	if t.mode != domain.TransportCookie {
		return
	}
	http.SetCookie(w, t.cookie(accessCookieName, "", -time.Second))
	http.SetCookie(w, t.cookie(refreshCookieName, "", -time.Second))
}

// InBody reports whether tokens belong in response bodies.
func (t *TokenTransport) InBody() bool {
	return t.mode == domain.TransportHeader
}

func (t *TokenTransport) cookie(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   t.cookieDomain,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteStrictMode,
	}
	if ttl < 0 {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(ttl / time.Second)
	}
	return c
}
