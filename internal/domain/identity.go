package domain

import "context"

// Identity is the resolved caller attached to a request after the session
// verifier accepts an access token. Downstream handlers trust it and perform
// no further authentication.
type Identity struct {
	UserID   int64
	Username string
}

// identityKey is the private context key for Identity. A typed key keeps the
// identity from colliding with other context values and makes "attach
// arbitrary fields to the request" impossible by construction.
type identityKey struct{}

// WithIdentity returns a context carrying the resolved identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the resolved identity from the context.
// The second return is false when the request was not authenticated.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
