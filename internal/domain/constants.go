package domain

import "time"

// Compiled defaults for the credential and session subsystem. Values that
// deployments commonly tune are also exposed through configuration.
const (
	// Token configuration. Access tokens are short-lived and validated
	// statelessly; refresh tokens are long-lived and tracked in the ledger.
	AccessTokenLifetime  = 15 * time.Minute
	RefreshTokenLifetime = 7 * 24 * time.Hour

	// Password hashing work factor. Tuned per deployment, never per request.
	PasswordHashCost = 10

	// Input shape limits enforced at signup.
	MinUsernameLength = 3
	MinPasswordLength = 6
	MaxUsernameLength = 64

	// Timeout contracts
	PostgresTimeout = 5 * time.Second
	SQLiteTimeout   = 2 * time.Second

	// Graceful shutdown
	GracefulShutdownTimeout = 30 * time.Second
	ShutdownDrainDelay      = 2 * time.Second
	ShutdownHTTPTimeout     = 10 * time.Second
	ShutdownOTELTimeout     = 5 * time.Second
)

// TokenTransport selects how tokens travel between client and server.
// Exactly one mode is active per deployment; mixing modes is unsupported.
type TokenTransport string

const (
	// TransportHeader reads the access token from "Authorization: Bearer"
	// and returns token pairs in response bodies.
	TransportHeader TokenTransport = "header"

	// TransportCookie reads and writes HTTP-only, secure, SameSite cookies
	// named "accessToken" and "refreshToken".
	TransportCookie TokenTransport = "cookie"
)

// IsValidTokenTransport checks if a transport mode is supported.
func IsValidTokenTransport(t TokenTransport) bool {
	return t == TransportHeader || t == TransportCookie
}

// StorageBackend selects the user-state storage gateway implementation.
// Resolved once at startup, never per request.
type StorageBackend string

const (
	StorageBackendPostgres StorageBackend = "postgres"
	StorageBackendSQLite   StorageBackend = "sqlite"
)

// IsValidStorageBackend checks if a storage backend is supported.
func IsValidStorageBackend(b StorageBackend) bool {
	return b == StorageBackendPostgres || b == StorageBackendSQLite
}
