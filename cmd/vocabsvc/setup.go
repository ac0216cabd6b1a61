package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vocablearn/vocab-platform/internal/auth"
	"github.com/vocablearn/vocab-platform/internal/config"
	"github.com/vocablearn/vocab-platform/internal/domain"
	identityadapter "github.com/vocablearn/vocab-platform/internal/identity/adapter"
	identityapp "github.com/vocablearn/vocab-platform/internal/identity/app"
	identityport "github.com/vocablearn/vocab-platform/internal/identity/port"
	"github.com/vocablearn/vocab-platform/internal/postgres"
	progressadapter "github.com/vocablearn/vocab-platform/internal/progress/adapter"
	progressapp "github.com/vocablearn/vocab-platform/internal/progress/app"
	progressport "github.com/vocablearn/vocab-platform/internal/progress/port"
	"github.com/vocablearn/vocab-platform/internal/server"
)

// buildHandler is the service composition root. It runs migrations, creates
// infrastructure clients, wires adapters into the app services, and mounts
// the HTTP handlers. The returned cleanup closes what setup opened.
func buildHandler(ctx context.Context, cfg *config.Config, logger *slog.Logger) (http.Handler, server.CleanupFunc, error) {
	if err := fillLocalSecrets(cfg, logger); err != nil {
		return nil, nil, err
	}

	// 1. Relational store of record.
	if err := postgres.Migrate(cfg.Postgres.DSN); err != nil {
		return nil, nil, fmt.Errorf("setup: migrate: %w", err)
	}
	pool, err := postgres.NewPool(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
		Logger:   logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("setup: connect postgres: %w", err)
	}

	clock := domain.RealClock{}

	// 2. Credential primitives.
	minter := auth.NewMinter(auth.MinterConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
		Issuer:        cfg.Auth.Issuer,
		Clock:         clock,
	})
	validator := auth.NewValidator(auth.ValidatorConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		Issuer:        cfg.Auth.Issuer,
		Clock:         clock,
	})

	// 3. Identity: adapters, service, HTTP port.
	authService := identityapp.NewAuthService(identityapp.AuthServiceConfig{
		UserStore: identityadapter.NewUserStore(pool),
		Ledger:    identityadapter.NewRefreshLedger(pool),
		Hasher:    auth.NewBcryptHasher(),
		Minter:    minter,
		Validator: validator,
		Clock:     clock,
		Logger:    logger,
	})
	transport := identityport.NewTokenTransport(identityport.TokenTransportConfig{
		Mode:         cfg.TokenTransport(),
		CookieDomain: cfg.Auth.CookieDomain,
		Secure:       cfg.Auth.SecureCookies,
		AccessTTL:    cfg.Auth.AccessTTL,
		RefreshTTL:   cfg.Auth.RefreshTTL,
	})
	middleware := identityport.NewMiddleware(validator, transport)

	// 4. Progress: storage gateway backend per config.
	var progressStore progressapp.Store
	var closeStore func() error
	switch cfg.StorageBackend() {
	case domain.StorageBackendSQLite:
		sqliteStore, sqliteErr := progressadapter.NewSQLiteStore(cfg.Storage.SQLitePath)
		if sqliteErr != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("setup: open sqlite store: %w", sqliteErr)
		}
		progressStore = sqliteStore
		closeStore = sqliteStore.Close
	default:
		progressStore = progressadapter.NewPostgresStore(pool)
	}
	storageService := progressapp.NewStorageService(progressStore, clock, logger)

	// 5. HTTP routes.
	router := mux.NewRouter()
	identityport.NewAuthHandler(authService, transport, middleware).Register(router)
	progressport.NewStorageHandler(storageService, middleware).Register(router)

	logger.Info("service wired",
		slog.String("token_transport", string(cfg.TokenTransport())),
		slog.String("storage_backend", string(cfg.StorageBackend())),
	)

	cleanup := func(context.Context) error {
		pool.Close()
		if closeStore != nil {
			return closeStore()
		}
		return nil
	}
	return router, cleanup, nil
}

// fillLocalSecrets generates throwaway signing secrets for local runs that
// did not set any. Tokens do not survive a restart in this mode. Outside
// local, config validation has already required real secrets.
func fillLocalSecrets(cfg *config.Config, logger *slog.Logger) error {
	if !cfg.IsLocal() || cfg.Auth.AccessSecret != "" {
		return nil
	}

	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("setup: generate local secrets: %w", err)
	}
	cfg.Auth.AccessSecret = hex.EncodeToString(buf[:32])
	cfg.Auth.RefreshSecret = hex.EncodeToString(buf[32:])

	logger.Warn("no signing secrets configured, generated ephemeral local secrets")
	return nil
}
