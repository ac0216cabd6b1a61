// Package postgres provides the pgx connection pool and schema migrations
// for the relational store of record.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

const (
	connectBaseBackoff = 500 * time.Millisecond
	connectMaxRetries  = 6
)

// ClientConfig holds configuration for the connection pool.
type ClientConfig struct {
	DSN      string
	MaxConns int32
	Logger   *slog.Logger
}

// NewPool creates a pgx connection pool and verifies connectivity with a
// bounded exponential backoff. Startup is the only place we retry; request
// path failures surface immediately.
func NewPool(ctx context.Context, cfg ClientConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	backoff := retry.WithMaxRetries(connectMaxRetries, retry.NewExponential(connectBaseBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("postgres not ready, retrying", "error", pingErr)
			}
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}
