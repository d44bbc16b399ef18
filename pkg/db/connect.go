package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/quill/pkg/logger"
)

// ConnectOption configures Connect.
type ConnectOption func(*connectOptions)

type connectOptions struct {
	logger *slog.Logger
}

// WithConnectLogger logs failed connection attempts.
func WithConnectLogger(l *slog.Logger) ConnectOption {
	return func(o *connectOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Connect establishes the connection pool with retry logic for reliable startup.
// Each attempt creates the pool and pings the server; attempt n waits
// n*RetryInterval before the next one. Returns ErrFailedToOpenDBConnection
// if the database stays unreachable.
func Connect(ctx context.Context, cfg Config, opts ...ConnectOption) (*Pool, error) {
	o := connectOptions{logger: logger.NewNope()}
	for _, opt := range opts {
		opt(&o)
	}

	connConfig, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	connConfig.MaxConns, connConfig.MinConns = cfg.poolBounds()
	if cfg.HealthCheckPeriod > 0 {
		connConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	if cfg.MaxConnIdleTime > 0 {
		connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.MaxConnLifetime > 0 {
		connConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	var lastErr error
	attempts := max(cfg.RetryAttempts, 1)
	for i := range attempts {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err == nil {
			// Verify with a real round trip to catch authentication and permission issues.
			if err = pool.Ping(ctx); err == nil {
				return &Pool{pool: pool, autoCommit: cfg.AutoCommit}, nil
			}
			pool.Close()
		}
		lastErr = err

		o.logger.WarnContext(ctx, "database connection attempt failed",
			slog.Int("attempt", i+1),
			slog.Int("attempts", attempts),
			slog.String("error", err.Error()),
		)
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrFailedToOpenDBConnection, lastErr)
}
