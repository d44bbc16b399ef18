package db

import (
	"context"
	"errors"
)

// Healthcheck returns a readiness check that pings the pool.
//
//	quill.WithHealthChecks(quill.WithReadinessCheck("db", db.Healthcheck(pool)))
func Healthcheck(pool *Pool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
