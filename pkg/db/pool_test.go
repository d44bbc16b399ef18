package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/quill/pkg/db"
)

func TestPoolNotInitialized(t *testing.T) {
	t.Parallel()

	var nilPool *db.Pool
	for name, p := range map[string]*db.Pool{"nil": nilPool, "zero": {}} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			called := false
			err := p.Acquire(context.Background(), func(db.Conn) error {
				called = true
				return nil
			})
			require.ErrorIs(t, err, db.ErrPoolNotInitialized)
			require.False(t, called)

			require.ErrorIs(t, p.Ping(context.Background()), db.ErrPoolNotInitialized)
			require.False(t, p.AutoCommit())
			require.Nil(t, p.Stat())
			require.NotPanics(t, p.Close)

			err = db.Healthcheck(p)(context.Background())
			require.ErrorIs(t, err, db.ErrHealthcheckFailed)
			require.ErrorIs(t, err, db.ErrPoolNotInitialized)

			require.NoError(t, db.Shutdown(p)(context.Background()))
		})
	}
}

func TestConnect(t *testing.T) {
	t.Parallel()

	unreachable := func() db.Config {
		cfg := db.DefaultConfig()
		cfg.Host = "127.0.0.1"
		cfg.Port = 1
		cfg.Name = "quill"
		cfg.MinSize = 0
		cfg.RetryAttempts = 1
		cfg.RetryInterval = time.Millisecond
		return cfg
	}

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()

		pool, err := db.Connect(context.Background(), unreachable())
		require.ErrorIs(t, err, db.ErrFailedToOpenDBConnection)
		require.Nil(t, pool)
	})

	t.Run("context cancelled during backoff", func(t *testing.T) {
		t.Parallel()

		cfg := unreachable()
		cfg.RetryAttempts = 5
		cfg.RetryInterval = time.Hour

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		_, err := db.Connect(ctx, cfg)
		require.ErrorIs(t, err, db.ErrFailedToOpenDBConnection)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		cfg := unreachable()
		cfg.SSLMode = "bogus"

		_, err := db.Connect(context.Background(), cfg)
		require.ErrorIs(t, err, db.ErrFailedToParseDBConfig)
	})
}
