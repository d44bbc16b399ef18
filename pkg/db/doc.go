// Package db provides the PostgreSQL connection pool and query executor.
//
// The package wraps [github.com/jackc/pgx/v5/pgxpool]. A single Pool is created
// at startup with Connect and shared by the whole process:
//
//	cfg := db.DefaultConfig()
//	cfg.User, cfg.Password, cfg.Name = "www-data", "www-data", "awesome"
//
//	pool, err := db.Connect(ctx, cfg, db.WithConnectLogger(log))
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
// Connect retries with a linear backoff (RetryAttempts, RetryInterval) and
// verifies each attempt with a ping, so it tolerates a database that is still
// starting.
//
// # Executing statements
//
// Executor accepts SQL written with '?' placeholders and rewrites them to
// PostgreSQL's $n form with Rebind before sending:
//
//	exec := db.NewExecutor(pool, db.WithLogger(log))
//	rows, err := exec.Select(ctx, `select * from "users" where "email"=?`, []any{email}, 1)
//	n, err := exec.Execute(ctx, `delete from "blogs" where "id"=?`, []any{id})
//
// Select returns rows as maps keyed by column name and stops after size rows.
// Execute returns the affected row count. With AutoCommit disabled every
// Execute runs in its own transaction; ExecuteTx forces that per call. WithTx
// runs arbitrary work in one transaction.
//
// Every operation borrows a connection through Pool.Acquire, which returns it
// on all exit paths. Operations on a nil or closed pool fail with
// ErrPoolNotInitialized or ErrPoolClosed.
//
// # Lifecycle
//
// Shutdown and Healthcheck adapt the pool to the application's shutdown hooks
// and readiness checks.
package db
