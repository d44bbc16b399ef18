package db

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Conn is the part of a pooled connection the executor relies on.
// *pgxpool.Conn satisfies it.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Acquirer lends connections for the duration of a callback.
type Acquirer interface {
	Acquire(ctx context.Context, fn func(Conn) error) error
}

var _ Conn = (*pgxpool.Conn)(nil)

// Pool is the process-wide handle to a bounded set of PostgreSQL connections.
// Create it with Connect at startup and release it with Close (or Shutdown).
type Pool struct {
	pool       *pgxpool.Pool
	closed     atomic.Bool
	autoCommit bool
}

// Acquire checks out a connection, passes it to fn and returns it to the pool
// on every exit path, including panics. It blocks until a connection is free
// or ctx is done.
func (p *Pool) Acquire(ctx context.Context, fn func(Conn) error) error {
	if p == nil || p.pool == nil {
		return ErrPoolNotInitialized
	}
	if p.closed.Load() {
		return ErrPoolClosed
	}

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return errors.Join(ErrAcquireConn, err)
	}
	defer conn.Release()

	return fn(conn)
}

// Ping verifies a connection can be acquired and the server responds.
func (p *Pool) Ping(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return ErrPoolNotInitialized
	}
	if p.closed.Load() {
		return ErrPoolClosed
	}
	return p.pool.Ping(ctx)
}

// AutoCommit reports the configured default commit mode.
func (p *Pool) AutoCommit() bool {
	return p != nil && p.autoCommit
}

// Stat returns pool statistics, or nil for an uninitialized pool.
func (p *Pool) Stat() *pgxpool.Stat {
	if p == nil || p.pool == nil {
		return nil
	}
	return p.pool.Stat()
}

// Close releases all connections. Subsequent operations fail with ErrPoolClosed.
// Safe to call more than once.
func (p *Pool) Close() {
	if p == nil || p.pool == nil {
		return
	}
	if p.closed.CompareAndSwap(false, true) {
		p.pool.Close()
	}
}
