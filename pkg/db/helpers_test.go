package db_test

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/quill/pkg/db"
)

// fakeAcquirer hands out a single fakeConn and tracks checkouts.
type fakeAcquirer struct {
	conn     *fakeConn
	err      error
	mu       sync.Mutex
	acquired int
	released int
}

func (a *fakeAcquirer) Acquire(ctx context.Context, fn func(db.Conn) error) error {
	if a.err != nil {
		return a.err
	}
	a.mu.Lock()
	a.acquired++
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.released++
		a.mu.Unlock()
	}()
	return fn(a.conn)
}

type call struct {
	ctxErr error
	sql    string
	args   []any
}

type fakeConn struct {
	columns  []string
	rows     [][]any
	tag      pgconn.CommandTag
	execErr  error
	beginErr error
	tx       *fakeTx

	queries []call
	execs   []call
}

func (c *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.queries = append(c.queries, call{ctxErr: ctx.Err(), sql: sql, args: args})
	if c.execErr != nil {
		return nil, c.execErr
	}
	return &fakeRows{columns: c.columns, data: c.rows, pos: -1}, nil
}

func (c *fakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.execs = append(c.execs, call{ctxErr: ctx.Err(), sql: sql, args: args})
	return c.tag, c.execErr
}

func (c *fakeConn) Begin(ctx context.Context) (pgx.Tx, error) {
	if c.beginErr != nil {
		return nil, c.beginErr
	}
	if c.tx == nil {
		c.tx = &fakeTx{conn: c}
	}
	return c.tx, nil
}

// fakeTx forwards Exec to its connection and records how it ended.
type fakeTx struct {
	pgx.Tx
	conn       *fakeConn
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.conn.Exec(ctx, sql, args...)
}

func (t *fakeTx) Commit(context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

// fakeRows serves in-memory rows through the pgx.Rows surface RowToMap uses.
type fakeRows struct {
	pgx.Rows
	columns []string
	data    [][]any
	pos     int
	closed  bool
}

func (r *fakeRows) Next() bool {
	if r.closed || r.pos+1 >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Close()     { r.closed = true }
func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.columns))
	for i, name := range r.columns {
		fds[i] = pgconn.FieldDescription{Name: name}
	}
	return fds
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.pos], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) == 1 {
		if rs, ok := dest[0].(pgx.RowScanner); ok {
			return rs.ScanRow(r)
		}
	}
	return errors.New("fakeRows: unsupported scan target")
}
