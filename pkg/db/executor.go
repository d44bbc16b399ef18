package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/quill/pkg/logger"
)

// Row is a single result row keyed by column name.
type Row = map[string]any

// Executor runs SQL written with '?' placeholders against an Acquirer.
// Each call borrows one connection for its duration.
//
// Statements run detached from the caller's cancellation once a connection is
// held, so a client disconnect never leaves a write half-applied. Use
// WithStatementTimeout to bound them instead.
type Executor struct {
	acquirer   Acquirer
	logger     *slog.Logger
	timeout    time.Duration
	autoCommit bool
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger sets the logger used for statement tracing and failures.
func WithLogger(l *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithAutoCommit overrides the pool's default commit mode.
func WithAutoCommit(on bool) ExecutorOption {
	return func(e *Executor) {
		e.autoCommit = on
	}
}

// WithStatementTimeout bounds every statement. Zero disables the limit.
func WithStatementTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = max(d, 0)
	}
}

// NewExecutor creates an executor. When a is a *Pool, its AutoCommit setting
// is the default commit mode; otherwise autocommit is on.
func NewExecutor(a Acquirer, opts ...ExecutorOption) *Executor {
	e := &Executor{
		acquirer:   a,
		logger:     logger.NewNope(),
		autoCommit: true,
	}
	if p, ok := a.(*Pool); ok {
		e.autoCommit = p.AutoCommit()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Select runs a query and returns at most size rows. A size of zero or less
// returns every row.
func (e *Executor) Select(ctx context.Context, query string, args []any, size int) ([]Row, error) {
	if e == nil || e.acquirer == nil {
		return nil, ErrPoolNotInitialized
	}

	sql := Rebind(query)
	e.logger.DebugContext(ctx, "sql select", slog.String("sql", sql), slog.Int("args", len(args)))

	var result []Row
	err := e.acquirer.Acquire(ctx, func(conn Conn) error {
		qctx, cancel := e.statementContext(ctx)
		defer cancel()

		rows, err := conn.Query(qctx, sql, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			row, err := pgx.RowToMap(rows)
			if err != nil {
				return err
			}
			result = append(result, row)
			if size > 0 && len(result) >= size {
				break
			}
		}
		rows.Close()
		return rows.Err()
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "sql select failed", slog.String("sql", sql), slog.String("error", err.Error()))
		return nil, errors.Join(ErrQuery, err)
	}

	e.logger.DebugContext(ctx, "sql select done", slog.Int("rows", len(result)))
	return result, nil
}

// Execute runs a write statement and returns the affected row count.
// Without autocommit the statement runs in its own transaction that is
// committed on success and rolled back on failure.
func (e *Executor) Execute(ctx context.Context, query string, args []any) (int64, error) {
	if e == nil || e.acquirer == nil {
		return 0, ErrPoolNotInitialized
	}
	if !e.autoCommit {
		return e.ExecuteTx(ctx, query, args)
	}

	sql := Rebind(query)
	e.logger.DebugContext(ctx, "sql execute", slog.String("sql", sql), slog.Int("args", len(args)))

	var affected int64
	err := e.acquirer.Acquire(ctx, func(conn Conn) error {
		qctx, cancel := e.statementContext(ctx)
		defer cancel()

		tag, err := conn.Exec(qctx, sql, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "sql execute failed", slog.String("sql", sql), slog.String("error", err.Error()))
		return 0, errors.Join(ErrExec, err)
	}
	return affected, nil
}

// ExecuteTx runs a write statement inside an explicit transaction regardless
// of the autocommit setting.
func (e *Executor) ExecuteTx(ctx context.Context, query string, args []any) (int64, error) {
	if e == nil || e.acquirer == nil {
		return 0, ErrPoolNotInitialized
	}

	sql := Rebind(query)
	e.logger.DebugContext(ctx, "sql execute in transaction", slog.String("sql", sql), slog.Int("args", len(args)))

	var affected int64
	err := e.acquirer.Acquire(ctx, func(conn Conn) error {
		qctx, cancel := e.statementContext(ctx)
		defer cancel()

		return inTx(qctx, conn, func(tx pgx.Tx) error {
			tag, err := tx.Exec(qctx, sql, args...)
			if err != nil {
				return err
			}
			affected = tag.RowsAffected()
			return nil
		})
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "sql execute failed", slog.String("sql", sql), slog.String("error", err.Error()))
		return 0, errors.Join(ErrExec, err)
	}
	return affected, nil
}

func (e *Executor) statementContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if e.timeout > 0 {
		return context.WithTimeout(ctx, e.timeout)
	}
	return ctx, func() {}
}
