package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// WithTx executes fn within a database transaction on a connection borrowed
// from a.
// If fn returns an error, the transaction is rolled back.
// If fn panics, the transaction is rolled back and the panic is re-raised.
// If fn succeeds, the transaction is committed.
func WithTx(ctx context.Context, a Acquirer, fn func(tx pgx.Tx) error) error {
	if a == nil {
		return ErrPoolNotInitialized
	}
	return a.Acquire(ctx, func(conn Conn) error {
		return inTx(ctx, conn, fn)
	})
}

func inTx(ctx context.Context, conn Conn, fn func(tx pgx.Tx) error) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return errors.Join(ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrCommitTx, err)
	}
	return nil
}
