package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToParseDBConfig    = errors.New("db: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed        = errors.New("db: healthcheck failed")
	ErrPoolNotInitialized       = errors.New("db: connection pool is not initialized")
	ErrPoolClosed               = errors.New("db: connection pool is closed")
	ErrAcquireConn              = errors.New("db: failed to acquire connection")
	ErrQuery                    = errors.New("db: query failed")
	ErrExec                     = errors.New("db: statement failed")
	ErrBeginTx                  = errors.New("db: failed to begin transaction")
	ErrCommitTx                 = errors.New("db: failed to commit transaction")
)

// uniqueViolation is the SQLSTATE of a unique constraint failure.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err wraps a PostgreSQL unique constraint
// failure. When constraint is not empty the violated constraint must match it.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
