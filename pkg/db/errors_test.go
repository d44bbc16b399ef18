package db_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/quill/pkg/db"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_email"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"direct", dup, "", true},
		{"wrapped", errors.Join(db.ErrExec, fmt.Errorf("insert: %w", dup)), "", true},
		{"matching constraint", dup, "idx_email", true},
		{"other constraint", dup, "idx_name", false},
		{"other sqlstate", &pgconn.PgError{Code: "23503"}, "", false},
		{"plain error", errors.New("boom"), "", false},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, db.IsUniqueViolation(tt.err, tt.constraint))
		})
	}
}
