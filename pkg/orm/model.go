package orm

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/dmitrymomot/quill/pkg/logger"
)

// numAlias is the column alias FindNumber selects its scalar into.
const numAlias = "_num_"

// Executor runs statements with "?" placeholders.
// It is satisfied by *db.Executor.
type Executor interface {
	Select(ctx context.Context, query string, args []any, size int) ([]map[string]any, error)
	Execute(ctx context.Context, query string, args []any) (int64, error)
}

// Model binds a Schema to an Executor and provides the active record
// operations for one entity type.
type Model struct {
	schema *Schema
	exec   Executor
	logger *slog.Logger
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithLogger sets the logger used for write-count diagnostics.
func WithLogger(l *slog.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewModel creates a Model for schema backed by exec.
func NewModel(schema *Schema, exec Executor, opts ...ModelOption) *Model {
	m := &Model{
		schema: schema,
		exec:   exec,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Schema returns the model's schema.
func (m *Model) Schema() *Schema { return m.schema }

// New creates an unsaved record holding a copy of values.
func (m *Model) New(values map[string]any) *Record {
	v := make(map[string]any, len(values))
	maps.Copy(v, values)
	return &Record{model: m, values: v}
}

// Find loads the record whose primary key equals pk.
// Returns ErrNotFound if no row matches.
func (m *Model) Find(ctx context.Context, pk any) (*Record, error) {
	q := fmt.Sprintf("%s where %s=?", m.schema.selectSQL, quoteIdent(m.schema.primaryKey))
	rows, err := m.sel(ctx, q, []any{pk}, 1)
	if err != nil {
		return nil, fmt.Errorf("orm: find %s: %w", m.schema.table, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return m.fromRow(rows[0]), nil
}

// FindOne loads the first record matching opts.
// Returns ErrNotFound if no row matches.
func (m *Model) FindOne(ctx context.Context, opts ...QueryOption) (*Record, error) {
	records, err := m.FindAll(ctx, append(slices.Clone(opts), Limit(1))...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

// FindAll loads every record matching opts.
func (m *Model) FindAll(ctx context.Context, opts ...QueryOption) ([]*Record, error) {
	q, err := buildQuery(opts)
	if err != nil {
		return nil, err
	}

	sql, args := q.apply(m.schema.selectSQL)
	rows, err := m.sel(ctx, sql, args, 0)
	if err != nil {
		return nil, fmt.Errorf("orm: find all %s: %w", m.schema.table, err)
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, m.fromRow(row))
	}
	return records, nil
}

// FindNumber evaluates an aggregate expression such as "count(id)" over
// the table. Only the Where option applies. found is false when the query
// returned no rows.
func (m *Model) FindNumber(ctx context.Context, expr string, opts ...QueryOption) (value any, found bool, err error) {
	q, err := buildQuery(opts)
	if err != nil {
		return nil, false, err
	}
	q.orderBy, q.limit = "", nil

	base := fmt.Sprintf("select %s as %s from %s", expr, quoteIdent(numAlias), quoteIdent(m.schema.table))
	sql, args := q.apply(base)
	rows, err := m.sel(ctx, sql, args, 1)
	if err != nil {
		return nil, false, fmt.Errorf("orm: find number %s: %w", m.schema.table, err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0][numAlias], true, nil
}

// Count returns the number of rows matching opts.
func (m *Model) Count(ctx context.Context, opts ...QueryOption) (int, error) {
	expr := fmt.Sprintf("count(%s)", quoteIdent(m.schema.primaryKey))
	v, found, err := m.FindNumber(ctx, expr, opts...)
	if err != nil || !found {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("orm: unexpected count type %T", v)
	}
}

func (m *Model) fromRow(row map[string]any) *Record {
	values := make(map[string]any, len(row))
	maps.Copy(values, row)
	return &Record{model: m, values: values}
}

func (m *Model) sel(ctx context.Context, query string, args []any, size int) ([]map[string]any, error) {
	if m.exec == nil {
		return nil, ErrNoExecutor
	}
	return m.exec.Select(ctx, query, args, size)
}

func (m *Model) execute(ctx context.Context, query string, args []any) (int64, error) {
	if m.exec == nil {
		return 0, ErrNoExecutor
	}
	return m.exec.Execute(ctx, query, args)
}

// checkAffected logs primary-key scoped writes that did not touch exactly one row.
func (m *Model) checkAffected(ctx context.Context, op string, n int64) {
	if n == 1 {
		return
	}
	m.logger.WarnContext(ctx, "unexpected affected row count",
		slog.String("table", m.schema.table),
		slog.String("op", op),
		slog.Int64("rows", n),
	)
}
