package orm

import (
	"fmt"
	"strings"
)

// QueryOption narrows a FindAll, FindOne or FindNumber query.
type QueryOption func(*query)

type query struct {
	err     error
	where   []string
	orderBy string
	args    []any
	limit   []int
}

// Where adds a filter condition using "?" placeholders for args.
// Repeated conditions are combined with "and", each in parentheses.
func Where(cond string, args ...any) QueryOption {
	return func(q *query) {
		q.where = append(q.where, cond)
		q.args = append(q.args, args...)
	}
}

// OrderBy sets the order by expression, e.g. "created_at desc".
func OrderBy(expr string) QueryOption {
	return func(q *query) {
		q.orderBy = expr
	}
}

// Limit caps the number of returned rows.
func Limit(count int) QueryOption {
	return func(q *query) {
		q.limit = []int{count}
	}
}

// LimitOffset skips offset rows and returns at most count rows.
func LimitOffset(offset, count int) QueryOption {
	return func(q *query) {
		q.limit = []int{offset, count}
	}
}

// LimitAny accepts a row cap as an int, or an (offset, count) pair as
// [2]int or a two-element []int. Any other shape fails the query with
// ErrInvalidLimit.
func LimitAny(v any) QueryOption {
	return func(q *query) {
		switch l := v.(type) {
		case int:
			q.limit = []int{l}
		case [2]int:
			q.limit = []int{l[0], l[1]}
		case []int:
			if len(l) == 2 {
				q.limit = []int{l[0], l[1]}
				return
			}
			q.err = fmt.Errorf("%w: %v", ErrInvalidLimit, v)
		default:
			q.err = fmt.Errorf("%w: %v", ErrInvalidLimit, v)
		}
	}
}

func buildQuery(opts []QueryOption) (*query, error) {
	q := &query{}
	for _, opt := range opts {
		opt(q)
	}
	if q.err != nil {
		return nil, q.err
	}
	for _, n := range q.limit {
		if n < 0 {
			return nil, fmt.Errorf("%w: negative value %d", ErrInvalidLimit, n)
		}
	}
	return q, nil
}

// apply appends where, order by and limit clauses, in that order, to base.
func (q *query) apply(base string) (string, []any) {
	var sb strings.Builder
	sb.WriteString(base)
	args := append([]any(nil), q.args...)

	switch len(q.where) {
	case 0:
	case 1:
		sb.WriteString(" where ")
		sb.WriteString(q.where[0])
	default:
		sb.WriteString(" where (")
		sb.WriteString(strings.Join(q.where, ") and ("))
		sb.WriteString(")")
	}
	if q.orderBy != "" {
		sb.WriteString(" order by ")
		sb.WriteString(q.orderBy)
	}
	switch len(q.limit) {
	case 1:
		sb.WriteString(" limit ?")
		args = append(args, q.limit[0])
	case 2:
		sb.WriteString(" limit ? offset ?")
		args = append(args, q.limit[1], q.limit[0])
	}
	return sb.String(), args
}
