package orm_test

import (
	"context"
	"sync"

	"github.com/dmitrymomot/quill/pkg/orm"
)

type execCall struct {
	query string
	args  []any
	size  int
}

// fakeExecutor records statements and replays canned results.
type fakeExecutor struct {
	err      error
	rows     []map[string]any
	selects  []execCall
	execs    []execCall
	affected int64
	mu       sync.Mutex
}

var _ orm.Executor = (*fakeExecutor)(nil)

func newFakeExecutor(rows ...map[string]any) *fakeExecutor {
	return &fakeExecutor{rows: rows, affected: 1}
}

func (f *fakeExecutor) Select(_ context.Context, query string, args []any, size int) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.selects = append(f.selects, execCall{query: query, args: args, size: size})
	if f.err != nil {
		return nil, f.err
	}
	rows := f.rows
	if size > 0 && len(rows) > size {
		rows = rows[:size]
	}
	return rows, nil
}

func (f *fakeExecutor) Execute(_ context.Context, query string, args []any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.execs = append(f.execs, execCall{query: query, args: args})
	if f.err != nil {
		return 0, f.err
	}
	return f.affected, nil
}

func (f *fakeExecutor) lastSelect() execCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selects[len(f.selects)-1]
}

func (f *fakeExecutor) lastExec() execCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.execs[len(f.execs)-1]
}

func blogSchema() *orm.Schema {
	return orm.MustSchema("blogs",
		orm.StringField("id", orm.AsPrimaryKey(), orm.WithType("varchar(50)")),
		orm.StringField("user_id"),
		orm.StringField("name"),
		orm.TextField("content"),
		orm.FloatField("created_at"),
	)
}
