package handlers_test

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"regexp"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/quill"
	"github.com/dmitrymomot/quill/blog/auth"
	"github.com/dmitrymomot/quill/blog/handlers"
	"github.com/dmitrymomot/quill/blog/model"
	"github.com/dmitrymomot/quill/blog/views"
	"github.com/dmitrymomot/quill/middlewares"
)

const testSecret = "test-secret"

var testNow = time.Unix(1_700_000_000, 0)

func clock() time.Time { return testNow }

// memDB understands the statements pkg/orm generates for single-table access.
type memDB struct {
	mu         sync.Mutex
	tables     map[string][]map[string]any
	insertErrs map[string]error
}

var (
	tableRe  = regexp.MustCompile(`(?:from|into|update) "(\w+)"`)
	whereRe  = regexp.MustCompile(` where "?(\w+)"?=\?`)
	insertRe = regexp.MustCompile(`\(([^)]*)\) values`)
	setRe    = regexp.MustCompile(` set (.*) where`)
)

func newMemDB() *memDB {
	return &memDB{tables: map[string][]map[string]any{}, insertErrs: map[string]error{}}
}

// failInserts makes every insert into table return err.
func (db *memDB) failInserts(table string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.insertErrs[table] = err
}

func (db *memDB) insert(table string, rows ...map[string]any) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, r := range rows {
		db.tables[table] = append(db.tables[table], maps.Clone(r))
	}
}

func (db *memDB) rows(table string) []map[string]any {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]map[string]any, 0, len(db.tables[table]))
	for _, r := range db.tables[table] {
		out = append(out, maps.Clone(r))
	}
	return out
}

func (db *memDB) row(table, id string) map[string]any {
	for _, r := range db.rows(table) {
		if r["id"] == id {
			return r
		}
	}
	return nil
}

func (db *memDB) Select(_ context.Context, query string, args []any, size int) ([]map[string]any, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	table := tableRe.FindStringSubmatch(query)[1]
	var matched []map[string]any
	where := whereRe.FindStringSubmatch(query)
	for _, r := range db.tables[table] {
		if where != nil && fmt.Sprint(r[where[1]]) != fmt.Sprint(args[0]) {
			continue
		}
		matched = append(matched, maps.Clone(r))
	}

	if strings.Contains(query, `as "_num_"`) {
		return []map[string]any{{"_num_": int64(len(matched))}}, nil
	}
	if strings.Contains(query, "order by created_at desc") {
		slices.SortStableFunc(matched, func(a, b map[string]any) int {
			return cmp.Compare(b["created_at"].(float64), a["created_at"].(float64))
		})
	}

	offset, limit := 0, len(matched)
	switch {
	case strings.Contains(query, " limit ? offset ?"):
		limit, offset = args[len(args)-2].(int), args[len(args)-1].(int)
	case strings.Contains(query, " limit ?"):
		limit = args[len(args)-1].(int)
	}
	offset = min(offset, len(matched))
	matched = matched[offset:min(offset+limit, len(matched))]
	if size > 0 && len(matched) > size {
		matched = matched[:size]
	}
	return matched, nil
}

func (db *memDB) Execute(_ context.Context, query string, args []any) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	table := tableRe.FindStringSubmatch(query)[1]
	switch {
	case strings.HasPrefix(query, "insert"):
		if err := db.insertErrs[table]; err != nil {
			return 0, err
		}
		row := map[string]any{}
		for i, col := range columns(insertRe.FindStringSubmatch(query)[1]) {
			row[col] = args[i]
		}
		db.tables[table] = append(db.tables[table], row)
		return 1, nil
	case strings.HasPrefix(query, "update"):
		pk := args[len(args)-1]
		for _, r := range db.tables[table] {
			if r["id"] == pk {
				for i, col := range columns(strings.ReplaceAll(setRe.FindStringSubmatch(query)[1], "=?", "")) {
					r[col] = args[i]
				}
				return 1, nil
			}
		}
		return 0, nil
	case strings.HasPrefix(query, "delete"):
		rows := db.tables[table]
		for i, r := range rows {
			if r["id"] == args[0] {
				db.tables[table] = slices.Delete(rows, i, i+1)
				return 1, nil
			}
		}
		return 0, nil
	}
	return 0, fmt.Errorf("memdb: unsupported statement %q", query)
}

func columns(list string) []string {
	var cols []string
	for c := range strings.SplitSeq(list, ",") {
		cols = append(cols, strings.Trim(strings.TrimSpace(c), `"`))
	}
	return cols
}

// clientHash is what the browser sends as passwd for a plain password.
func clientHash(plain string) string {
	return auth.HashPassword("client", plain)
}

func seedUser(db *memDB, id, email string, admin bool) map[string]any {
	u := map[string]any{
		"id":         id,
		"email":      email,
		"passwd":     auth.HashPassword(id, clientHash("secret")),
		"admin":      admin,
		"name":       strings.Split(email, "@")[0],
		"image":      "http://example.com/" + id + ".png",
		"created_at": float64(testNow.Unix() - 1000),
	}
	db.insert("users", u)
	return u
}

func seedBlog(db *memDB, id, name string, age time.Duration) {
	db.insert("blogs", map[string]any{
		"id":         id,
		"user_id":    "admin1",
		"user_name":  "admin",
		"user_image": "",
		"name":       name,
		"summary":    "about " + name,
		"content":    "# " + name + "\n\nbody of *" + name + "*",
		"created_at": float64(testNow.Add(-age).Unix()),
	})
}

type testServer struct {
	t     *testing.T
	db    *memDB
	app   http.Handler
	store *model.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := newMemDB()
	seedUser(db, "admin1", "admin@example.com", true)
	seedUser(db, "user1", "user@example.com", false)

	store := model.NewStore(db, nil)
	resolver := auth.NewResolver(store.Users, testSecret, auth.WithClock(clock))
	opts := []handlers.Option{
		handlers.WithClock(clock),
		handlers.WithSession(testSecret, 3600),
	}
	app := quill.New(
		quill.WithMiddleware(
			middlewares.Auth(resolver.User, middlewares.WithAuthorize(auth.IsAdmin)),
			middlewares.BodyParser(),
		),
		quill.WithRenderer(views.New(views.WithClock(clock))),
		quill.WithHandlers(
			handlers.NewPages(store, opts...),
			handlers.NewAPI(store, opts...),
		),
	)
	return &testServer{t: t, db: db, app: app, store: store}
}

// session returns a cookie value signing in the seeded user id.
func (s *testServer) session(id string) string {
	s.t.Helper()
	user, err := s.store.Users.Find(context.Background(), id)
	require.NoError(s.t, err)
	return auth.Encode(user, 3600, testSecret, testNow)
}

func (s *testServer) do(method, target string, body any, session string, header ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		req = httptest.NewRequest(method, target, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: session})
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.app.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireAPIError(t *testing.T, rec *httptest.ResponseRecorder, status int, kind, data, message string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decodeJSON(t, rec)
	require.Equal(t, kind, body["error"])
	require.Equal(t, data, body["data"])
	require.Equal(t, message, body["message"])
}
