package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/quill/internal"
)

// requestVia creates an App with the given options, registers a handler at
// GET pattern, executes fn inside that handler, and sends a request. This lets
// tests exercise the real requestContext without accessing unexported symbols.
func requestVia(t *testing.T, pattern string, req *http.Request, opts []internal.Option, fn func(c internal.Context) error) *httptest.ResponseRecorder {
	t.Helper()

	h := &captureHandler{pattern: pattern, fn: fn}
	opts = append(opts, internal.WithHandlers(h))
	app := internal.New(opts...)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

type captureHandler struct {
	fn      func(c internal.Context) error
	pattern string
}

func (h *captureHandler) Routes(r internal.Router) {
	r.GET(h.pattern, h.fn)
}

// routes adapts a function to internal.Handler.
type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

type ctxKey struct{}

func TestTypedHelpers(t *testing.T) {
	t.Parallel()

	t.Run("ContextValue", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		requestVia(t, "/", req, nil, func(c internal.Context) error {
			require.Empty(t, internal.ContextValue[string](c, ctxKey{}))

			c.Set(ctxKey{}, "value")
			require.Equal(t, "value", internal.ContextValue[string](c, ctxKey{}))
			require.Zero(t, internal.ContextValue[int](c, ctxKey{}))
			return nil
		})
	})

	t.Run("Arg", func(t *testing.T) {
		t.Parallel()

		in := internal.NewArgs(map[string]any{
			"page":  "3",
			"count": 42,
			"json":  float64(7),
			"big":   int64(9),
			"flag":  "true",
			"bad":   "x",
			"ratio": " 1.5 ",
			"empty": "",
		}, nil)

		require.Equal(t, 3, internal.Arg(in, "page", 1))
		require.Equal(t, 42, internal.Arg(in, "count", 0))
		require.Equal(t, 7, internal.Arg(in, "json", 0))
		require.Equal(t, int64(9), internal.Arg(in, "big", int64(0)))
		require.Equal(t, "3", internal.Arg(in, "page", ""))
		require.True(t, internal.Arg(in, "flag", false))
		require.InDelta(t, 1.5, internal.Arg(in, "ratio", 0.0), 0)
		require.Equal(t, 1, internal.Arg(in, "missing", 1))
		require.Equal(t, 7, internal.Arg(in, "bad", 7))
		require.Equal(t, 5, internal.Arg(in, "empty", 5))
	})
}
