package middlewares_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/dmitrymomot/quill/internal"
)

// testContext is a minimal internal.Context for calling middleware directly.
type testContext struct {
	response *internal.ResponseWriter
	request  *http.Request
	logger   *slog.Logger
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{
		response: internal.NewResponseWriter(w),
		request:  r,
		logger:   slog.New(slog.DiscardHandler),
	}
}

func get(target string) (*testContext, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return newTestContext(rec, httptest.NewRequest(http.MethodGet, target, nil)), rec
}

func (c *testContext) Deadline() (time.Time, bool)   { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}         { return c.request.Context().Done() }
func (c *testContext) Err() error                    { return c.request.Context().Err() }
func (c *testContext) Value(key any) any             { return c.request.Context().Value(key) }
func (c *testContext) Request() *http.Request        { return c.request }
func (c *testContext) Response() http.ResponseWriter { return c.response }
func (c *testContext) Context() context.Context      { return c.request.Context() }
func (c *testContext) Param(string) string           { return "" }
func (c *testContext) Query(name string) string      { return c.request.URL.Query().Get(name) }
func (c *testContext) Form(name string) string       { return c.request.FormValue(name) }
func (c *testContext) Header(name string) string     { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string)  { c.response.Header().Set(name, value) }

func (c *testContext) QueryDefault(name, defaultValue string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *testContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *testContext) String(code int, s string) error {
	return c.Blob(code, "text/plain", []byte(s))
}

func (c *testContext) HTML(code int, s string) error {
	return c.Blob(code, "text/html", []byte(s))
}

func (c *testContext) Blob(code int, contentType string, b []byte) error {
	c.response.Header().Set("Content-Type", contentType)
	c.response.WriteHeader(code)
	_, err := c.response.Write(b)
	return err
}

func (c *testContext) NoContent(code int) error { c.response.WriteHeader(code); return nil }

func (c *testContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *testContext) Error(code int, message string) *internal.HTTPError {
	return internal.NewHTTPError(code, message)
}

func (c *testContext) Render(code int, component internal.Component) error {
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *testContext) Written() bool                     { return c.response.Written() }
func (c *testContext) Logger() *slog.Logger              { return c.logger }
func (c *testContext) LogDebug(msg string, attrs ...any) { c.logger.Debug(msg, attrs...) }
func (c *testContext) LogInfo(msg string, attrs ...any)  { c.logger.Info(msg, attrs...) }
func (c *testContext) LogWarn(msg string, attrs ...any)  { c.logger.Warn(msg, attrs...) }
func (c *testContext) LogError(msg string, attrs ...any) { c.logger.Error(msg, attrs...) }

func (c *testContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *testContext) Get(key any) any { return c.request.Context().Value(key) }

func (c *testContext) Cookie(name string) (string, error) {
	ck, err := c.request.Cookie(name)
	if err != nil {
		return "", err
	}
	return ck.Value, nil
}

func (c *testContext) SetCookie(name, value string, maxAge int) {
	http.SetCookie(c.response, &http.Cookie{Name: name, Value: value, Path: "/", MaxAge: maxAge})
}

func (c *testContext) DeleteCookie(name string) { c.SetCookie(name, "", -1) }

func (c *testContext) ResponseWriter() *internal.ResponseWriter { return c.response }

var _ internal.Context = (*testContext)(nil)

func noop(internal.Context) error { return nil }
