// Package handlers declares the blog's pages and JSON API.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/quill"
	"github.com/dmitrymomot/quill/blog/auth"
	"github.com/dmitrymomot/quill/pkg/logger"
	"github.com/dmitrymomot/quill/pkg/orm"
	"github.com/dmitrymomot/quill/pkg/pagination"
)

// DefaultSessionSecret signs session cookies when no secret is configured.
const DefaultSessionSecret = "Awesome"

type settings struct {
	logger     *slog.Logger
	now        func() time.Time
	secret     string
	cookieName string
	maxAge     int
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:     logger.NewNope(),
		now:        time.Now,
		secret:     DefaultSessionSecret,
		cookieName: auth.CookieName,
		maxAge:     auth.DefaultMaxAge,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures the page and API handlers.
type Option func(*settings)

// WithLogger sets the logger for handler events.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now when issuing session cookies.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSession sets the cookie signing secret and lifetime in seconds.
func WithSession(secret string, maxAge int) Option {
	return func(s *settings) {
		if secret != "" {
			s.secret = secret
		}
		if maxAge > 0 {
			s.maxAge = maxAge
		}
	}
}

// WithCookieName overrides auth.CookieName.
func WithCookieName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.cookieName = name
		}
	}
}

// pageIndex reads the "page" argument as a 1-based index.
func pageIndex(in quill.Args) int {
	return max(quill.Arg(in, "page", 1), 1)
}

// list returns one page of m, newest first.
func list(ctx context.Context, m *orm.Model, index int) (pagination.Page, []*orm.Record, error) {
	count, err := m.Count(ctx)
	if err != nil {
		return pagination.Page{}, nil, err
	}
	p := pagination.New(count, index)
	if p.Empty() {
		return p, []*orm.Record{}, nil
	}
	items, err := m.FindAll(ctx,
		orm.OrderBy("created_at desc"),
		orm.LimitOffset(p.Offset, p.Limit),
	)
	if err != nil {
		return pagination.Page{}, nil, err
	}
	return p, items, nil
}

// jsonRecord sends a single record as a JSON object.
func jsonRecord(rec *orm.Record) quill.Responder {
	return quill.ResponderFunc(func(c quill.Context) error {
		return c.JSON(http.StatusOK, rec)
	})
}

func requireAdmin(ctx context.Context) (*orm.Record, error) {
	user := auth.CurrentUser(ctx)
	if !auth.IsAdmin(user) {
		return nil, quill.ErrPermission("")
	}
	return user, nil
}
