// Package views renders the blog pages.
//
// Pages are templ components declared in the .templ files of this package.
// Each template name accepted by the Renderer maps to one page function that
// turns the map the endpoint returned into the component's typed arguments.
package views

//go:generate go tool templ generate

import (
	"embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/quill"
	"github.com/dmitrymomot/quill/pkg/orm"
	"github.com/dmitrymomot/quill/pkg/pagination"
)

// ErrUnknownTemplate is returned for a template name with no page.
var ErrUnknownTemplate = errors.New("views: unknown template")

// Static holds the stylesheet and scripts the pages link to.
//
//go:embed static
var Static embed.FS

// DefaultSiteName is shown in the title and the navigation bar.
const DefaultSiteName = "Awesome Blog"

type page func(r *Renderer, data quill.M) templ.Component

var pages = map[string]page{
	"blogs.html":            (*Renderer).blogs,
	"blog.html":             (*Renderer).blog,
	"register.html":         (*Renderer).register,
	"signin.html":           (*Renderer).signin,
	"manage_blogs.html":     (*Renderer).manageBlogs,
	"manage_comments.html":  (*Renderer).manageComments,
	"manage_users.html":     (*Renderer).manageUsers,
	"manage_blog_edit.html": (*Renderer).manageBlogEdit,
}

// Renderer implements quill.Renderer for the blog templates.
type Renderer struct {
	now      func() time.Time
	siteName string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock replaces time.Now when formatting relative dates.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithSiteName overrides DefaultSiteName.
func WithSiteName(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.siteName = name
		}
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{now: time.Now, siteName: DefaultSiteName}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Templates lists the names Component accepts.
func Templates() []string {
	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	return names
}

// Component resolves name into a page component bound to data.
func (r *Renderer) Component(name string, data quill.M) (quill.Component, error) {
	p, ok := pages[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return p(r, data), nil
}

func record(data quill.M, key string) *orm.Record {
	r, _ := data[key].(*orm.Record)
	return r
}

func records(data quill.M, key string) []*orm.Record {
	rs, _ := data[key].([]*orm.Record)
	return rs
}

func pageOf(data quill.M) pagination.Page {
	if p, ok := data["page"].(pagination.Page); ok {
		return p
	}
	return pagination.New(0, 1)
}

func intOf(data quill.M, key string, def int) int {
	switch v := data[key].(type) {
	case int:
		return v
	case string:
		return pagination.ParseIndex(v)
	}
	return def
}

func stringOf(data quill.M, key string) string {
	s, _ := data[key].(string)
	return s
}

func pageURL(base string, index int) string {
	return base + "?page=" + strconv.Itoa(index)
}
