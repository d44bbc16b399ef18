package internal

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strings"
)

// Reserved keys and prefixes understood by response coercion.
const (
	TemplateKey    = "__template__"
	TemplateUser   = "__user__"
	RedirectPrefix = "redirect:"
)

var (
	ErrNoRenderer      = errors.New("template response without a configured renderer")
	ErrInvalidTemplate = errors.New("template name must be a non-empty string")
)

// M is a shorthand for JSON objects and template data.
type M = map[string]any

// Responder writes its own response. Use it to stream a body or to take full
// control of headers.
type Responder interface {
	Respond(c Context) error
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(c Context) error

func (f ResponderFunc) Respond(c Context) error { return f(c) }

// Status is a status code with a plain text message.
type Status struct {
	Message string
	Code    int
}

// Renderer resolves a template name and its data into a component.
type Renderer interface {
	Component(name string, data M) (Component, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(name string, data M) (Component, error)

func (f RendererFunc) Component(name string, data M) (Component, error) { return f(name, data) }

// Respond turns an endpoint result into a response. The first matching rule wins:
//
//  1. A Responder, or a response already written, passes through.
//  2. []byte is sent as application/octet-stream.
//  3. A string prefixed with "redirect:" is a 302 to the rest of the string.
//  4. Any other string is sent as text/html.
//  5. A map with a "__template__" key is rendered by the renderer with the
//     current user under "__user__"; any other map is sent as JSON.
//  6. An int in [100, 600) is sent as a bare status.
//  7. A Status with a code in [100, 600) is sent with its message as body.
//  8. Anything else is formatted as text/plain.
//
// A nil result is sent as a JSON null.
func Respond(c Context, renderer Renderer, v any) error {
	if c.Written() {
		return nil
	}

	switch r := v.(type) {
	case nil:
		return c.JSON(http.StatusOK, nil)
	case Responder:
		return r.Respond(c)
	case []byte:
		return c.Blob(http.StatusOK, "application/octet-stream", r)
	case string:
		if target, ok := strings.CutPrefix(r, RedirectPrefix); ok {
			return c.Redirect(http.StatusFound, target)
		}
		return c.HTML(http.StatusOK, r)
	case map[string]any:
		if _, ok := r[TemplateKey]; ok {
			return renderTemplate(c, renderer, r)
		}
		return c.JSON(http.StatusOK, r)
	case int:
		if validStatus(r) {
			return c.NoContent(r)
		}
	case Status:
		if validStatus(r.Code) {
			return c.String(r.Code, r.Message)
		}
	}

	return c.String(http.StatusOK, fmt.Sprint(v))
}

func renderTemplate(c Context, renderer Renderer, data M) error {
	if renderer == nil {
		return ErrNoRenderer
	}
	name, ok := data[TemplateKey].(string)
	if !ok || name == "" {
		return ErrInvalidTemplate
	}

	data = maps.Clone(data)
	data[TemplateUser] = c.Get(UserKey{})

	component, err := renderer.Component(name, data)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, component)
}

func validStatus(code int) bool {
	return code >= 100 && code < 600
}
