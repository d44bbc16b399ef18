package internal

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
)

var (
	ErrUndeclaredPathParam = errors.New("path parameter is not declared")
	ErrUnknownPathParam    = errors.New("declared path parameter is not in the pattern")
	ErrDuplicateArg        = errors.New("argument is declared more than once")
	ErrEmptyArgName        = errors.New("argument name is empty")
)

// BindOption declares how a route registered with Router.Handle receives its arguments.
type BindOption func(*binding)

type optionalArg struct {
	def  any
	name string
}

type binding struct {
	path        []string
	required    []string
	optional    []optionalArg
	middlewares []Middleware
	withRequest bool
}

// PathParams declares arguments captured from the route pattern.
// Every {name} in the pattern must be declared, and every declared name
// must appear in the pattern.
func PathParams(names ...string) BindOption {
	return func(b *binding) {
		b.path = append(b.path, names...)
	}
}

// Required declares arguments that must be present in the body or query string.
// A request without one fails with a value:invalid APIError.
func Required(names ...string) BindOption {
	return func(b *binding) {
		b.required = append(b.required, names...)
	}
}

// Optional declares an argument that falls back to def when absent.
func Optional(name string, def any) BindOption {
	return func(b *binding) {
		b.optional = append(b.optional, optionalArg{name: name, def: def})
	}
}

// WithRequest exposes the request Context through Args.Request.
func WithRequest() BindOption {
	return func(b *binding) {
		b.withRequest = true
	}
}

// Use adds route-specific middleware.
func Use(mw ...Middleware) BindOption {
	return func(b *binding) {
		b.middlewares = append(b.middlewares, mw...)
	}
}

func newBinding(opts ...BindOption) *binding {
	b := &binding{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ValidateRoute checks a route declaration against its pattern.
// Router.Handle panics with the same error.
func ValidateRoute(pattern string, opts ...BindOption) error {
	return newBinding(opts...).validate(pattern)
}

func (b *binding) validate(pattern string) error {
	seen := make(map[string]struct{})
	declare := func(name string) error {
		if name == "" {
			return ErrEmptyArgName
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateArg, name)
		}
		seen[name] = struct{}{}
		return nil
	}

	var errs []error
	for _, name := range b.path {
		errs = append(errs, declare(name))
	}
	for _, name := range b.required {
		errs = append(errs, declare(name))
	}
	for _, o := range b.optional {
		errs = append(errs, declare(o.name))
	}

	inPattern := patternParams(pattern)
	declared := make(map[string]struct{}, len(b.path))
	for _, name := range b.path {
		declared[name] = struct{}{}
		if _, ok := inPattern[name]; !ok && name != "" {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownPathParam, name))
		}
	}
	for name := range inPattern {
		if _, ok := declared[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUndeclaredPathParam, name))
		}
	}

	return errors.Join(errs...)
}

// patternParams returns the names of the {name} and {name:regexp} segments of
// a chi route pattern. Braces inside a regexp are balanced.
func patternParams(pattern string) map[string]struct{} {
	params := make(map[string]struct{})
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '{' {
			continue
		}
		depth := 1
		j := i + 1
		for ; j < len(pattern) && depth > 0; j++ {
			switch pattern[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
		}
		inner := pattern[i+1 : max(j-1, i+1)]
		if name, _, _ := strings.Cut(inner, ":"); name != "" {
			params[name] = struct{}{}
		}
		i = j - 1
	}
	return params
}

// bind resolves every declared argument for the request. Precedence is
// path capture, then parsed body, then query string, then declared default.
func (b *binding) bind(c Context) (Args, error) {
	values := make(map[string]any, len(b.path)+len(b.required)+len(b.optional))
	for _, name := range b.path {
		values[name] = c.Param(name)
	}

	body, _ := c.Get(BodyKey{}).(map[string]any)
	query := c.Request().URL.Query()
	lookup := func(name string) (any, bool) {
		if v, ok := body[name]; ok {
			return v, true
		}
		if v := query.Get(name); v != "" {
			return v, true
		}
		return nil, false
	}

	for _, name := range b.required {
		v, ok := lookup(name)
		if !ok {
			return Args{}, ErrValueInvalid(name, "missing argument")
		}
		values[name] = v
	}
	for _, o := range b.optional {
		if v, ok := lookup(o.name); ok {
			values[o.name] = v
			continue
		}
		values[o.name] = o.def
	}

	in := Args{values: values}
	if b.withRequest {
		in.req = c
	}
	return in, nil
}

// Args holds the arguments bound for an endpoint call.
type Args struct {
	values map[string]any
	req    Context
}

// NewArgs builds Args directly, for calling endpoints outside of a request.
func NewArgs(values map[string]any, req Context) Args {
	return Args{values: maps.Clone(values), req: req}
}

// Request returns the request Context when the route was declared WithRequest,
// nil otherwise.
func (a Args) Request() Context {
	return a.req
}

// Lookup returns the raw value of an argument.
func (a Args) Lookup(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Get returns the raw value of an argument, or nil.
func (a Args) Get(name string) any {
	return a.values[name]
}

// Has reports whether the argument was bound to a non-nil value.
func (a Args) Has(name string) bool {
	return a.values[name] != nil
}

// Values returns a copy of all bound arguments.
func (a Args) Values() map[string]any {
	return maps.Clone(a.values)
}

// String returns the argument as a string. Non-string values are formatted
// with fmt.Sprint; a missing or nil value yields "".
func (a Args) String(name string) string {
	switch v := a.values[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		if len(v) == 0 {
			return ""
		}
		return v[0]
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the argument as an int, or def when it is missing or not numeric.
func (a Args) Int(name string, def int) int {
	switch v := a.values[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, ok := convertParam[int](strings.TrimSpace(v)); ok {
			return n
		}
	}
	return def
}

// Bool returns the argument as a bool. Strings are parsed with
// strconv.ParseBool; "on" (an HTML checkbox) counts as true.
func (a Args) Bool(name string) bool {
	switch v := a.values[name].(type) {
	case bool:
		return v
	case string:
		if strings.EqualFold(v, "on") {
			return true
		}
		b, _ := strconv.ParseBool(v)
		return b
	case float64:
		return v != 0
	}
	return false
}
