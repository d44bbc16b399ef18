package quill

import (
	"context"
	"io/fs"
	"log/slog"
	"net"
	"time"

	"github.com/dmitrymomot/quill/internal"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It manages HTTP routing, middleware, and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for low-level route handlers.
	HandlerFunc = internal.HandlerFunc

	// EndpointFunc is the signature for routes registered with Router.Handle.
	EndpointFunc = internal.EndpointFunc

	// Args holds the arguments bound for an endpoint call.
	Args = internal.Args

	// BindOption declares how a route binds its arguments.
	BindOption = internal.BindOption

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Component is the interface for renderable templates.
	Component = internal.Component

	// Renderer resolves template names into components.
	Renderer = internal.Renderer

	// RendererFunc adapts a function to Renderer.
	RendererFunc = internal.RendererFunc

	// Responder writes its own response.
	Responder = internal.Responder

	// ResponderFunc adapts a function to Responder.
	ResponderFunc = internal.ResponderFunc

	// Status is a status code with a plain text message.
	Status = internal.Status

	// M is a shorthand for JSON objects and template data.
	M = internal.M

	// APIError is an error reported to API clients as a JSON object.
	APIError = internal.APIError

	// HTTPError is an error carrying an HTTP status code.
	HTTPError = internal.HTTPError

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// CheckFunc is a readiness check.
	CheckFunc = internal.CheckFunc

	// ResponseWriter wraps http.ResponseWriter with status and size tracking.
	ResponseWriter = internal.ResponseWriter

	// Extractor pulls a value out of a request from the first matching source.
	Extractor = internal.Extractor

	// ExtractorSource is a single place a value may be read from.
	ExtractorSource = internal.ExtractorSource

	// UserKey is the context key of the current user.
	UserKey = internal.UserKey

	// BodyKey is the context key of the decoded request body.
	BodyKey = internal.BodyKey
)

// Reserved response keys.
const (
	TemplateKey    = internal.TemplateKey
	TemplateUser   = internal.TemplateUser
	RedirectPrefix = internal.RedirectPrefix
)

// API error kinds.
const (
	KindValueInvalid  = internal.KindValueInvalid
	KindValueNotFound = internal.KindValueNotFound
	KindPermission    = internal.KindPermission
)

// Errors
var (
	ErrNoRenderer          = internal.ErrNoRenderer
	ErrInvalidTemplate     = internal.ErrInvalidTemplate
	ErrStartupHook         = internal.ErrStartupHook
	ErrUndeclaredPathParam = internal.ErrUndeclaredPathParam
	ErrUnknownPathParam    = internal.ErrUnknownPathParam
	ErrDuplicateArg        = internal.ErrDuplicateArg
	ErrEmptyArgName        = internal.ErrEmptyArgName
)

// Constructors

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := quill.New(
//	    quill.WithMiddleware(middlewares.RequestID(), middlewares.Logger()),
//	    quill.WithRenderer(views.New()),
//	    quill.WithHandlers(handlers.NewPages(store), handlers.NewAPI(store, sessions)),
//	)
//
//	err := app.Run(":9000", quill.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// Respond turns an endpoint result into a response. See internal.Respond for
// the coercion rules.
func Respond(c Context, renderer Renderer, v any) error {
	return internal.Respond(c, renderer, v)
}

// Binding declarations

// PathParams declares arguments taken from the route pattern.
func PathParams(names ...string) BindOption {
	return internal.PathParams(names...)
}

// Required declares arguments that must be present in the body or query.
func Required(names ...string) BindOption {
	return internal.Required(names...)
}

// Optional declares an argument with a default value.
func Optional(name string, def any) BindOption {
	return internal.Optional(name, def)
}

// WithRequest passes the request Context to the endpoint through Args.Request.
func WithRequest() BindOption {
	return internal.WithRequest()
}

// Use attaches middleware to a single route.
func Use(mw ...Middleware) BindOption {
	return internal.Use(mw...)
}

// ValidateRoute checks a binding declaration against a route pattern.
func ValidateRoute(pattern string, opts ...BindOption) error {
	return internal.ValidateRoute(pattern, opts...)
}

// NewArgs builds Args directly, for calling endpoints outside of a request.
func NewArgs(values map[string]any, req Context) Args {
	return internal.NewArgs(values, req)
}

// API errors

// NewAPIError creates an APIError of an arbitrary kind.
func NewAPIError(kind, data, message string) *APIError {
	return internal.NewAPIError(kind, data, message)
}

// ErrValueInvalid reports an invalid or missing field.
func ErrValueInvalid(field, message string) *APIError {
	return internal.ErrValueInvalid(field, message)
}

// ErrNotFound reports a missing resource.
func ErrNotFound(field, message string) *APIError {
	return internal.ErrNotFound(field, message)
}

// ErrPermission reports a forbidden action.
func ErrPermission(message string) *APIError {
	return internal.ErrPermission(message)
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// AsAPIError extracts an APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	return internal.AsAPIError(err)
}

// AsHTTPError extracts an HTTPError from an error chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	return internal.AsHTTPError(err)
}

// DefaultErrorHandler writes APIErrors as JSON and everything else as an
// HTTP status. It is used unless WithErrorHandler replaces it.
func DefaultErrorHandler(c Context, err error) error {
	return internal.DefaultErrorHandler(c, err)
}

// App options

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled.
//
// Example:
//
//	quill.WithStaticFiles("/static/", views.Static, "static")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets a custom error handler for handler errors.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables health check endpoints with optional configuration.
//
// Example:
//
//	quill.WithHealthChecks(
//	    quill.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger sets the logger handed to request contexts.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithRenderer sets the renderer used for template responses.
func WithRenderer(r Renderer) Option {
	return internal.WithRenderer(r)
}

// WithSecureCookies marks cookies set through the Context as Secure.
func WithSecureCookies(secure bool) Option {
	return internal.WithSecureCookies(secure)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
func WithReadinessCheck(name string, fn CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server lifecycle logger.
// If nil, logging is disabled.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run before the server accepts requests.
//
// Example:
//
//	quill.StartupHook(func(ctx context.Context) error {
//	    return model.CreateTables(ctx, exec)
//	})
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks run in the order they were registered, after the server stops.
//
// Example:
//
//	quill.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context. Cancelling it shuts the server down.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// OnReady registers a callback receiving the bound address once the
// server listens.
func OnReady(fn func(net.Addr)) RunOption {
	return internal.OnReady(fn)
}

// Extractors

// NewExtractor combines sources into an Extractor.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return internal.FromHeader(name)
}

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource {
	return internal.FromQuery(name)
}

// FromCookie reads a cookie.
func FromCookie(name string) ExtractorSource {
	return internal.FromCookie(name)
}

// FromParam reads a route parameter.
func FromParam(name string) ExtractorSource {
	return internal.FromParam(name)
}

// FromBearerToken reads an Authorization bearer token.
func FromBearerToken() ExtractorSource {
	return internal.FromBearerToken()
}

// Typed helpers

// ContextValue retrieves a typed value stored with Context.Set or by a
// middleware.
func ContextValue[T any](ctx context.Context, key any) T {
	return internal.ContextValue[T](ctx, key)
}

// Arg returns a bound endpoint argument as T, or def when it is missing or
// unparsable.
func Arg[T ~string | ~int | ~int64 | ~float64 | ~bool](in Args, name string, def T) T {
	return internal.Arg(in, name, def)
}
