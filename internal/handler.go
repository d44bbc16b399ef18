package internal

import "context"

// Handler declares routes on a router.
//
// Example:
//
//	type BlogHandler struct {
//	    store *model.Store
//	}
//
//	func (h *BlogHandler) Routes(r quill.Router) {
//	    r.Handle(http.MethodGet, "/api/blogs/{id}", h.getBlog, quill.PathParams("id"))
//	    r.Handle(http.MethodPost, "/api/blogs", h.createBlog, quill.Required("name", "summary", "content"))
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// It receives a Context and returns an error.
// Returning a non-nil error triggers the error handler.
type HandlerFunc func(c Context) error

// EndpointFunc is the signature for routes registered with Router.Handle.
// It receives the request context and the arguments bound according to the
// route's declaration. The returned value is turned into a response by
// coercion rules (see Respond); a returned error goes to the error handler.
type EndpointFunc func(ctx context.Context, in Args) (any, error)

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect/modify the request, short-circuit processing,
// or wrap the response.
//
// Example:
//
//	func AdminOnly(next quill.HandlerFunc) quill.HandlerFunc {
//	    return func(c quill.Context) error {
//	        if !auth.IsAdmin(auth.CurrentUser(c)) {
//	            return c.Redirect(http.StatusFound, "/signin")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error

// BodyKey is the context key under which the body parser stores the decoded
// request body as map[string]any.
type BodyKey struct{}

// UserKey is the context key under which authentication stores the current user.
type UserKey struct{}
