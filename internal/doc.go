// Package internal provides the core types and implementation of the quill
// web layer.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/quill" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: HTTP routing, middleware, health endpoints and graceful shutdown
//   - Context: request/response access; it is also a context.Context
//   - Router: declares routes, either as plain HandlerFuncs or as endpoints via Handle
//   - Args: the arguments bound for an endpoint call
//   - Middleware: wraps handlers to add cross-cutting concerns
//   - APIError / HTTPError: errors rendered by DefaultErrorHandler
//
// # Endpoints
//
// Router.Handle registers an EndpointFunc together with an explicit declaration
// of its arguments:
//
//	r.Handle(http.MethodGet, "/api/blogs/{id}", h.getBlog, quill.PathParams("id"))
//	r.Handle(http.MethodGet, "/", h.index, quill.Optional("page", "1"))
//	r.Handle(http.MethodPost, "/api/users", h.register,
//	    quill.Required("email", "name", "passwd"), quill.WithRequest())
//
// The declaration is validated against the pattern when the route is
// registered: every {param} must be declared with PathParams, every path
// param must exist in the pattern, and no name may be declared twice. A bad
// declaration panics.
//
// On dispatch each declared name is bound from, in order, the path capture,
// the body parsed by the body middleware (stored under BodyKey), the query
// string and finally the declared default. A missing Required argument fails
// with a value:invalid APIError before the endpoint runs.
//
// # Response coercion
//
// The value returned by an endpoint is written by Respond:
//
//	return "redirect:/signin", nil                       // 302
//	return internal.M{"__template__": "blogs.html"}, nil // rendered page
//	return internal.M{"blogs": blogs}, nil               // JSON
//	return http.StatusNoContent, nil                     // bare status
//	return internal.Status{Code: 409, Message: "taken"}, nil
//
// Values implementing Responder write their own response.
//
// # Errors
//
// Returning an error hands it to the error handler. DefaultErrorHandler writes
// an APIError as JSON {"error", "data", "message"} with its status code, an
// HTTPError as plain text, and anything else as a logged 500.
package internal
