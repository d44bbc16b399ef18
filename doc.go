// Package quill is a small web framework for server-rendered sites with a
// JSON API next to them.
//
// Routes are declared on a Router by Handler values. An endpoint receives
// the request context and its bound arguments and returns a plain value;
// the framework turns that value into a response.
//
// # Endpoints
//
// Router.Handle registers an endpoint together with its binding declaration.
// Path parameters must be declared with PathParams, other arguments are
// Required or Optional and are looked up in the decoded body, then the query:
//
//	func (h *API) Routes(r quill.Router) {
//	    r.Handle(http.MethodGet, "/api/blogs", h.listBlogs, quill.Optional("page", "1"))
//	    r.Handle(http.MethodPost, "/api/blogs/{id}", h.updateBlog,
//	        quill.PathParams("id"),
//	        quill.Required("name", "summary", "content"),
//	    )
//	}
//
//	func (h *API) listBlogs(ctx context.Context, in quill.Args) (any, error) {
//	    ...
//	    return quill.M{"page": page, "blogs": blogs}, nil
//	}
//
// A missing required argument is reported as an APIError before the
// endpoint runs. Declarations that contradict the pattern panic at startup.
//
// # Responses
//
// The value returned by an endpoint is coerced by Respond:
//
//   - a Responder writes its own response
//   - []byte is sent as application/octet-stream
//   - "redirect:/path" is a 302, any other string is HTML
//   - an M with "__template__" is rendered by the configured Renderer,
//     any other M is JSON
//   - an int status code is sent with no body, a Status with its message
//
// # Errors
//
// Endpoints report client errors with ErrValueInvalid, ErrNotFound and
// ErrPermission. DefaultErrorHandler writes them as
// {"error": kind, "data": field, "message": text}.
//
// # Running
//
//	app := quill.New(
//	    quill.WithMiddleware(middlewares.RequestID(), middlewares.Logger()),
//	    quill.WithRenderer(views.New()),
//	    quill.WithHandlers(handlers.NewPages(store), handlers.NewAPI(store, sessions)),
//	)
//
//	if err := app.Run(":9000", quill.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
package quill
