// Package middlewares provides the HTTP middleware chain of a quill app.
//
// A blog server installs them in this order:
//
//	app := quill.New(
//	    quill.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Logger(middlewares.WithLogSkipPaths("/health/live")),
//	        middlewares.Recover(),
//	        middlewares.Auth(resolver.User),
//	        middlewares.BodyParser(),
//	    ),
//	)
//
// # Request ID
//
// RequestID keeps an ID sent by an upstream proxy or generates one, stores it
// in the request context and echoes it in X-Request-ID. Pass
// RequestIDExtractor to logger.New to add request_id to every record.
//
// # Logger
//
// Logger writes one record per request with method, path, status, size and
// duration. The level follows the status: 5xx is error, 4xx is warn.
//
// # Recover
//
// Recover converts panics into *PanicError so the app's error handler answers
// 500 and the process keeps serving.
//
// # Auth
//
// Auth reads the session cookie (awesession by default), resolves the user
// with the supplied ResolveFunc and stores it under internal.UserKey. Paths
// under /manage/ require a user accepted by the Authorize predicate; other
// requests are redirected to /signin.
//
// # Body parser
//
// BodyParser decodes JSON objects and HTML forms into a map stored under
// internal.BodyKey. Route binding reads declared arguments from it before
// falling back to the query string.
package middlewares
