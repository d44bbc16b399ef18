// Package logger builds structured slog loggers with context extraction and
// optional Sentry reporting.
//
// A ContextExtractor pulls one request-scoped attribute out of a context and is
// evaluated on every log call, so values such as the request ID or the signed-in
// user show up without being passed around:
//
//	log := logger.New(logger.Config{Level: "debug", Format: "text"},
//		middlewares.RequestIDExtractor(),
//		auth.UserIDExtractor(),
//	)
//	log.InfoContext(ctx, "blog saved", slog.String("blog_id", id))
//
// Setting Config.Sentry.DSN fans records out to stdout and Sentry. Errors become
// Sentry issues; warnings are kept as searchable logs unless MinLevel is error.
// With an empty DSN only the local handler is used, so the same code path runs
// in development.
//
// NewNope returns a logger that discards everything and is the default for
// components constructed without one.
package logger
