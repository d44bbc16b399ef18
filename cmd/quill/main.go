// Command quill runs the blog server.
//
//	quill -config /etc/quill/config.yaml
package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"

	"github.com/dmitrymomot/quill"
	"github.com/dmitrymomot/quill/blog/auth"
	"github.com/dmitrymomot/quill/blog/config"
	"github.com/dmitrymomot/quill/blog/handlers"
	"github.com/dmitrymomot/quill/blog/model"
	"github.com/dmitrymomot/quill/blog/views"
	"github.com/dmitrymomot/quill/middlewares"
	"github.com/dmitrymomot/quill/pkg/db"
	"github.com/dmitrymomot/quill/pkg/logger"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	path, err := config.Path(args, os.Getenv)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cfg.Debug {
		cfg.Log.Level = "debug"
	}

	log := logger.New(cfg.Log, middlewares.RequestIDExtractor(), auth.UserIDExtractor())

	pool, err := db.Connect(ctx, cfg.DB, db.WithConnectLogger(log))
	if err != nil {
		return err
	}
	exec := db.NewExecutor(pool,
		db.WithLogger(log),
		db.WithAutoCommit(cfg.DB.AutoCommit),
		db.WithStatementTimeout(cfg.DB.StatementTimeout),
	)
	store := model.NewStore(exec, log)

	resolver := auth.NewResolver(store.Users, cfg.Session.Secret, auth.WithLogger(log))
	opts := []handlers.Option{
		handlers.WithLogger(log),
		handlers.WithSession(cfg.Session.Secret, cfg.Session.MaxAge),
		handlers.WithCookieName(cfg.Session.CookieName),
	}

	app := quill.New(
		quill.WithLogger(log),
		quill.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Logger(middlewares.WithRequestLogger(log)),
			middlewares.Recover(),
			middlewares.Auth(resolver.User,
				middlewares.WithAuthCookie(cfg.Session.CookieName),
				middlewares.WithAuthorize(auth.IsAdmin),
			),
			middlewares.BodyParser(),
		),
		quill.WithRenderer(views.New()),
		quill.WithHandlers(
			handlers.NewPages(store, opts...),
			handlers.NewAPI(store, opts...),
		),
		quill.WithStaticFiles("/static/", staticFS(cfg.Server.StaticDir), "."),
		quill.WithHealthChecks(
			quill.WithReadinessCheck("postgres", db.Healthcheck(pool)),
		),
		quill.WithSecureCookies(cfg.Server.SecureCookies),
	)

	return app.Run(cfg.Server.Addr,
		quill.Logger(log),
		quill.StartupHook(func(ctx context.Context) error {
			return model.CreateTables(ctx, exec)
		}),
		quill.ShutdownHook(db.Shutdown(pool)),
	)
}

// staticFS serves dir when set and the embedded assets otherwise.
func staticFS(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	sub, err := fs.Sub(views.Static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
