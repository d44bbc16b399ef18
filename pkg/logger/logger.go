package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Output formats accepted by Config.Format.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config describes where and how log records are written.
type Config struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `yaml:"level"`
	// Format is json or text. Defaults to json.
	Format string       `yaml:"format"`
	Sentry SentryConfig `yaml:"sentry"`

	// Output overrides stdout. Not read from config files.
	Output io.Writer `yaml:"-"`
}

// SentryConfig holds Sentry integration configuration.
// Records are forwarded only when DSN is set.
type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
	// MinLevel is warn or error. Errors always create issues, warnings are stored as logs.
	MinLevel string `yaml:"min_level"`
}

// New builds a logger from cfg and decorates it with context extractors.
// When Sentry is configured but fails to initialize, the logger falls back to
// the local handler and reports the failure through it.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	local := localHandler(cfg)

	if cfg.Sentry.DSN == "" {
		return slog.New(NewHandler(extractors, local))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(local).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(NewHandler(extractors, local))
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if ParseLevel(cfg.Sentry.MinLevel) >= slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}
	remote := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return slog.New(NewHandler(extractors, local, remote))
}

// ContextExtractor pulls one request-scoped attribute out of ctx.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// handler adds extracted attributes to each record and writes it to every
// sink that accepts its level.
type handler struct {
	sinks      []slog.Handler
	extractors []ContextExtractor
}

// NewHandler returns a handler writing to sinks. Extractors run on every
// record so request-scoped values stay current; nil extractors are skipped.
func NewHandler(extractors []ContextExtractor, sinks ...slog.Handler) slog.Handler {
	h := &handler{sinks: sinks}
	for _, ex := range extractors {
		if ex != nil {
			h.extractors = append(h.extractors, ex)
		}
	}
	return h
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return slices.ContainsFunc(h.sinks, func(s slog.Handler) bool {
		return s.Enabled(ctx, level)
	})
}

func (h *handler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	var errs []error
	for _, s := range h.sinks {
		if s.Enabled(ctx, rec.Level) {
			errs = append(errs, s.Handle(ctx, rec.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (h *handler) WithGroup(name string) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *handler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = fn(s)
	}
	return &handler{sinks: sinks, extractors: h.extractors}
}

// ParseLevel maps a level name to slog.Level. Unknown names yield info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func localHandler(cfg Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, FormatText) {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}
