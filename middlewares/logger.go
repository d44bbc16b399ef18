package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/quill/internal"
)

// LoggerConfig configures the request logging middleware.
type LoggerConfig struct {
	Logger    *slog.Logger // nil uses the request context logger
	SkipPaths map[string]struct{}
	now       func() time.Time
}

// LoggerOption configures LoggerConfig.
type LoggerOption func(*LoggerConfig)

// WithRequestLogger logs through l instead of the app logger.
func WithRequestLogger(l *slog.Logger) LoggerOption {
	return func(cfg *LoggerConfig) {
		cfg.Logger = l
	}
}

// WithLogSkipPaths disables logging for exact request paths, such as health probes.
func WithLogSkipPaths(paths ...string) LoggerOption {
	return func(cfg *LoggerConfig) {
		for _, p := range paths {
			cfg.SkipPaths[p] = struct{}{}
		}
	}
}

// Logger returns middleware that logs one record per request with the method,
// path, final status and duration. Server errors log at error level, client
// errors at warn, everything else at info.
func Logger(opts ...LoggerOption) internal.Middleware {
	cfg := &LoggerConfig{
		SkipPaths: make(map[string]struct{}),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request()
			if _, skip := cfg.SkipPaths[r.URL.Path]; skip {
				return next(c)
			}

			start := cfg.now()
			err := next(c)
			elapsed := cfg.now().Sub(start)

			status := http.StatusOK
			var size int64
			if rw := c.ResponseWriter(); rw != nil {
				status, size = rw.Status(), rw.Size()
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int64("size", size),
				slog.Duration("duration", elapsed),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}

			log := cfg.Logger
			if log == nil {
				log = c.Logger()
			}
			log.LogAttrs(c.Context(), levelFor(status, err), "request", attrs...)

			return err
		}
	}
}

func levelFor(status int, err error) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest, err != nil:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
