package middlewares

import (
	"runtime"

	"github.com/dmitrymomot/quill/internal"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize    int  // max captured stack size in bytes
	DisableStack bool // skip stack capture entirely
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		if size > 0 {
			cfg.StackSize = size
		}
	}
}

// WithRecoverDisableStack turns off stack capture.
func WithRecoverDisableStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisableStack = true
	}
}

// Recover returns middleware that turns a panic in any later handler into a
// PanicError. The error goes to the app's error handler, which answers 500.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{StackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				pe := &PanicError{Value: r}
				attrs := []any{"panic", r, "path", c.Request().URL.Path}
				if !cfg.DisableStack {
					buf := make([]byte, cfg.StackSize)
					pe.Stack = buf[:runtime.Stack(buf, false)]
					attrs = append(attrs, "stack", string(pe.Stack))
				}
				c.LogError("panic recovered", attrs...)

				err = pe
			}()

			return next(c)
		}
	}
}
