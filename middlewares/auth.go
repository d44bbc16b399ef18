package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrymomot/quill/internal"
)

// ResolveFunc maps a session token to the current user. It returns a nil
// user for unknown, expired or forged tokens.
type ResolveFunc func(ctx context.Context, token string) (user any, err error)

// AuthConfig configures the authentication middleware.
type AuthConfig struct {
	Authorize       func(user any) bool
	ProtectedPrefix string
	SignInPath      string
	sources         []internal.ExtractorSource
}

// AuthOption configures AuthConfig.
type AuthOption func(*AuthConfig)

// WithAuthCookie reads the session token from the named cookie.
func WithAuthCookie(name string) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.sources = []internal.ExtractorSource{internal.FromCookie(name)}
	}
}

// WithAuthSources reads the session token from the first matching source.
func WithAuthSources(sources ...internal.ExtractorSource) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.sources = sources
	}
}

// WithProtectedPrefix sets the path prefix that requires an authorized user.
// An empty prefix disables the check.
func WithProtectedPrefix(prefix string) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.ProtectedPrefix = prefix
	}
}

// WithAuthorize sets the predicate a user must satisfy on protected paths.
func WithAuthorize(fn func(user any) bool) AuthOption {
	return func(cfg *AuthConfig) {
		if fn != nil {
			cfg.Authorize = fn
		}
	}
}

// WithSignInPath sets where unauthorized requests to protected paths are sent.
func WithSignInPath(path string) AuthOption {
	return func(cfg *AuthConfig) {
		if path != "" {
			cfg.SignInPath = path
		}
	}
}

// Auth returns middleware that resolves the current user from the session
// cookie and stores it under internal.UserKey. A failed lookup leaves the
// request anonymous. Requests under the protected prefix whose user does not
// pass Authorize are redirected to the sign-in page.
func Auth(resolve ResolveFunc, opts ...AuthOption) internal.Middleware {
	cfg := &AuthConfig{
		Authorize:       func(user any) bool { return user != nil },
		ProtectedPrefix: "/manage/",
		SignInPath:      "/signin",
		sources:         []internal.ExtractorSource{internal.FromCookie("awesession")},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	token := internal.NewExtractor(cfg.sources...)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			var user any
			if raw, ok := token.Extract(c); ok {
				u, err := resolve(c.Context(), raw)
				if err != nil {
					c.LogWarn("session lookup failed", "error", err.Error())
				} else if u != nil {
					user = u
					c.Set(internal.UserKey{}, u)
				}
			}

			if cfg.ProtectedPrefix != "" &&
				strings.HasPrefix(c.Request().URL.Path, cfg.ProtectedPrefix) &&
				!cfg.Authorize(user) {
				return c.Redirect(http.StatusFound, cfg.SignInPath)
			}

			return next(c)
		}
	}
}
