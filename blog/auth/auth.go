// Package auth implements the signed session cookie of the blog.
//
// A session value has the form "uid-expires-digest", where expires is a unix
// timestamp and digest is the hex SHA-1 of "uid-passwd-expires-secret". The
// stored password hash takes part in the digest, so changing a password
// invalidates every outstanding session of that user.
package auth

import (
	"context"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/quill"
	"github.com/dmitrymomot/quill/blog/model"
	"github.com/dmitrymomot/quill/pkg/logger"
	"github.com/dmitrymomot/quill/pkg/orm"
)

// CookieName is the session cookie name.
const CookieName = "awesession"

// DefaultMaxAge is the session lifetime in seconds.
const DefaultMaxAge = 86400

// UserFinder loads a user by primary key. *orm.Model satisfies it.
type UserFinder interface {
	Find(ctx context.Context, pk any) (*orm.Record, error)
}

// Encode builds the session value for user, valid for maxAge seconds from now.
func Encode(user *orm.Record, maxAge int, secret string, now time.Time) string {
	uid := user.String("id")
	expires := strconv.FormatInt(now.Unix()+int64(maxAge), 10)
	return strings.Join([]string{uid, expires, digest(uid, user.String("passwd"), expires, secret)}, "-")
}

// HashPassword derives the stored password hash from the client-side SHA-1
// of the password and the user id.
func HashPassword(uid, passwd string) string {
	sum := sha1.Sum([]byte(uid + ":" + passwd))
	return hex.EncodeToString(sum[:])
}

func digest(uid, passwd, expires, secret string) string {
	sum := sha1.Sum([]byte(uid + "-" + passwd + "-" + expires + "-" + secret))
	return hex.EncodeToString(sum[:])
}

// Resolver turns session values back into users.
type Resolver struct {
	users  UserFinder
	now    func() time.Time
	logger *slog.Logger
	secret string
	group  singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger logs lookup failures other than unknown users.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver creates a Resolver that verifies digests with secret.
func NewResolver(users UserFinder, secret string, opts ...Option) *Resolver {
	r := &Resolver{
		users:  users,
		secret: secret,
		now:    time.Now,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve validates a session value and returns its user with the password
// masked. It returns false for a malformed, expired or forged value, or when
// the user no longer exists. Concurrent resolves of the same user share one
// database lookup.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*orm.Record, bool) {
	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return nil, false
	}
	uid, expires, sum := parts[0], parts[1], parts[2]

	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || exp < r.now().Unix() {
		return nil, false
	}

	v, err, _ := r.group.Do(uid, func() (any, error) {
		return r.users.Find(ctx, uid)
	})
	if err != nil {
		if !errors.Is(err, orm.ErrNotFound) {
			r.logger.WarnContext(ctx, "session user lookup failed", slog.String("error", err.Error()))
		}
		return nil, false
	}
	user, ok := v.(*orm.Record)
	if !ok || user == nil {
		return nil, false
	}

	want := digest(uid, user.String("passwd"), expires, r.secret)
	if subtle.ConstantTimeCompare([]byte(sum), []byte(want)) != 1 {
		r.logger.InfoContext(ctx, "invalid session digest", slog.String("user_id", uid))
		return nil, false
	}

	return model.Public(user), true
}

// User adapts Resolve to the auth middleware.
func (r *Resolver) User(ctx context.Context, raw string) (any, error) {
	if user, ok := r.Resolve(ctx, raw); ok {
		return user, nil
	}
	return nil, nil
}

// CurrentUser returns the signed-in user stored by the auth middleware, or nil.
func CurrentUser(ctx context.Context) *orm.Record {
	return quill.ContextValue[*orm.Record](ctx, quill.UserKey{})
}

// IsAdmin reports whether user is a signed-in administrator.
func IsAdmin(user any) bool {
	u, ok := user.(*orm.Record)
	return ok && u != nil && u.Bool("admin")
}

// UserIDExtractor adds "user_id" to records logged with a signed-in request context.
func UserIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if user := CurrentUser(ctx); user != nil {
			return slog.String("user_id", user.String("id")), true
		}
		return slog.Attr{}, false
	}
}
