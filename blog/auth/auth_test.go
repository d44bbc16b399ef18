package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/quill"
	"github.com/dmitrymomot/quill/blog/auth"
	"github.com/dmitrymomot/quill/blog/model"
	"github.com/dmitrymomot/quill/pkg/logger"
	"github.com/dmitrymomot/quill/pkg/orm"
)

const secret = "Awesome"

var now = time.Unix(1_700_000_000, 0)

type stubFinder struct {
	users map[string]*orm.Record
	err   error
	calls atomic.Int32
	delay time.Duration
}

func (f *stubFinder) Find(_ context.Context, pk any) (*orm.Record, error) {
	f.calls.Add(1)
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[pk.(string)]
	if !ok {
		return nil, orm.ErrNotFound
	}
	return u, nil
}

func newUser(id, passwd string, admin bool) *orm.Record {
	store := model.NewStore(nil, logger.NewNope())
	return store.Users.New(map[string]any{
		"id":     id,
		"passwd": passwd,
		"admin":  admin,
		"name":   "Test",
	})
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	// sha1("u1:pw")
	require.Equal(t, "88c6b88d32545edb0e671bf66d36fc2dfc9bcb93", auth.HashPassword("u1", "pw"))
	require.Len(t, auth.HashPassword("other", "pw"), 40)
	require.NotEqual(t, auth.HashPassword("u1", "pw"), auth.HashPassword("u2", "pw"))
}

func TestEncode(t *testing.T) {
	t.Parallel()

	cookie := auth.Encode(newUser("u1", "hash", false), 86400, secret, now)
	parts := strings.Split(cookie, "-")
	require.Len(t, parts, 3)
	require.Equal(t, "u1", parts[0])
	require.Equal(t, "1700086400", parts[1])
	require.Len(t, parts[2], 40)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	user := newUser("u1", "hash", true)
	finder := &stubFinder{users: map[string]*orm.Record{"u1": user}}
	r := auth.NewResolver(finder, secret, auth.WithClock(func() time.Time { return now }))

	valid := auth.Encode(user, 3600, secret, now)

	t.Run("valid session", func(t *testing.T) {
		t.Parallel()

		got, ok := r.Resolve(context.Background(), valid)
		require.True(t, ok)
		require.Equal(t, "u1", got.String("id"))
		require.Equal(t, model.MaskedPassword, got.String("passwd"))
		require.Equal(t, "hash", user.String("passwd"), "stored record must stay intact")
	})

	tests := []struct {
		name  string
		value string
	}{
		{name: "empty", value: ""},
		{name: "two parts", value: "u1-123"},
		{name: "four parts", value: valid + "-x"},
		{name: "bad expiry", value: "u1-soon-" + strings.Split(valid, "-")[2]},
		{name: "expired", value: auth.Encode(user, -1, secret, now)},
		{name: "wrong secret", value: auth.Encode(user, 3600, "other", now)},
		{name: "unknown user", value: auth.Encode(newUser("u2", "hash", false), 3600, secret, now)},
		{name: "changed password", value: auth.Encode(newUser("u1", "old-hash", true), 3600, secret, now)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := r.Resolve(context.Background(), tt.value)
			require.False(t, ok)
			require.Nil(t, got)
		})
	}

	t.Run("lookup error", func(t *testing.T) {
		t.Parallel()

		failing := auth.NewResolver(&stubFinder{err: errors.New("db down")}, secret,
			auth.WithClock(func() time.Time { return now }))
		_, ok := failing.Resolve(context.Background(), valid)
		require.False(t, ok)
	})
}

func TestResolveCoalescesLookups(t *testing.T) {
	t.Parallel()

	user := newUser("u1", "hash", false)
	finder := &stubFinder{users: map[string]*orm.Record{"u1": user}, delay: 50 * time.Millisecond}
	r := auth.NewResolver(finder, secret, auth.WithClock(func() time.Time { return now }))
	value := auth.Encode(user, 3600, secret, now)

	var wg sync.WaitGroup
	results := make([]*orm.Record, 8)
	for i := range results {
		wg.Go(func() {
			u, ok := r.Resolve(context.Background(), value)
			if ok {
				results[i] = u
			}
		})
	}
	wg.Wait()

	for _, u := range results {
		require.NotNil(t, u)
		require.Equal(t, model.MaskedPassword, u.String("passwd"))
	}
	require.Less(t, finder.calls.Load(), int32(len(results)))

	// Each caller gets its own copy.
	results[0].Set("name", "changed")
	require.Equal(t, "Test", results[1].String("name"))
}

func TestResolverUser(t *testing.T) {
	t.Parallel()

	user := newUser("u1", "hash", false)
	r := auth.NewResolver(&stubFinder{users: map[string]*orm.Record{"u1": user}}, secret,
		auth.WithClock(func() time.Time { return now }))

	got, err := r.User(context.Background(), auth.Encode(user, 60, secret, now))
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = r.User(context.Background(), "garbage")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	admin := newUser("a1", "x", true)
	reader := newUser("r1", "x", false)

	require.True(t, auth.IsAdmin(admin))
	require.False(t, auth.IsAdmin(reader))
	require.False(t, auth.IsAdmin(nil))
	require.False(t, auth.IsAdmin("admin"))
	require.False(t, auth.IsAdmin((*orm.Record)(nil)))

	require.Nil(t, auth.CurrentUser(context.Background()))
	ctx := context.WithValue(context.Background(), quill.UserKey{}, admin)
	require.Same(t, admin, auth.CurrentUser(ctx))

	extract := auth.UserIDExtractor()
	attr, ok := extract(ctx)
	require.True(t, ok)
	require.Equal(t, "user_id", attr.Key)
	require.Equal(t, "a1", attr.Value.String())

	_, ok = extract(context.Background())
	require.False(t, ok)
}
