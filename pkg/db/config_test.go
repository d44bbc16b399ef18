package db_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/quill/pkg/db"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := db.DefaultConfig()
	require.Equal(t, "localhost", cfg.Host)
	require.Equal(t, 5432, cfg.Port)
	require.Equal(t, "utf8", cfg.Charset)
	require.True(t, cfg.AutoCommit)
	require.EqualValues(t, 10, cfg.MaxSize)
	require.EqualValues(t, 1, cfg.MinSize)
	require.Equal(t, 2*time.Second, cfg.RetryInterval)
}

func TestConfigConnString(t *testing.T) {
	t.Parallel()

	t.Run("full", func(t *testing.T) {
		t.Parallel()

		cfg := db.DefaultConfig()
		cfg.User = "www-data"
		cfg.Password = "p@ss word"
		cfg.Name = "awesome"

		u, err := url.Parse(cfg.ConnString())
		require.NoError(t, err)
		require.Equal(t, "postgres", u.Scheme)
		require.Equal(t, "localhost:5432", u.Host)
		require.Equal(t, "/awesome", u.Path)
		require.Equal(t, "www-data", u.User.Username())
		pass, ok := u.User.Password()
		require.True(t, ok)
		require.Equal(t, "p@ss word", pass)
		require.Equal(t, "UTF8", u.Query().Get("client_encoding"))
		require.Equal(t, "disable", u.Query().Get("sslmode"))
	})

	t.Run("zero value falls back", func(t *testing.T) {
		t.Parallel()

		u, err := url.Parse(db.Config{}.ConnString())
		require.NoError(t, err)
		require.Equal(t, "localhost:5432", u.Host)
		require.Nil(t, u.User)
		require.Empty(t, u.RawQuery)
	})

	t.Run("charset names", func(t *testing.T) {
		t.Parallel()

		for in, want := range map[string]string{"utf8mb4": "UTF8", "UTF-8": "UTF8", "latin1": "LATIN1", "win1252": "WIN1252"} {
			u, err := url.Parse(db.Config{Charset: in}.ConnString())
			require.NoError(t, err)
			require.Equal(t, want, u.Query().Get("client_encoding"), in)
		}
	})

	t.Run("ipv6 host", func(t *testing.T) {
		t.Parallel()

		u, err := url.Parse(db.Config{Host: "::1", Port: 6543}.ConnString())
		require.NoError(t, err)
		require.Equal(t, "[::1]:6543", u.Host)
	})
}
