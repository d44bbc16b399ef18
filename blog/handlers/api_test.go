package handlers_test

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/quill/blog/auth"
	"github.com/dmitrymomot/quill/blog/handlers"
	"github.com/dmitrymomot/quill/blog/model"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials start a session", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		rec := s.do(http.MethodPost, "/api/authenticate", map[string]any{
			"email":  "user@example.com",
			"passwd": clientHash("secret"),
		}, "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeJSON(t, rec)
		require.Equal(t, "user1", body["id"])
		require.Equal(t, model.MaskedPassword, body["passwd"])

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, auth.CookieName, cookies[0].Name)
		require.Equal(t, 3600, cookies[0].MaxAge)
		require.True(t, cookies[0].HttpOnly)

		user, ok := auth.NewResolver(s.store.Users, testSecret, auth.WithClock(clock)).
			Resolve(t.Context(), cookies[0].Value)
		require.True(t, ok)
		require.Equal(t, "user1", user.String("id"))
	})

	tests := []struct {
		name    string
		body    map[string]any
		data    string
		message string
	}{
		{"empty email", map[string]any{"email": "", "passwd": "x"}, "email", "Invalid email."},
		{"empty password", map[string]any{"email": "user@example.com", "passwd": ""}, "passwd", "Invalid password."},
		{"unknown email", map[string]any{"email": "who@example.com", "passwd": "x"}, "email", "Email does not exist."},
		{"wrong password", map[string]any{"email": "user@example.com", "passwd": clientHash("nope")}, "passwd", "Invalid password."},
		{"missing password", map[string]any{"email": "user@example.com"}, "passwd", "missing argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := newTestServer(t).do(http.MethodPost, "/api/authenticate", tt.body, "")
			requireAPIError(t, rec, http.StatusBadRequest, "value:invalid", tt.data, tt.message)
			require.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates the user and signs in", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		passwd := clientHash("hunter2")
		rec := s.do(http.MethodPost, "/api/users", map[string]any{
			"name":   "  New Person ",
			"email":  "new.person@example.com",
			"passwd": passwd,
		}, "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeJSON(t, rec)
		require.Equal(t, "New Person", body["name"])
		require.Equal(t, model.MaskedPassword, body["passwd"])
		require.Equal(t, false, body["admin"])

		uid := body["id"].(string)
		stored := s.db.row("users", uid)
		require.NotNil(t, stored)
		require.Equal(t, auth.HashPassword(uid, passwd), stored["passwd"])

		sum := md5.Sum([]byte("new.person@example.com"))
		require.Equal(t, "http://www.gravatar.com/avatar/"+hex.EncodeToString(sum[:])+"?d=mm&s=120", stored["image"])
		require.Len(t, rec.Result().Cookies(), 1)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		rec := newTestServer(t).do(http.MethodPost, "/api/users", map[string]any{
			"name":   "Someone",
			"email":  "user@example.com",
			"passwd": clientHash("x"),
		}, "")
		requireAPIError(t, rec, http.StatusBadRequest, handlers.KindRegisterFailed, "email", "Email is already in use.")
	})

	t.Run("email taken by a concurrent registration", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		s.db.failInserts("users", &pgconn.PgError{Code: "23505", ConstraintName: model.UserEmailIndex})

		rec := s.do(http.MethodPost, "/api/users", map[string]any{
			"name":   "Racer",
			"email":  "racer@example.com",
			"passwd": clientHash("x"),
		}, "")
		requireAPIError(t, rec, http.StatusBadRequest, handlers.KindRegisterFailed, "email", "Email is already in use.")
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("other insert failures are server errors", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		s.db.failInserts("users", &pgconn.PgError{Code: "23502"})

		rec := s.do(http.MethodPost, "/api/users", map[string]any{
			"name":   "Broken",
			"email":  "broken@example.com",
			"passwd": clientHash("x"),
		}, "")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	tests := []struct {
		name string
		body map[string]any
		data string
	}{
		{"blank name", map[string]any{"name": "  ", "email": "a@example.com", "passwd": clientHash("x")}, "name"},
		{"uppercase email", map[string]any{"name": "A", "email": "A@Example.com", "passwd": clientHash("x")}, "email"},
		{"email without domain", map[string]any{"name": "A", "email": "a@example", "passwd": clientHash("x")}, "email"},
		{"plain password", map[string]any{"name": "A", "email": "a@example.com", "passwd": "hunter2"}, "passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t)
			rec := s.do(http.MethodPost, "/api/users", tt.body, "")
			requireAPIError(t, rec, http.StatusBadRequest, "value:invalid", tt.data, "")
			require.Len(t, s.db.rows("users"), 2)
		})
	}
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/users", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	page := body["page"].(map[string]any)
	require.InDelta(t, 2, page["item_count"], 0)
	require.InDelta(t, 1, page["page_index"], 0)

	users := body["users"].([]any)
	require.Len(t, users, 2)
	for _, u := range users {
		require.Equal(t, model.MaskedPassword, u.(map[string]any)["passwd"])
	}
}

func TestBlogAPI(t *testing.T) {
	t.Parallel()

	post := map[string]any{"name": " Title ", "summary": "Short", "content": "Body"}

	t.Run("create requires an admin", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		for _, session := range []string{"", s.session("user1")} {
			rec := s.do(http.MethodPost, "/api/blogs", post, session)
			requireAPIError(t, rec, http.StatusForbidden, "permission:forbidden", "permission", "")
		}
		require.Empty(t, s.db.rows("blogs"))
	})

	t.Run("create", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		rec := s.do(http.MethodPost, "/api/blogs", post, s.session("admin1"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decodeJSON(t, rec)
		require.Equal(t, "Title", body["name"])
		require.Equal(t, "admin1", body["user_id"])
		require.Equal(t, "admin", body["user_name"])
		require.Len(t, body["id"], 50)

		rows := s.db.rows("blogs")
		require.Len(t, rows, 1)
		require.Equal(t, body["id"], rows[0]["id"])
	})

	validation := []struct {
		field string
		body  map[string]any
	}{
		{"name", map[string]any{"name": " ", "summary": "s", "content": "c"}},
		{"summary", map[string]any{"name": "n", "summary": "", "content": "c"}},
		{"content", map[string]any{"name": "n", "summary": "s", "content": "\n"}},
	}
	for _, tt := range validation {
		t.Run("empty "+tt.field, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t)
			rec := s.do(http.MethodPost, "/api/blogs", tt.body, s.session("admin1"))
			requireAPIError(t, rec, http.StatusBadRequest, "value:invalid", tt.field, tt.field+" cannot be empty.")
		})
	}

	t.Run("get", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		seedBlog(s.db, "b1", "Hello", time.Hour)

		rec := s.do(http.MethodGet, "/api/blogs/b1", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Hello", decodeJSON(t, rec)["name"])

		rec = s.do(http.MethodGet, "/api/blogs/missing", nil, "")
		requireAPIError(t, rec, http.StatusNotFound, "value:notfound", "Blog", "")
	})

	t.Run("update writes every edited field", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		seedBlog(s.db, "b1", "Hello", time.Hour)

		rec := s.do(http.MethodPost, "/api/blogs/b1", map[string]any{
			"name": "Renamed", "summary": "New summary", "content": " New body ",
		}, s.session("admin1"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		row := s.db.row("blogs", "b1")
		require.Equal(t, "Renamed", row["name"])
		require.Equal(t, "New summary", row["summary"])
		require.Equal(t, "New body", row["content"])
		require.Equal(t, "admin1", row["user_id"])
	})

	t.Run("update of a missing blog", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		rec := s.do(http.MethodPost, "/api/blogs/missing", post, s.session("admin1"))
		requireAPIError(t, rec, http.StatusNotFound, "value:notfound", "Blog", "")
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		seedBlog(s.db, "b1", "Hello", time.Hour)
		seedBlog(s.db, "b2", "Other", time.Hour)

		rec := s.do(http.MethodPost, "/api/blogs/b1/delete", map[string]any{}, s.session("user1"))
		requireAPIError(t, rec, http.StatusForbidden, "permission:forbidden", "permission", "")

		rec = s.do(http.MethodPost, "/api/blogs/b1/delete", map[string]any{}, s.session("admin1"))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, map[string]any{"id": "b1"}, decodeJSON(t, rec))
		require.Nil(t, s.db.row("blogs", "b1"))
		require.NotNil(t, s.db.row("blogs", "b2"))
	})

	t.Run("list pages", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		for i := range 12 {
			seedBlog(s.db, fmt.Sprintf("b%02d", i), fmt.Sprintf("Post %02d", i), time.Duration(i+1)*time.Minute)
		}

		rec := s.do(http.MethodGet, "/api/blogs?page=2", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeJSON(t, rec)
		blogs := body["blogs"].([]any)
		require.Len(t, blogs, 2)
		require.Equal(t, "b10", blogs[0].(map[string]any)["id"])

		page := body["page"].(map[string]any)
		require.Equal(t, true, page["has_previous"])
		require.Equal(t, false, page["has_next"])
	})

	t.Run("invalid page index reads the first page", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		for i := range 12 {
			seedBlog(s.db, fmt.Sprintf("b%02d", i), fmt.Sprintf("Post %02d", i), time.Duration(i+1)*time.Minute)
		}

		for _, target := range []string{"/api/blogs?page=-3", "/api/blogs?page=x", "/api/blogs?page=0"} {
			rec := s.do(http.MethodGet, target, nil, "")
			require.Equal(t, http.StatusOK, rec.Code, target)
			body := decodeJSON(t, rec)
			require.Len(t, body["blogs"].([]any), 10, target)
			require.InDelta(t, 1, body["page"].(map[string]any)["page_index"], 0, target)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		rec := newTestServer(t).do(http.MethodGet, "/api/blogs", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, []any{}, decodeJSON(t, rec)["blogs"])
	})
}

func TestCommentAPI(t *testing.T) {
	t.Parallel()

	t.Run("anonymous users cannot comment", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		seedBlog(s.db, "b1", "Hello", time.Hour)
		rec := s.do(http.MethodPost, "/api/blogs/b1/comments", map[string]any{"content": "hi"}, "")
		requireAPIError(t, rec, http.StatusForbidden, "permission:forbidden", "permission", "Please signin first.")
	})

	t.Run("blank content", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		seedBlog(s.db, "b1", "Hello", time.Hour)
		rec := s.do(http.MethodPost, "/api/blogs/b1/comments", map[string]any{"content": "  "}, s.session("user1"))
		requireAPIError(t, rec, http.StatusBadRequest, "value:invalid", "content", "")
	})

	t.Run("unknown blog", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		rec := s.do(http.MethodPost, "/api/blogs/nope/comments", map[string]any{"content": "hi"}, s.session("user1"))
		requireAPIError(t, rec, http.StatusNotFound, "value:notfound", "Blog", "")
	})

	t.Run("create, list and delete", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		seedBlog(s.db, "b1", "Hello", time.Hour)

		rec := s.do(http.MethodPost, "/api/blogs/b1/comments", map[string]any{"content": " Nice post "}, s.session("user1"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		created := decodeJSON(t, rec)
		require.Equal(t, "Nice post", created["content"])
		require.Equal(t, "b1", created["blog_id"])
		require.Equal(t, "user1", created["user_id"])
		require.Equal(t, "user", created["user_name"])

		rec = s.do(http.MethodGet, "/api/comments", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, decodeJSON(t, rec)["comments"], 1)

		id := created["id"].(string)
		rec = s.do(http.MethodPost, "/api/comments/"+id+"/delete", map[string]any{}, s.session("user1"))
		requireAPIError(t, rec, http.StatusForbidden, "permission:forbidden", "permission", "")

		rec = s.do(http.MethodPost, "/api/comments/"+id+"/delete", map[string]any{}, s.session("admin1"))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, map[string]any{"id": id}, decodeJSON(t, rec))
		require.Empty(t, s.db.rows("comments"))
	})

	t.Run("delete unknown comment", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		rec := s.do(http.MethodPost, "/api/comments/nope/delete", map[string]any{}, s.session("admin1"))
		requireAPIError(t, rec, http.StatusNotFound, "value:notfound", "comment", "")
	})
}
