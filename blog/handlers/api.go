package handlers

import (
	"context"
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/dmitrymomot/quill"
	"github.com/dmitrymomot/quill/blog/auth"
	"github.com/dmitrymomot/quill/blog/model"
	"github.com/dmitrymomot/quill/pkg/db"
	"github.com/dmitrymomot/quill/pkg/id"
	"github.com/dmitrymomot/quill/pkg/orm"
)

// KindRegisterFailed is the API error kind for a rejected registration.
const KindRegisterFailed = "register:failed"

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9\.\-\_]+\@[a-z0-9\-\_]+(\.[a-z0-9\-\_]+){1,4}$`)
	sha1Pattern  = regexp.MustCompile(`^[0-9a-f]{40}$`)
)

// API serves the JSON endpoints used by the pages' scripts.
type API struct {
	store *model.Store
	settings
}

// NewAPI creates the JSON API handler.
func NewAPI(store *model.Store, opts ...Option) *API {
	return &API{store: store, settings: newSettings(opts)}
}

// Routes implements quill.Handler.
func (h *API) Routes(r quill.Router) {
	r.Handle(http.MethodPost, "/api/authenticate", h.authenticate, quill.Required("email", "passwd"))
	r.Handle(http.MethodGet, "/api/users", h.listUsers, quill.Optional("page", "1"))
	r.Handle(http.MethodPost, "/api/users", h.register, quill.Required("email", "name", "passwd"))

	r.Handle(http.MethodGet, "/api/blogs", h.listBlogs, quill.Optional("page", "1"))
	r.Handle(http.MethodPost, "/api/blogs", h.createBlog, quill.Required("name", "summary", "content"))
	r.Handle(http.MethodGet, "/api/blogs/{id}", h.getBlog, quill.PathParams("id"))
	r.Handle(http.MethodPost, "/api/blogs/{id}", h.updateBlog,
		quill.PathParams("id"),
		quill.Required("name", "summary", "content"),
	)
	r.Handle(http.MethodPost, "/api/blogs/{id}/delete", h.deleteBlog, quill.PathParams("id"))

	r.Handle(http.MethodGet, "/api/comments", h.listComments, quill.Optional("page", "1"))
	r.Handle(http.MethodPost, "/api/blogs/{id}/comments", h.createComment,
		quill.PathParams("id"),
		quill.Required("content"),
	)
	r.Handle(http.MethodPost, "/api/comments/{id}/delete", h.deleteComment, quill.PathParams("id"))
}

func (h *API) authenticate(ctx context.Context, in quill.Args) (any, error) {
	email, passwd := in.String("email"), in.String("passwd")
	if email == "" {
		return nil, quill.ErrValueInvalid("email", "Invalid email.")
	}
	if passwd == "" {
		return nil, quill.ErrValueInvalid("passwd", "Invalid password.")
	}

	user, err := h.store.Users.FindOne(ctx, orm.Where("email=?", email))
	if errors.Is(err, orm.ErrNotFound) {
		return nil, quill.ErrValueInvalid("email", "Email does not exist.")
	}
	if err != nil {
		return nil, err
	}

	want := auth.HashPassword(user.String("id"), passwd)
	if subtle.ConstantTimeCompare([]byte(user.String("passwd")), []byte(want)) != 1 {
		return nil, quill.ErrValueInvalid("passwd", "Invalid password.")
	}

	h.logger.InfoContext(ctx, "user signed in", slog.String("user_id", user.String("id")))
	return h.startSession(user), nil
}

func (h *API) listUsers(ctx context.Context, in quill.Args) (any, error) {
	p, users, err := list(ctx, h.store.Users, pageIndex(in))
	if err != nil {
		return nil, err
	}
	for i, u := range users {
		users[i] = model.Public(u)
	}
	return quill.M{"page": p, "users": users}, nil
}

func (h *API) register(ctx context.Context, in quill.Args) (any, error) {
	name := strings.TrimSpace(in.String("name"))
	email := in.String("email")
	passwd := in.String("passwd")

	if name == "" {
		return nil, quill.ErrValueInvalid("name", "")
	}
	if !emailPattern.MatchString(email) {
		return nil, quill.ErrValueInvalid("email", "")
	}
	if !sha1Pattern.MatchString(passwd) {
		return nil, quill.ErrValueInvalid("passwd", "")
	}

	taken, err := h.store.Users.Count(ctx, orm.Where("email=?", email))
	if err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, errEmailTaken()
	}

	uid := id.New()
	user := h.store.Users.New(map[string]any{
		"id":     uid,
		"name":   name,
		"email":  email,
		"passwd": auth.HashPassword(uid, passwd),
		"admin":  false,
		"image":  gravatar(email),
	})
	if err := user.Save(ctx); err != nil {
		// A concurrent registration can pass the count above and lose the insert.
		if db.IsUniqueViolation(err, model.UserEmailIndex) {
			return nil, errEmailTaken()
		}
		return nil, err
	}

	h.logger.InfoContext(ctx, "user registered", slog.String("user_id", uid))
	return h.startSession(user), nil
}

func errEmailTaken() error {
	return quill.NewAPIError(KindRegisterFailed, "email", "Email is already in use.")
}

// startSession sets the session cookie and sends the user with the password masked.
func (h *API) startSession(user *orm.Record) quill.Responder {
	value := auth.Encode(user, h.maxAge, h.secret, h.now())
	public := model.Public(user)
	return quill.ResponderFunc(func(c quill.Context) error {
		c.SetCookie(h.cookieName, value, h.maxAge)
		return c.JSON(http.StatusOK, public)
	})
}

func gravatar(email string) string {
	sum := md5.Sum([]byte(email))
	return fmt.Sprintf("http://www.gravatar.com/avatar/%s?d=mm&s=120", hex.EncodeToString(sum[:]))
}

func (h *API) listBlogs(ctx context.Context, in quill.Args) (any, error) {
	p, blogs, err := list(ctx, h.store.Blogs, pageIndex(in))
	if err != nil {
		return nil, err
	}
	return quill.M{"page": p, "blogs": blogs}, nil
}

func (h *API) getBlog(ctx context.Context, in quill.Args) (any, error) {
	blog, err := h.findBlog(ctx, in.String("id"))
	if err != nil {
		return nil, err
	}
	return jsonRecord(blog), nil
}

// blogInput validates the editable blog fields and returns them trimmed.
func blogInput(in quill.Args) (name, summary, content string, err error) {
	name = strings.TrimSpace(in.String("name"))
	summary = strings.TrimSpace(in.String("summary"))
	content = strings.TrimSpace(in.String("content"))
	switch {
	case name == "":
		err = quill.ErrValueInvalid("name", "name cannot be empty.")
	case summary == "":
		err = quill.ErrValueInvalid("summary", "summary cannot be empty.")
	case content == "":
		err = quill.ErrValueInvalid("content", "content cannot be empty.")
	}
	return name, summary, content, err
}

func (h *API) createBlog(ctx context.Context, in quill.Args) (any, error) {
	user, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	name, summary, content, err := blogInput(in)
	if err != nil {
		return nil, err
	}

	blog := h.store.Blogs.New(map[string]any{
		"user_id":    user.String("id"),
		"user_name":  user.String("name"),
		"user_image": user.String("image"),
		"name":       name,
		"summary":    summary,
		"content":    content,
	})
	if err := blog.Save(ctx); err != nil {
		return nil, err
	}
	h.logger.InfoContext(ctx, "blog created", slog.String("blog_id", blog.String("id")))
	return jsonRecord(blog), nil
}

func (h *API) updateBlog(ctx context.Context, in quill.Args) (any, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	blog, err := h.findBlog(ctx, in.String("id"))
	if err != nil {
		return nil, err
	}
	name, summary, content, err := blogInput(in)
	if err != nil {
		return nil, err
	}

	blog.Set("name", name)
	blog.Set("summary", summary)
	blog.Set("content", content)
	if err := blog.Update(ctx); err != nil {
		return nil, err
	}
	return jsonRecord(blog), nil
}

func (h *API) deleteBlog(ctx context.Context, in quill.Args) (any, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	blogID := in.String("id")
	blog, err := h.findBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if err := blog.Remove(ctx); err != nil {
		return nil, err
	}
	h.logger.InfoContext(ctx, "blog deleted", slog.String("blog_id", blogID))
	return quill.M{"id": blogID}, nil
}

func (h *API) findBlog(ctx context.Context, blogID string) (*orm.Record, error) {
	blog, err := h.store.Blogs.Find(ctx, blogID)
	if errors.Is(err, orm.ErrNotFound) {
		return nil, quill.ErrNotFound("Blog", "")
	}
	return blog, err
}

func (h *API) listComments(ctx context.Context, in quill.Args) (any, error) {
	p, comments, err := list(ctx, h.store.Comments, pageIndex(in))
	if err != nil {
		return nil, err
	}
	return quill.M{"page": p, "comments": comments}, nil
}

func (h *API) createComment(ctx context.Context, in quill.Args) (any, error) {
	user := auth.CurrentUser(ctx)
	if user == nil {
		return nil, quill.ErrPermission("Please signin first.")
	}
	content := strings.TrimSpace(in.String("content"))
	if content == "" {
		return nil, quill.ErrValueInvalid("content", "")
	}
	blog, err := h.findBlog(ctx, in.String("id"))
	if err != nil {
		return nil, err
	}

	comment := h.store.Comments.New(map[string]any{
		"blog_id":    blog.String("id"),
		"user_id":    user.String("id"),
		"user_name":  user.String("name"),
		"user_image": user.String("image"),
		"content":    content,
	})
	if err := comment.Save(ctx); err != nil {
		return nil, err
	}
	return jsonRecord(comment), nil
}

func (h *API) deleteComment(ctx context.Context, in quill.Args) (any, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	commentID := in.String("id")
	comment, err := h.store.Comments.Find(ctx, commentID)
	if errors.Is(err, orm.ErrNotFound) {
		return nil, quill.ErrNotFound("comment", "")
	}
	if err != nil {
		return nil, err
	}
	if err := comment.Remove(ctx); err != nil {
		return nil, err
	}
	return quill.M{"id": commentID}, nil
}
