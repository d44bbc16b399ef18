package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/quill"
	"github.com/dmitrymomot/quill/blog/model"
	"github.com/dmitrymomot/quill/pkg/markup"
	"github.com/dmitrymomot/quill/pkg/orm"
)

// Pages serves the HTML side of the blog.
type Pages struct {
	store *model.Store
	settings
}

// NewPages creates the page handler.
func NewPages(store *model.Store, opts ...Option) *Pages {
	return &Pages{store: store, settings: newSettings(opts)}
}

// Routes implements quill.Handler.
func (h *Pages) Routes(r quill.Router) {
	r.Handle(http.MethodGet, "/", h.index, quill.Optional("page", "1"))
	r.Handle(http.MethodGet, "/register", template("register.html"))
	r.Handle(http.MethodGet, "/signin", template("signin.html"))
	r.Handle(http.MethodGet, "/signout", h.signout)
	r.Handle(http.MethodGet, "/blog/{id}", h.blog, quill.PathParams("id"))

	r.Handle(http.MethodGet, "/manage/", redirect("/manage/comments"))
	r.Handle(http.MethodGet, "/manage/comments", managePage("manage_comments.html"), quill.Optional("page", "1"))
	r.Handle(http.MethodGet, "/manage/blogs", managePage("manage_blogs.html"), quill.Optional("page", "1"))
	r.Handle(http.MethodGet, "/manage/users", managePage("manage_users.html"), quill.Optional("page", "1"))
	r.Handle(http.MethodGet, "/manage/blogs/create", h.createBlog)
	r.Handle(http.MethodGet, "/manage/blogs/edit", h.editBlog, quill.Required("id"))
}

func template(name string) quill.EndpointFunc {
	return func(context.Context, quill.Args) (any, error) {
		return quill.M{quill.TemplateKey: name}, nil
	}
}

func redirect(target string) quill.EndpointFunc {
	return func(context.Context, quill.Args) (any, error) {
		return quill.RedirectPrefix + target, nil
	}
}

func managePage(name string) quill.EndpointFunc {
	return func(_ context.Context, in quill.Args) (any, error) {
		return quill.M{
			quill.TemplateKey: name,
			"page_index":      pageIndex(in),
		}, nil
	}
}

func (h *Pages) index(ctx context.Context, in quill.Args) (any, error) {
	p, blogs, err := list(ctx, h.store.Blogs, pageIndex(in))
	if err != nil {
		return nil, err
	}
	return quill.M{
		quill.TemplateKey: "blogs.html",
		"page":            p,
		"blogs":           blogs,
	}, nil
}

func (h *Pages) signout(ctx context.Context, _ quill.Args) (any, error) {
	h.logger.InfoContext(ctx, "user signed out")
	return quill.ResponderFunc(func(c quill.Context) error {
		c.DeleteCookie(h.cookieName)
		target := c.Header("Referer")
		if target == "" {
			target = "/"
		}
		return c.Redirect(http.StatusFound, target)
	}), nil
}

func (h *Pages) blog(ctx context.Context, in quill.Args) (any, error) {
	id := in.String("id")
	blog, err := h.store.Blogs.Find(ctx, id)
	if errors.Is(err, orm.ErrNotFound) {
		return nil, quill.ErrNotFound("blog", "Blog not found.")
	}
	if err != nil {
		return nil, err
	}

	comments, err := h.store.Comments.FindAll(ctx,
		orm.Where("blog_id=?", id),
		orm.OrderBy("created_at desc"),
	)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		c.Set("html_content", markup.TextToHTML(c.String("content")))
	}

	html, err := markup.Markdown(blog.String("content"))
	if err != nil {
		return nil, err
	}
	blog.Set("html_content", html)

	return quill.M{
		quill.TemplateKey: "blog.html",
		"blog":            blog,
		"comments":        comments,
	}, nil
}

func (h *Pages) createBlog(context.Context, quill.Args) (any, error) {
	return quill.M{
		quill.TemplateKey: "manage_blog_edit.html",
		"id":              "",
		"action":          "/api/blogs",
	}, nil
}

func (h *Pages) editBlog(_ context.Context, in quill.Args) (any, error) {
	id := in.String("id")
	return quill.M{
		quill.TemplateKey: "manage_blog_edit.html",
		"id":              id,
		"action":          "/api/blogs/" + url.PathEscape(id),
	}, nil
}
