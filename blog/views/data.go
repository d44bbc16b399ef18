package views

import (
	"github.com/a-h/templ"

	"github.com/dmitrymomot/quill"
	"github.com/dmitrymomot/quill/pkg/markup"
	"github.com/dmitrymomot/quill/pkg/orm"
)

// frame is what the layout needs from every page.
type frame struct {
	Site  string
	Title string
	User  *viewer
}

// viewer is the signed-in user shown in the navigation bar.
type viewer struct {
	Name  string
	Image string
	Admin bool
}

// post is a blog prepared for display. HTML is trusted, already sanitized markup.
type post struct {
	ID      string
	Name    string
	Summary string
	Author  string
	Since   string
	HTML    string
}

// note is a comment prepared for display.
type note struct {
	Author string
	Image  string
	Since  string
	HTML   string
}

// table describes a management listing the browser fills in from a JSON API.
type table struct {
	Title   string
	Active  string
	Source  string
	Key     string
	Columns string
	Remove  string
}

// tab is one entry of the management navigation.
type tab struct {
	Name   string
	Label  string
	Active bool
}

func (r *Renderer) frame(title string, data quill.M) frame {
	f := frame{Site: r.siteName, Title: title}
	if u := record(data, quill.TemplateUser); u != nil {
		f.User = &viewer{Name: u.String("name"), Image: u.String("image"), Admin: u.Bool("admin")}
	}
	return f
}

func (r *Renderer) post(rec *orm.Record) post {
	return post{
		ID:      rec.String("id"),
		Name:    rec.String("name"),
		Summary: rec.String("summary"),
		Author:  rec.String("user_name"),
		Since:   markup.Since(rec.Float("created_at"), r.now()),
		HTML:    rec.String("html_content"),
	}
}

func (r *Renderer) blogs(data quill.M) templ.Component {
	list := records(data, "blogs")
	posts := make([]post, 0, len(list))
	for _, rec := range list {
		posts = append(posts, r.post(rec))
	}
	return blogsPage(r.frame("Home", data), posts, pageOf(data))
}

func (r *Renderer) blog(data quill.M) templ.Component {
	rec := record(data, "blog")
	if rec == nil {
		return blogPage(r.frame("Blog", data), nil, nil)
	}
	b := r.post(rec)

	comments := records(data, "comments")
	notes := make([]note, 0, len(comments))
	for _, c := range comments {
		notes = append(notes, note{
			Author: c.String("user_name"),
			Image:  c.String("user_image"),
			Since:  markup.Since(c.Float("created_at"), r.now()),
			HTML:   c.String("html_content"),
		})
	}
	return blogPage(r.frame(b.Name, data), &b, notes)
}

func (r *Renderer) register(data quill.M) templ.Component {
	return registerPage(r.frame("Register", data))
}

func (r *Renderer) signin(data quill.M) templ.Component {
	return signinPage(r.frame("Sign in", data))
}

func (r *Renderer) manage(data quill.M, t table) templ.Component {
	t.Source = pageURL(t.Source, intOf(data, "page_index", 1))
	return managePage(r.frame(t.Title, data), t)
}

func (r *Renderer) manageBlogs(data quill.M) templ.Component {
	return r.manage(data, table{
		Title:   "Blogs",
		Active:  "blogs",
		Source:  "/api/blogs",
		Key:     "blogs",
		Columns: "name,user_name,created_at",
		Remove:  "/api/blogs/{id}/delete",
	})
}

func (r *Renderer) manageComments(data quill.M) templ.Component {
	return r.manage(data, table{
		Title:   "Comments",
		Active:  "comments",
		Source:  "/api/comments",
		Key:     "comments",
		Columns: "user_name,content,created_at",
		Remove:  "/api/comments/{id}/delete",
	})
}

func (r *Renderer) manageUsers(data quill.M) templ.Component {
	return r.manage(data, table{
		Title:   "Users",
		Active:  "users",
		Source:  "/api/users",
		Key:     "users",
		Columns: "name,email,admin,created_at",
	})
}

func (r *Renderer) manageBlogEdit(data quill.M) templ.Component {
	id := stringOf(data, "id")
	title := "New blog"
	if id != "" {
		title = "Edit blog"
	}
	return blogEditor(r.frame(title, data), id, stringOf(data, "action"))
}

func manageTabs(active string) []tab {
	return []tab{
		{Name: "comments", Label: "Comments", Active: active == "comments"},
		{Name: "blogs", Label: "Blogs", Active: active == "blogs"},
		{Name: "users", Label: "Users", Active: active == "users"},
	}
}
