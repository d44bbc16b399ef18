// Package model declares the blog entities and their tables.
package model

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/quill/pkg/id"
	"github.com/dmitrymomot/quill/pkg/orm"
)

// Entity names in Registry.
const (
	UserEntity    = "User"
	BlogEntity    = "Blog"
	CommentEntity = "Comment"
)

// UserEmailIndex is the unique index on users.email in SchemaSQL.
const UserEmailIndex = "idx_users_email"

// MaskedPassword replaces the password hash whenever a user leaves the server.
const MaskedPassword = "******"

// SchemaSQL is the DDL for every table in this package.
//
//go:embed schema.sql
var SchemaSQL string

// Registry holds the schemas of all blog entities.
var Registry = orm.NewRegistry()

var (
	Users = Registry.MustRegister(UserEntity, orm.MustSchema("users",
		orm.StringField("id", orm.AsPrimaryKey(), orm.WithType("varchar(50)"), orm.WithDefaultFunc(newID)),
		orm.StringField("email", orm.WithType("varchar(50)")),
		orm.StringField("passwd", orm.WithType("varchar(50)")),
		orm.BoolField("admin"),
		orm.StringField("name", orm.WithType("varchar(50)")),
		orm.StringField("image", orm.WithType("varchar(500)")),
		orm.FloatField("created_at", orm.WithDefaultFunc(Now)),
	))

	Blogs = Registry.MustRegister(BlogEntity, orm.MustSchema("blogs",
		orm.StringField("id", orm.AsPrimaryKey(), orm.WithType("varchar(50)"), orm.WithDefaultFunc(newID)),
		orm.StringField("user_id", orm.WithType("varchar(50)")),
		orm.StringField("user_name", orm.WithType("varchar(50)")),
		orm.StringField("user_image", orm.WithType("varchar(500)")),
		orm.StringField("name", orm.WithType("varchar(50)")),
		orm.StringField("summary", orm.WithType("varchar(200)")),
		orm.TextField("content"),
		orm.FloatField("created_at", orm.WithDefaultFunc(Now)),
	))

	Comments = Registry.MustRegister(CommentEntity, orm.MustSchema("comments",
		orm.StringField("id", orm.AsPrimaryKey(), orm.WithType("varchar(50)"), orm.WithDefaultFunc(newID)),
		orm.StringField("blog_id", orm.WithType("varchar(50)")),
		orm.StringField("user_id", orm.WithType("varchar(50)")),
		orm.StringField("user_name", orm.WithType("varchar(50)")),
		orm.StringField("user_image", orm.WithType("varchar(500)")),
		orm.TextField("content"),
		orm.FloatField("created_at", orm.WithDefaultFunc(Now)),
	))
)

// Now returns the current time as fractional unix seconds, the created_at format.
func Now() any {
	return float64(time.Now().UnixMicro()) / 1e6
}

func newID() any {
	return id.New()
}

// Store gives handlers one model per entity, all sharing an executor.
type Store struct {
	Users    *orm.Model
	Blogs    *orm.Model
	Comments *orm.Model
}

// NewStore binds every entity schema to exec.
func NewStore(exec orm.Executor, log *slog.Logger) *Store {
	opts := []orm.ModelOption{orm.WithLogger(log)}
	return &Store{
		Users:    orm.NewModel(Users, exec, opts...),
		Blogs:    orm.NewModel(Blogs, exec, opts...),
		Comments: orm.NewModel(Comments, exec, opts...),
	}
}

// CreateTables runs SchemaSQL statement by statement. Every statement is
// idempotent, so it is safe to run at each startup.
func CreateTables(ctx context.Context, exec orm.Executor) error {
	for stmt := range strings.SplitSeq(SchemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := exec.Execute(ctx, stmt, nil); err != nil {
			return fmt.Errorf("model: create tables: %w", err)
		}
	}
	return nil
}

// Public returns a copy of a user record safe to send to clients.
func Public(user *orm.Record) *orm.Record {
	if user == nil {
		return nil
	}
	u := user.Clone()
	u.Set("passwd", MaskedPassword)
	return u
}
