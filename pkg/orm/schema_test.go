package orm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/quill/pkg/orm"
)

func TestNewSchema(t *testing.T) {
	t.Parallel()

	t.Run("builds statement templates", func(t *testing.T) {
		t.Parallel()

		s := blogSchema()
		require.Equal(t, "blogs", s.Table())
		require.Equal(t, "id", s.PrimaryKey())
		require.Equal(t, []string{"user_id", "name", "content", "created_at"}, s.Fields())
		require.Equal(t, []string{"id", "user_id", "name", "content", "created_at"}, s.Columns())

		require.Equal(t,
			`select "id", "user_id", "name", "content", "created_at" from "blogs"`,
			s.SelectSQL())
		require.Equal(t,
			`insert into "blogs" ("user_id", "name", "content", "created_at", "id") values (?, ?, ?, ?, ?)`,
			s.InsertSQL())
		require.Equal(t,
			`update "blogs" set "user_id"=?, "name"=?, "content"=?, "created_at"=? where "id"=?`,
			s.UpdateSQL())
		require.Equal(t, `delete from "blogs" where "id"=?`, s.DeleteSQL())
	})

	t.Run("quotes reserved words", func(t *testing.T) {
		t.Parallel()

		s, err := orm.NewSchema("order",
			orm.IntField("key", orm.AsPrimaryKey()),
			orm.StringField("select"),
		)
		require.NoError(t, err)
		require.Equal(t, `insert into "order" ("select", "key") values (?, ?)`, s.InsertSQL())
	})

	t.Run("key only table", func(t *testing.T) {
		t.Parallel()

		s, err := orm.NewSchema("tags", orm.StringField("name", orm.AsPrimaryKey()))
		require.NoError(t, err)
		require.Empty(t, s.Fields())
		require.Equal(t, `insert into "tags" ("name") values (?)`, s.InsertSQL())
		require.Equal(t, `update "tags" set "name"="name" where "name"=?`, s.UpdateSQL())
	})

	t.Run("rejects missing primary key", func(t *testing.T) {
		t.Parallel()

		_, err := orm.NewSchema("users", orm.StringField("email"), orm.StringField("name"))
		require.ErrorIs(t, err, orm.ErrNoPrimaryKey)
	})

	t.Run("rejects duplicate primary key", func(t *testing.T) {
		t.Parallel()

		_, err := orm.NewSchema("users",
			orm.StringField("id", orm.AsPrimaryKey()),
			orm.StringField("email", orm.AsPrimaryKey()),
		)
		require.ErrorIs(t, err, orm.ErrDuplicatePrimaryKey)
	})

	t.Run("rejects duplicate field", func(t *testing.T) {
		t.Parallel()

		_, err := orm.NewSchema("users",
			orm.StringField("id", orm.AsPrimaryKey()),
			orm.StringField("email"),
			orm.TextField("email"),
		)
		require.ErrorIs(t, err, orm.ErrDuplicateField)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		t.Parallel()

		_, err := orm.NewSchema(" ", orm.StringField("id", orm.AsPrimaryKey()))
		require.ErrorIs(t, err, orm.ErrEmptyTable)

		_, err = orm.NewSchema("users", orm.StringField("", orm.AsPrimaryKey()))
		require.ErrorIs(t, err, orm.ErrEmptyFieldName)
	})

	t.Run("must schema panics on declaration error", func(t *testing.T) {
		t.Parallel()

		require.Panics(t, func() {
			orm.MustSchema("users", orm.StringField("email"))
		})
	})

	t.Run("schemas sharing a key name stay independent", func(t *testing.T) {
		t.Parallel()

		users := orm.MustSchema("users", orm.StringField("id", orm.AsPrimaryKey()), orm.StringField("email"))
		blogs := orm.MustSchema("blogs", orm.StringField("id", orm.AsPrimaryKey()), orm.StringField("name"))

		require.Equal(t, `select "id", "email" from "users"`, users.SelectSQL())
		require.Equal(t, `select "id", "name" from "blogs"`, blogs.SelectSQL())
		require.Equal(t, []string{"email"}, users.Fields())
		require.Equal(t, []string{"name"}, blogs.Fields())
	})

	t.Run("fields are copied", func(t *testing.T) {
		t.Parallel()

		s := blogSchema()
		fields := s.Fields()
		fields[0] = "mutated"
		require.Equal(t, "user_id", s.Fields()[0])
	})
}

func TestFieldDefaults(t *testing.T) {
	t.Parallel()

	require.Equal(t, false, orm.BoolField("admin").DefaultValue())
	require.Equal(t, int64(0), orm.IntField("n").DefaultValue())
	require.Equal(t, float64(0), orm.FloatField("f").DefaultValue())
	require.False(t, orm.StringField("s").HasDefault())
	require.False(t, orm.TextField("t").HasDefault())
	require.Equal(t, "varchar(100)", orm.StringField("s").SQLType)
	require.Equal(t, "text", orm.TextField("t").SQLType)

	calls := 0
	f := orm.StringField("id", orm.WithDefaultFunc(func() any {
		calls++
		return "generated"
	}))
	require.True(t, f.HasDefault())
	require.Equal(t, "generated", f.DefaultValue())
	require.Equal(t, 1, calls)

	require.Equal(t, "x", orm.StringField("s", orm.WithDefault("x")).DefaultValue())
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := orm.NewRegistry()
	users := orm.MustSchema("users", orm.StringField("id", orm.AsPrimaryKey()))
	blogs := blogSchema()

	require.NoError(t, r.Register("User", users))
	require.Same(t, blogs, r.MustRegister("Blog", blogs))

	got, ok := r.Lookup("User")
	require.True(t, ok)
	require.Same(t, users, got)

	_, ok = r.Lookup("Comment")
	require.False(t, ok)

	err := r.Register("User", blogs)
	require.ErrorIs(t, err, orm.ErrSchemaRegistered)
	require.Error(t, r.Register("Nil", nil))
	require.Equal(t, []string{"Blog", "User"}, r.Names())
}
