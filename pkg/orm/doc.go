// Package orm maps entity types onto PostgreSQL tables.
//
// A Schema is declared once per entity from a list of Field descriptors and
// precomputes its select, insert, update and delete statements. Exactly one
// field must be the primary key; any other declaration fails at construction.
//
//	var users = orm.MustSchema("users",
//		orm.StringField("id", orm.AsPrimaryKey(), orm.WithDefaultFunc(newID)),
//		orm.StringField("email"),
//		orm.BoolField("admin"),
//	)
//
// A Model binds a Schema to an Executor and provides the active record
// operations. Lookups return ErrNotFound when no row matches; writes that do
// not affect exactly one row are logged as warnings rather than returned.
//
//	m := orm.NewModel(users, executor, orm.WithLogger(log))
//	u := m.New(map[string]any{"email": "a@b.c"})
//	if err := u.Save(ctx); err != nil {
//		return err
//	}
//	page, err := m.FindAll(ctx, orm.Where("admin=?", true), orm.OrderBy("email"), orm.LimitOffset(0, 10))
//
// Defaults apply on insert only. Update writes current values, and unset
// fields are stored as NULL.
package orm
