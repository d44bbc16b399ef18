package orm

// Field declares one mapped column: its name, SQL type, primary key flag
// and the default used when a record is inserted without a value.
//
// Default is either a plain value or a factory of type func() any.
// Factories are called lazily, at most once per record.
type Field struct {
	Default    any
	Name       string
	SQLType    string
	PrimaryKey bool
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// AsPrimaryKey marks the field as the table's primary key.
func AsPrimaryKey() FieldOption {
	return func(f *Field) {
		f.PrimaryKey = true
	}
}

// WithDefault sets a constant default value.
func WithDefault(v any) FieldOption {
	return func(f *Field) {
		f.Default = v
	}
}

// WithDefaultFunc sets a default factory, e.g. an id or clock generator.
func WithDefaultFunc(fn func() any) FieldOption {
	return func(f *Field) {
		if fn != nil {
			f.Default = fn
		}
	}
}

// WithType overrides the field's SQL column type.
func WithType(sqlType string) FieldOption {
	return func(f *Field) {
		if sqlType != "" {
			f.SQLType = sqlType
		}
	}
}

func newField(name, sqlType string, def any, opts []FieldOption) Field {
	f := Field{
		Name:    name,
		SQLType: sqlType,
		Default: def,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// StringField declares a varchar(100) column with no default.
func StringField(name string, opts ...FieldOption) Field {
	return newField(name, "varchar(100)", nil, opts)
}

// BoolField declares a boolean column defaulting to false.
func BoolField(name string, opts ...FieldOption) Field {
	return newField(name, "boolean", false, opts)
}

// IntField declares a bigint column defaulting to 0.
func IntField(name string, opts ...FieldOption) Field {
	return newField(name, "bigint", int64(0), opts)
}

// FloatField declares a double precision column defaulting to 0.
func FloatField(name string, opts ...FieldOption) Field {
	return newField(name, "double precision", float64(0), opts)
}

// TextField declares a text column with no default.
func TextField(name string, opts ...FieldOption) Field {
	return newField(name, "text", nil, opts)
}

// HasDefault reports whether the field carries a default value or factory.
func (f Field) HasDefault() bool {
	return f.Default != nil
}

// DefaultValue returns the default, invoking the factory when one is set.
func (f Field) DefaultValue() any {
	if fn, ok := f.Default.(func() any); ok {
		return fn()
	}
	return f.Default
}
