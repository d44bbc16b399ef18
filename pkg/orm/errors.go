package orm

import "errors"

var (
	ErrEmptyTable          = errors.New("orm: table name is empty")
	ErrEmptyFieldName      = errors.New("orm: field name is empty")
	ErrNoPrimaryKey        = errors.New("orm: primary key not found")
	ErrDuplicatePrimaryKey = errors.New("orm: duplicate primary key")
	ErrDuplicateField      = errors.New("orm: duplicate field")
	ErrSchemaRegistered    = errors.New("orm: schema already registered")
	ErrInvalidLimit        = errors.New("orm: invalid limit value")
	ErrNotFound            = errors.New("orm: record not found")
	ErrNoExecutor          = errors.New("orm: model has no executor")
)
