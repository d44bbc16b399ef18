package orm

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Schema is the immutable mapping of one entity type onto a table.
// Statement templates are built once by NewSchema and use "?" placeholders.
type Schema struct {
	mappings   map[string]Field
	table      string
	primaryKey string
	fields     []string
	selectSQL  string
	insertSQL  string
	updateSQL  string
	deleteSQL  string
}

// NewSchema validates the field declarations for table and precomputes
// its select, insert, update and delete statements.
// Exactly one field must be marked as primary key.
func NewSchema(table string, fields ...Field) (*Schema, error) {
	if strings.TrimSpace(table) == "" {
		return nil, ErrEmptyTable
	}

	s := &Schema{
		table:    table,
		mappings: make(map[string]Field, len(fields)),
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, ErrEmptyFieldName
		}
		if _, ok := s.mappings[f.Name]; ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateField, table, f.Name)
		}
		s.mappings[f.Name] = f

		if f.PrimaryKey {
			if s.primaryKey != "" {
				return nil, fmt.Errorf("%w: %s has %s and %s", ErrDuplicatePrimaryKey, table, s.primaryKey, f.Name)
			}
			s.primaryKey = f.Name
			continue
		}
		s.fields = append(s.fields, f.Name)
	}

	if s.primaryKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoPrimaryKey, table)
	}

	s.buildStatements()
	return s, nil
}

// MustSchema is like NewSchema but panics on a declaration error.
// Intended for package-level schema variables.
func MustSchema(table string, fields ...Field) *Schema {
	s, err := NewSchema(table, fields...)
	if err != nil {
		panic(errors.Join(errors.New("orm: invalid schema declaration"), err))
	}
	return s
}

func (s *Schema) buildStatements() {
	table := quoteIdent(s.table)
	pk := quoteIdent(s.primaryKey)

	quoted := make([]string, len(s.fields))
	assignments := make([]string, len(s.fields))
	for i, name := range s.fields {
		quoted[i] = quoteIdent(name)
		assignments[i] = quoted[i] + "=?"
	}

	columns := append([]string{pk}, quoted...)
	insertColumns := append(slices.Clone(quoted), pk)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(insertColumns)), ", ")

	s.selectSQL = fmt.Sprintf("select %s from %s", strings.Join(columns, ", "), table)
	s.insertSQL = fmt.Sprintf("insert into %s (%s) values (%s)", table, strings.Join(insertColumns, ", "), placeholders)
	if len(assignments) > 0 {
		s.updateSQL = fmt.Sprintf("update %s set %s where %s=?", table, strings.Join(assignments, ", "), pk)
	} else {
		// Nothing besides the key to write; keep the statement valid and row-scoped.
		s.updateSQL = fmt.Sprintf("update %s set %s=%s where %s=?", table, pk, pk, pk)
	}
	s.deleteSQL = fmt.Sprintf("delete from %s where %s=?", table, pk)
}

// Table returns the mapped table name.
func (s *Schema) Table() string { return s.table }

// PrimaryKey returns the primary key field name.
func (s *Schema) PrimaryKey() string { return s.primaryKey }

// Fields returns the ordinary (non-key) field names in declaration order.
func (s *Schema) Fields() []string { return slices.Clone(s.fields) }

// Columns returns the primary key followed by the ordinary fields.
func (s *Schema) Columns() []string {
	return append([]string{s.primaryKey}, s.fields...)
}

// Field returns the descriptor for name.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.mappings[name]
	return f, ok
}

// SelectSQL returns the unfiltered select statement over all columns.
func (s *Schema) SelectSQL() string { return s.selectSQL }

// InsertSQL returns the insert statement.
// Parameters are the ordinary fields in declaration order, then the primary key.
func (s *Schema) InsertSQL() string { return s.insertSQL }

// UpdateSQL returns the update statement keyed on the primary key.
// Parameters are the ordinary fields in declaration order, then the primary key.
func (s *Schema) UpdateSQL() string { return s.updateSQL }

// DeleteSQL returns the delete statement keyed on the primary key.
func (s *Schema) DeleteSQL() string { return s.deleteSQL }

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
