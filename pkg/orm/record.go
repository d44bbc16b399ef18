package orm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Record is one entity instance: field values keyed by name, bound to the
// Model that loads and persists it. A nil value means the field is unset.
//
// Records may also carry values that are not columns (for example rendered
// HTML attached by a handler). Those are serialized to JSON but never
// written to the database.
//
// A Record is not safe for concurrent use.
type Record struct {
	model  *Model
	values map[string]any
}

// Model returns the model the record belongs to.
func (r *Record) Model() *Model { return r.model }

// Get returns the current value of name, or nil if unset.
func (r *Record) Get(name string) any {
	return r.values[name]
}

// Set assigns a value to name.
func (r *Record) Set(name string, value any) {
	r.values[name] = value
}

// Has reports whether name holds a non-nil value.
func (r *Record) Has(name string) bool {
	return r.values[name] != nil
}

// ID returns the primary key value.
func (r *Record) ID() any {
	return r.values[r.model.schema.primaryKey]
}

// Values returns a copy of all values held by the record.
func (r *Record) Values() map[string]any {
	return maps.Clone(r.values)
}

// Clone returns an independent copy bound to the same model.
func (r *Record) Clone() *Record {
	return &Record{model: r.model, values: maps.Clone(r.values)}
}

// ValueOrDefault returns the value of name, falling back to the field's
// default. A computed default is stored on the record so later calls
// return the same value.
func (r *Record) ValueOrDefault(name string) any {
	if v := r.values[name]; v != nil {
		return v
	}
	f, ok := r.model.schema.Field(name)
	if !ok || !f.HasDefault() {
		return nil
	}
	v := f.DefaultValue()
	r.values[name] = v
	return v
}

// String returns name as a string. Unset values yield "".
func (r *Record) String(name string) string {
	switch v := r.values[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns name as a bool. Numeric values are true when non-zero.
func (r *Record) Bool(name string) bool {
	switch v := r.values[name].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int32:
		return v != 0
	case int:
		return v != 0
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// Float returns name as a float64. Unconvertible values yield 0.
func (r *Record) Float(name string) float64 {
	switch v := r.values[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Int64 returns name as an int64. Unconvertible values yield 0.
func (r *Record) Int64(name string) int64 {
	switch v := r.values[name].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// InsertArgs returns the insert statement parameters: ordinary fields in
// declaration order and then the primary key, each resolved with defaults.
func (r *Record) InsertArgs() []any {
	s := r.model.schema
	args := make([]any, 0, len(s.fields)+1)
	for _, name := range s.fields {
		args = append(args, r.ValueOrDefault(name))
	}
	return append(args, r.ValueOrDefault(s.primaryKey))
}

// UpdateArgs returns the update statement parameters: ordinary fields in
// declaration order and then the primary key, without default substitution.
func (r *Record) UpdateArgs() []any {
	s := r.model.schema
	args := make([]any, 0, len(s.fields)+1)
	for _, name := range s.fields {
		args = append(args, r.values[name])
	}
	return append(args, r.values[s.primaryKey])
}

// Save inserts the record. Unset fields take their defaults.
func (r *Record) Save(ctx context.Context) error {
	s := r.model.schema
	n, err := r.model.execute(ctx, s.insertSQL, r.InsertArgs())
	if err != nil {
		return fmt.Errorf("orm: insert into %s: %w", s.table, err)
	}
	r.model.checkAffected(ctx, "insert", n)
	return nil
}

// Update writes current values to the row with the record's primary key.
// Unset fields are written as NULL.
func (r *Record) Update(ctx context.Context) error {
	s := r.model.schema
	n, err := r.model.execute(ctx, s.updateSQL, r.UpdateArgs())
	if err != nil {
		return fmt.Errorf("orm: update %s: %w", s.table, err)
	}
	r.model.checkAffected(ctx, "update", n)
	return nil
}

// Remove deletes the row with the record's primary key.
// The record must not be persisted again afterwards.
func (r *Record) Remove(ctx context.Context) error {
	s := r.model.schema
	n, err := r.model.execute(ctx, s.deleteSQL, []any{r.ID()})
	if err != nil {
		return fmt.Errorf("orm: delete from %s: %w", s.table, err)
	}
	r.model.checkAffected(ctx, "delete", n)
	return nil
}

// MarshalJSON encodes the columns in schema order followed by any extra
// values in key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	columns := r.model.schema.Columns()
	extra := make([]string, 0)
	for k := range r.values {
		if _, ok := r.model.schema.mappings[k]; !ok {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range append(columns, extra...) {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("orm: encode %s: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
