package orm

import (
	"fmt"
	"slices"
	"sync"
)

// Registry keeps one schema per entity name.
// Schemas are registered once at startup and looked up afterwards.
type Registry struct {
	schemas map[string]*Schema
	mu      sync.RWMutex
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register stores schema under name.
// Returns ErrSchemaRegistered if the name is already taken.
func (r *Registry) Register(name string, schema *Schema) error {
	if schema == nil {
		return fmt.Errorf("orm: nil schema for %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schemas[name]; ok {
		return fmt.Errorf("%w: %s", ErrSchemaRegistered, name)
	}
	r.schemas[name] = schema
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, schema *Schema) *Schema {
	if err := r.Register(name, schema); err != nil {
		panic(err)
	}
	return schema
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the registered entity names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
