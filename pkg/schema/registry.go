package schema

import (
	"fmt"
	"sort"
)

// Registry maps file names to schemas. It is immutable once built.
type Registry struct {
	tables map[string]*TableSchema
	files  []string
}

// NewRegistry validates the schemas and their cross references.
func NewRegistry(schemas ...TableSchema) (*Registry, error) {
	r := &Registry{tables: make(map[string]*TableSchema, len(schemas))}

	for i := range schemas {
		s := schemas[i]
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.tables[s.FileName]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTable, s.FileName)
		}
		r.tables[s.FileName] = &s
		r.files = append(r.files, s.FileName)
	}
	sort.Strings(r.files)

	for _, name := range r.files {
		for _, f := range r.tables[name].ForeignKeys() {
			ref := *f.ForeignKey
			target, ok := r.tables[ref.Table]
			if !ok {
				return nil, fmt.Errorf("%s.%s -> %s: %w", name, f.Name, ref, ErrUnknownReference)
			}
			pk, ok := target.PrimaryKey()
			if !ok || pk.Name != ref.Field {
				return nil, fmt.Errorf("%s.%s -> %s: %w", name, f.Name, ref, ErrUnknownReference)
			}
		}
	}
	return r, nil
}

// Get returns the schema for a file name.
func (r *Registry) Get(file string) (*TableSchema, bool) {
	s, ok := r.tables[file]
	return s, ok
}

// Files returns the known file names in sorted order.
func (r *Registry) Files() []string {
	out := make([]string, len(r.files))
	copy(out, r.files)
	return out
}
