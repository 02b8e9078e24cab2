package table

import (
	"github.com/leapstack-labs/feedlint/pkg/fieldtype"
	"github.com/leapstack-labs/feedlint/pkg/notice"
	"github.com/leapstack-labs/feedlint/pkg/schema"
)

// Container holds every entity of one file together with its primary key
// map and secondary indices. It is read-only after construction, so any
// number of validators may query it concurrently.
type Container struct {
	schema   *schema.TableSchema
	present  bool
	entities []*Entity
	pkField  string
	byPK     map[fieldtype.Value]*Entity
	indices  map[string]map[fieldtype.Value][]*Entity
}

// NewContainer builds the container for a file that was present in the
// dataset. Indices are built once here. When two entities share a primary
// key the first one wins and a duplicate_key notice is sent to sink; both
// entities stay in All.
func NewContainer(s *schema.TableSchema, entities []*Entity, sink notice.Sink) *Container {
	c := &Container{
		schema:   s,
		present:  true,
		entities: entities,
		byPK:     make(map[fieldtype.Value]*Entity),
		indices:  make(map[string]map[fieldtype.Value][]*Entity),
	}
	if pk, ok := s.PrimaryKey(); ok {
		c.pkField = pk.Name
	}
	for _, name := range s.IndexedFields() {
		c.indices[name] = make(map[fieldtype.Value][]*Entity)
	}

	for _, e := range entities {
		for name, idx := range c.indices {
			if v, ok := e.Get(name); ok {
				idx[v] = append(idx[v], e)
			}
		}

		if c.pkField == "" {
			continue
		}
		key, ok := e.Get(c.pkField)
		if !ok {
			continue
		}
		if prev, dup := c.byPK[key]; dup {
			sink.Add(notice.DuplicateKey.New(
				notice.F("filename", s.FileName),
				notice.F("fieldName", c.pkField),
				notice.F("fieldValue", fieldtype.Format(key)),
				notice.F("oldCsvRowNumber", prev.Row()),
				notice.F("newCsvRowNumber", e.Row())))
			continue
		}
		c.byPK[key] = e
	}
	return c
}

// emptyContainer stands in for a known file absent from the dataset.
func emptyContainer(s *schema.TableSchema) *Container {
	return &Container{
		schema:  s,
		byPK:    map[fieldtype.Value]*Entity{},
		indices: map[string]map[fieldtype.Value][]*Entity{},
	}
}

// Schema returns the file's schema.
func (c *Container) Schema() *schema.TableSchema { return c.schema }

// File returns the file name.
func (c *Container) File() string { return c.schema.FileName }

// Present reports whether the file was part of the dataset.
func (c *Container) Present() bool { return c.present }

// All returns the entities in file order. The slice must not be modified.
func (c *Container) All() []*Entity { return c.entities }

// Len returns the number of entities.
func (c *Container) Len() int { return len(c.entities) }

// ByPrimaryKey returns the entity designated by key.
func (c *Container) ByPrimaryKey(key fieldtype.Value) (*Entity, bool) {
	e, ok := c.byPK[key]
	return e, ok
}

// ByIndex returns the entities whose field equals key, in file order.
// Fields without a declared index are scanned.
func (c *Container) ByIndex(field string, key fieldtype.Value) []*Entity {
	if idx, ok := c.indices[field]; ok {
		return idx[key]
	}
	var out []*Entity
	for _, e := range c.entities {
		if v, ok := e.Get(field); ok && v == key {
			out = append(out, e)
		}
	}
	return out
}
