package table

import (
	"cmp"
	"slices"

	"github.com/leapstack-labs/feedlint/pkg/fieldtype"
)

// Groups is a view of a container partitioned by one field. Keys keep the
// order in which they were first seen in the file.
type Groups struct {
	keys   []fieldtype.Value
	groups map[fieldtype.Value][]*Entity
}

// GroupedBy partitions the entities by field. Entities without a value for
// the field belong to no group.
func (c *Container) GroupedBy(field string) *Groups {
	g := &Groups{groups: make(map[fieldtype.Value][]*Entity)}
	for _, e := range c.entities {
		key, ok := e.Get(field)
		if !ok {
			continue
		}
		if _, seen := g.groups[key]; !seen {
			g.keys = append(g.keys, key)
		}
		g.groups[key] = append(g.groups[key], e)
	}
	return g
}

// SortedGroups partitions by groupField and orders each group by
// orderField. The sort is stable; entities lacking an order value go last.
func (c *Container) SortedGroups(groupField, orderField string) *Groups {
	g := c.GroupedBy(groupField)
	for _, key := range g.keys {
		slices.SortStableFunc(g.groups[key], func(a, b *Entity) int {
			av, aok := a.Get(orderField)
			bv, bok := b.Get(orderField)
			switch {
			case !aok && !bok:
				return 0
			case !aok:
				return 1
			case !bok:
				return -1
			}
			return compareValues(av, bv)
		})
	}
	return g
}

// Keys returns the group keys in first-seen order.
func (g *Groups) Keys() []fieldtype.Value { return g.keys }

// Len returns the number of groups.
func (g *Groups) Len() int { return len(g.keys) }

// Get returns the entities of one group.
func (g *Groups) Get(key fieldtype.Value) []*Entity { return g.groups[key] }

// Each calls fn for every group in key order.
func (g *Groups) Each(fn func(key fieldtype.Value, entities []*Entity)) {
	for _, k := range g.keys {
		fn(k, g.groups[k])
	}
}

func compareValues(a, b fieldtype.Value) int {
	switch x := a.(type) {
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case fieldtype.ServiceTime:
		if y, ok := b.(fieldtype.ServiceTime); ok {
			return cmp.Compare(x.Seconds(), y.Seconds())
		}
	case fieldtype.CalendarDate:
		if y, ok := b.(fieldtype.CalendarDate); ok {
			return x.Time().Compare(y.Time())
		}
	}
	return cmp.Compare(fieldtype.Format(a), fieldtype.Format(b))
}
