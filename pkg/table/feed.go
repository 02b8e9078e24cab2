package table

import (
	"sort"

	"github.com/leapstack-labs/feedlint/pkg/schema"
)

// Feed is the loaded dataset: one container per known file. Files absent
// from the dataset have an empty container.
type Feed struct {
	registry *schema.Registry
	tables   map[string]*Container
}

// NewFeed assembles a feed from prebuilt containers. Known files without a
// container get an empty one.
func NewFeed(reg *schema.Registry, containers ...*Container) *Feed {
	f := &Feed{registry: reg, tables: make(map[string]*Container, len(containers))}
	for _, c := range containers {
		f.tables[c.File()] = c
	}
	for _, name := range reg.Files() {
		if _, ok := f.tables[name]; !ok {
			s, _ := reg.Get(name)
			f.tables[name] = emptyContainer(s)
		}
	}
	return f
}

// Registry returns the schema registry the feed was loaded with.
func (f *Feed) Registry() *schema.Registry { return f.registry }

// Table returns the container for a file. It returns nil only for file
// names the registry does not know.
func (f *Feed) Table(name string) *Container { return f.tables[name] }

// Missing reports whether a known file was absent from the dataset.
func (f *Feed) Missing(name string) bool {
	c, ok := f.tables[name]
	return ok && !c.Present()
}

// Present returns the names of the files that were loaded, sorted.
func (f *Feed) Present() []string {
	var out []string
	for name, c := range f.tables {
		if c.Present() {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
