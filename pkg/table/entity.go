package table

import (
	"github.com/leapstack-labs/feedlint/pkg/fieldtype"
	"github.com/leapstack-labs/feedlint/pkg/schema"
)

// Entity is one typed row of a dataset file. It is immutable after load.
type Entity struct {
	file   string
	row    int
	values schema.Record
}

// NewEntity wraps a parsed record. The record must not be modified
// afterwards.
func NewEntity(file string, row int, values schema.Record) *Entity {
	if values == nil {
		values = schema.Record{}
	}
	return &Entity{file: file, row: row, values: values}
}

// File returns the name of the file the entity was read from.
func (e *Entity) File() string { return e.file }

// Row returns the 1-based row number, header excluded.
func (e *Entity) Row() int { return e.row }

// Has reports whether the field holds a value.
func (e *Entity) Has(field string) bool {
	_, ok := e.values[field]
	return ok
}

// Get returns the typed value of a field.
func (e *Entity) Get(field string) (fieldtype.Value, bool) {
	v, ok := e.values[field]
	return v, ok
}

// String returns the canonical text of a field, or "" when absent.
func (e *Entity) String(field string) string {
	return fieldtype.Format(e.values[field])
}

// Int returns an integer or enum field.
func (e *Entity) Int(field string) (int, bool) {
	v, ok := e.values[field].(int)
	return v, ok
}

// Float returns a float, latitude or longitude field.
func (e *Entity) Float(field string) (float64, bool) {
	v, ok := e.values[field].(float64)
	return v, ok
}

// Time returns a time of day field.
func (e *Entity) Time(field string) (fieldtype.ServiceTime, bool) {
	v, ok := e.values[field].(fieldtype.ServiceTime)
	return v, ok
}
