// Package schema declares the structure of dataset files: which columns a
// file has, their types, which of them are keys and how files reference
// each other.
//
// Schemas are static data built once at startup. Conditionally required
// fields are recorded here as metadata only; the rules deciding when such
// a field is mandatory live in dedicated validators.
package schema

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/feedlint/pkg/fieldtype"
)

// Setup errors. They indicate a broken schema declaration, never bad data.
var (
	ErrEmptyFileName       = errors.New("schema has no file name")
	ErrEmptyFieldName      = errors.New("field has no name")
	ErrDuplicateField      = errors.New("duplicate field")
	ErrDuplicatePrimaryKey = errors.New("more than one primary key")
	ErrNotKeyable          = errors.New("field type cannot be used as a key")
	ErrDuplicateTable      = errors.New("duplicate table")
	ErrUnknownReference    = errors.New("foreign key references an unknown table or field")
)

// Reference names the (table, field) a foreign key points at.
type Reference struct {
	Table string
	Field string
}

func (r Reference) String() string { return r.Table + "." + r.Field }

// FieldSpec declares one column of a file.
type FieldSpec struct {
	Name                  string
	Type                  fieldtype.Type
	Required              bool
	ConditionallyRequired bool
	PrimaryKey            bool
	Indexed               bool
	ForeignKey            *Reference
	EnumValues            []int // allowed values when Type is fieldtype.Enum
	MixedCase             bool  // human readable text expected in mixed case
}

// IsRequired reports whether a value must be present. Primary keys are
// always required.
func (f FieldSpec) IsRequired() bool { return f.Required || f.PrimaryKey }

// IsIndexed reports whether the table container builds an index on this
// field. Primary keys are always indexed.
func (f FieldSpec) IsIndexed() bool { return f.Indexed || f.PrimaryKey }

// AllowsEnum reports whether v is one of the declared enum values. A field
// without declared values accepts any integer.
func (f FieldSpec) AllowsEnum(v int) bool {
	if len(f.EnumValues) == 0 {
		return true
	}
	for _, e := range f.EnumValues {
		if e == v {
			return true
		}
	}
	return false
}

// TableSchema declares one dataset file.
type TableSchema struct {
	FileName string
	Required bool
	Fields   []FieldSpec
}

// Field returns the declaration of the named field.
func (s *TableSchema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// PrimaryKey returns the primary key field, if the file has one.
func (s *TableSchema) PrimaryKey() (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.PrimaryKey {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// IndexedFields returns the names of all indexed fields in declaration order.
func (s *TableSchema) IndexedFields() []string {
	var out []string
	for _, f := range s.Fields {
		if f.IsIndexed() {
			out = append(out, f.Name)
		}
	}
	return out
}

// ForeignKeys returns the fields carrying a foreign key reference.
func (s *TableSchema) ForeignKeys() []FieldSpec {
	var out []FieldSpec
	for _, f := range s.Fields {
		if f.ForeignKey != nil {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks the declaration for structural mistakes.
func (s *TableSchema) Validate() error {
	if s.FileName == "" {
		return ErrEmptyFileName
	}

	seen := make(map[string]bool, len(s.Fields))
	pk := ""
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("%s: %w", s.FileName, ErrEmptyFieldName)
		}
		if seen[f.Name] {
			return fmt.Errorf("%s: %w: %s", s.FileName, ErrDuplicateField, f.Name)
		}
		seen[f.Name] = true

		if f.PrimaryKey {
			if pk != "" {
				return fmt.Errorf("%s: %w: %s and %s", s.FileName, ErrDuplicatePrimaryKey, pk, f.Name)
			}
			pk = f.Name
		}
		if (f.IsIndexed() || f.ForeignKey != nil) && !f.Type.IsKeyable() {
			return fmt.Errorf("%s.%s: %w: %s", s.FileName, f.Name, ErrNotKeyable, f.Type)
		}
	}
	return nil
}
