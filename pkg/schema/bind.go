package schema

import (
	"errors"
	"strings"

	"github.com/leapstack-labs/feedlint/pkg/fieldtype"
	"github.com/leapstack-labs/feedlint/pkg/notice"
)

// RawRow is one data row as delivered by the input boundary.
type RawRow struct {
	File   string
	Number int // 1-based, header excluded
	Values []string
}

// Record holds the parsed values of one row. Absent fields have no entry.
type Record map[string]fieldtype.Value

// Binding maps a schema onto the column layout of one file's header.
type Binding struct {
	schema  *TableSchema
	columns map[string]int
}

// Bind records the position of every known column and reports header
// problems to sink. Only the first occurrence of a duplicated column is
// bound. Conditionally required fields are not checked.
func (s *TableSchema) Bind(header []string, sink notice.Sink) *Binding {
	b := &Binding{schema: s, columns: make(map[string]int, len(header))}
	file := notice.F("filename", s.FileName)

	for i, raw := range header {
		name := strings.TrimSpace(raw)
		switch {
		case name == "":
			sink.Add(notice.EmptyColumnName.New(file, notice.F("index", i+1)))
		case hasColumn(b.columns, name):
			sink.Add(notice.DuplicatedColumn.New(file,
				notice.F("fieldName", name),
				notice.F("firstIndex", b.columns[name]+1),
				notice.F("secondIndex", i+1)))
		default:
			if _, ok := s.Field(name); !ok {
				sink.Add(notice.UnknownColumn.New(file, notice.F("fieldName", name), notice.F("index", i+1)))
				continue
			}
			b.columns[name] = i
		}
	}

	for _, f := range s.Fields {
		if f.IsRequired() && !hasColumn(b.columns, f.Name) {
			sink.Add(notice.MissingRequiredColumn.New(file, notice.F("fieldName", f.Name)))
		}
	}
	return b
}

func hasColumn(columns map[string]int, name string) bool {
	_, ok := columns[name]
	return ok
}

// Schema returns the bound schema.
func (b *Binding) Schema() *TableSchema { return b.schema }

// HasColumn reports whether the header contained the named field.
func (b *Binding) HasColumn(name string) bool { return hasColumn(b.columns, name) }

// Parse converts one raw row into a record. A row whose columns are all
// blank yields only an empty_row notice and no record. Otherwise every bound
// field is parsed; fields that fail to parse are left out of the record.
func (b *Binding) Parse(row RawRow, sink notice.Sink) (Record, bool) {
	if isBlank(row.Values) {
		sink.Add(notice.EmptyRow.New(notice.F("filename", row.File), notice.F("csvRowNumber", row.Number)))
		return nil, false
	}

	rec := make(Record, len(b.columns))
	for _, f := range b.schema.Fields {
		pos, ok := b.columns[f.Name]
		if !ok {
			continue
		}
		raw := ""
		if pos < len(row.Values) {
			raw = row.Values[pos]
		}
		if v, ok := b.parseField(f, raw, row, sink); ok {
			rec[f.Name] = v
		}
	}
	return rec, true
}

func (b *Binding) parseField(f FieldSpec, raw string, row RawRow, sink notice.Sink) (fieldtype.Value, bool) {
	at := func(extra ...notice.Field) []notice.Field {
		return append([]notice.Field{
			notice.F("filename", row.File),
			notice.F("csvRowNumber", row.Number),
			notice.F("fieldName", f.Name),
		}, extra...)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if f.IsRequired() {
			sink.Add(notice.MissingRequiredField.New(at()...))
		}
		return nil, false
	}
	if trimmed != raw {
		sink.Add(notice.LeadingOrTrailingWhitespaces.New(at(notice.F("fieldValue", raw))...))
	}

	v, err := fieldtype.Parse(f.Type, trimmed)
	if err != nil {
		var rangeErr *fieldtype.RangeError
		if errors.As(err, &rangeErr) {
			sink.Add(notice.NumberOutOfRange.New(at(
				notice.F("fieldType", f.Type.String()),
				notice.F("fieldValue", trimmed),
				notice.F("allowedRange", rangeErr.Range()))...))
			return v, true
		}

		reason := err.Error()
		var parseErr *fieldtype.ParseError
		if errors.As(err, &parseErr) {
			reason = parseErr.Reason
		}
		sink.Add(notice.FieldParseError.New(at(
			notice.F("fieldType", f.Type.String()),
			notice.F("fieldValue", raw),
			notice.F("reason", reason))...))
		return nil, false
	}

	if f.Type == fieldtype.Enum {
		if n, ok := v.(int); ok && !f.AllowsEnum(n) {
			sink.Add(notice.UnexpectedEnumValue.New(at(notice.F("fieldValue", trimmed))...))
		}
	}
	return v, true
}

func isBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
