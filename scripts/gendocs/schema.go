package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/feedlint/pkg/gtfs"
	"github.com/leapstack-labs/feedlint/pkg/schema"
)

// generateSchemaDocs writes one section per declared file.
func generateSchemaDocs(outDir string) error {
	log.Printf("Generating schema docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Files", "Feed files and their columns")
	w.GeneratedMarker()
	w.Header(1, "Files")
	w.Paragraph("Columns not listed here are reported as " + InlineCode("unknown_column") + " and ignored.")

	for _, s := range gtfs.Schemas() {
		writeTableSchema(w, s)
	}

	if err := os.WriteFile(filepath.Join(outDir, "files.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated files.md")
	return nil
}

func writeTableSchema(w *MarkdownWriter, s schema.TableSchema) {
	w.Header(2, InlineCode(s.FileName))
	if s.Required {
		w.Paragraph(Bold("Required") + " file.")
	} else {
		w.Paragraph("Optional file.")
	}

	headers := []string{"Column", "Type", "Presence", "Key", "References"}
	var rows [][]string
	for _, f := range s.Fields {
		rows = append(rows, []string{
			InlineCode(f.Name),
			fieldTypeName(f),
			presence(f),
			keyKind(f),
			reference(f),
		})
	}
	w.Table(headers, rows)
}

func fieldTypeName(f schema.FieldSpec) string {
	if len(f.EnumValues) == 0 {
		return f.Type.String()
	}
	values := make([]string, len(f.EnumValues))
	for i, v := range f.EnumValues {
		values[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("%s (%s)", f.Type, strings.Join(values, ", "))
}

func presence(f schema.FieldSpec) string {
	switch {
	case f.IsRequired():
		return "Required"
	case f.ConditionallyRequired:
		return "Conditionally required"
	default:
		return "Optional"
	}
}

func keyKind(f schema.FieldSpec) string {
	switch {
	case f.PrimaryKey:
		return "Primary"
	case f.Indexed:
		return "Indexed"
	default:
		return ""
	}
}

func reference(f schema.FieldSpec) string {
	if f.ForeignKey == nil {
		return ""
	}
	return InlineCode(f.ForeignKey.String())
}
