package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/feedlint/internal/report"
	"github.com/leapstack-labs/feedlint/pkg/notice"
	"github.com/leapstack-labs/feedlint/pkg/validator"
	_ "github.com/leapstack-labs/feedlint/pkg/validator/rules"
)

// generateNoticeDocs writes the notice reference and the validator list.
// The notice page is checked against the registered notices before it is
// written.
func generateNoticeDocs(outDir string) error {
	log.Printf("Generating notice docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var body bytes.Buffer
	if err := report.WriteNoticeDocs(&body, notice.All()); err != nil {
		return err
	}
	doc, err := notice.ParseDocument(bytes.NewReader(body.Bytes()))
	if err != nil {
		return err
	}
	if err := notice.CheckDocument(doc); err != nil {
		return fmt.Errorf("generated notice reference is inconsistent: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Notices", "Every notice feedlint can raise")
	w.GeneratedMarker()
	w.Raw(body.String())
	if err := os.WriteFile(filepath.Join(outDir, "notices.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated notices.md")

	if err := generateValidatorsPage(outDir); err != nil {
		return err
	}
	log.Printf("  Generated validators.md")
	return nil
}

func generateValidatorsPage(outDir string) error {
	w := NewMarkdownWriter()
	w.Frontmatter("Validators", "Built-in feedlint validators")
	w.GeneratedMarker()

	w.Header(1, "Validators")
	w.Paragraph(fmt.Sprintf("feedlint runs %s over every feed. Any of them can be skipped with %s.",
		Bold(fmt.Sprintf("%d validators", validator.Count())), InlineCode("--disable <name>")))

	headers := []string{"Validator", "Files", "Notices", "Description"}
	var rows [][]string
	for _, v := range validator.All() {
		var files, codes []string
		for _, f := range v.Tables() {
			files = append(files, InlineCode(f))
		}
		for _, k := range v.Notices() {
			codes = append(codes, fmt.Sprintf("[%s](notices.md#%s)", InlineCode(k.Code()), k.Code()))
		}
		rows = append(rows, []string{
			InlineCode(v.Name()),
			strings.Join(files, ", "),
			strings.Join(codes, "<br>"),
			cleanDescription(v.Description()),
		})
	}
	w.Table(headers, rows)

	return os.WriteFile(filepath.Join(outDir, "validators.md"), w.Bytes(), 0600)
}
