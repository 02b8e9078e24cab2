package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/feedlint/pkg/notice"
)

// Catalog is the JSON and YAML form of the notice listing.
type Catalog struct {
	Notices []notice.Descriptor `json:"notices" yaml:"notices"`
	Count   struct {
		Errors   int `json:"errors" yaml:"errors"`
		Warnings int `json:"warnings" yaml:"warnings"`
		Infos    int `json:"infos" yaml:"infos"`
		Total    int `json:"total" yaml:"total"`
	} `json:"count" yaml:"count"`
}

// WriteCatalog lists notice kinds. The markdown format produces the full
// reference document with one anchor and one code header per kind.
func WriteCatalog(w io.Writer, format Format, descs []notice.Descriptor) error {
	switch format.Resolve(w) {
	case FormatJSON, FormatYAML:
		var c Catalog
		c.Notices = descs
		for _, d := range descs {
			switch d.Severity {
			case notice.SeverityError:
				c.Count.Errors++
			case notice.SeverityWarning:
				c.Count.Warnings++
			default:
				c.Count.Infos++
			}
		}
		c.Count.Total = len(descs)
		if format == FormatYAML {
			return EncodeYAML(w, c)
		}
		return EncodeJSON(w, c)
	case FormatMarkdown:
		return WriteNoticeDocs(w, descs)
	default:
		return writeCatalogText(w, descs, NewStyles(w))
	}
}

func writeCatalogText(w io.Writer, descs []notice.Descriptor, styles *Styles) error {
	_, _ = fmt.Fprintln(w, styles.Header.Render(fmt.Sprintf("Notices (%d)", len(descs))))
	_, _ = fmt.Fprintln(w)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Code", "Severity", "Description"})
	for _, d := range descs {
		t.AppendRow(table.Row{
			d.Code,
			styles.Severity(d.Severity).Render(d.Severity.String()),
			truncateOneLine(d.Description, 80),
		})
	}
	t.Render()

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.Muted.Render("Use 'feedlint notices <code>' for the full documentation"))
	return nil
}

// WriteNotice renders the documentation of one notice kind.
func WriteNotice(w io.Writer, format Format, d notice.Descriptor) error {
	switch format.Resolve(w) {
	case FormatJSON:
		return EncodeJSON(w, d)
	case FormatYAML:
		return EncodeYAML(w, d)
	case FormatMarkdown:
		writeNoticeSection(w, d)
		return nil
	default:
		return writeNoticeText(w, d, NewStyles(w))
	}
}

func writeNoticeText(w io.Writer, d notice.Descriptor, styles *Styles) error {
	_, _ = fmt.Fprintln(w, styles.Header.Render(d.Code))
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "  %s: %s\n", styles.Bold.Render("Kind"), d.Name)
	_, _ = fmt.Fprintf(w, "  %s: %s\n\n", styles.Bold.Render("Severity"), styles.Severity(d.Severity).Render(d.Severity.String()))
	_, _ = fmt.Fprintln(w, "  "+d.Description)

	if len(d.Fields) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.Bold.Render("Fields"))
		for _, f := range d.Fields {
			_, _ = fmt.Fprintf(w, "  %s  %s\n", styles.Muted.Render(f.Name), f.Description)
		}
	}
	if len(d.Files) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "%s: %s\n", styles.Bold.Render("Files"), strings.Join(d.Files, ", "))
	}
	for _, u := range d.URLs {
		_, _ = fmt.Fprintf(w, "%s: %s\n", styles.Bold.Render(u.Label), u.URL)
	}
	return nil
}

// WriteNoticeDocs writes the markdown notice reference. Kinds are grouped
// by severity; each section opens with an anchor named after the kind and
// a level three header holding its code.
func WriteNoticeDocs(w io.Writer, descs []notice.Descriptor) error {
	_, _ = fmt.Fprintln(w, "# Notice reference")

	for _, sev := range []notice.Severity{notice.SeverityError, notice.SeverityWarning, notice.SeverityInfo} {
		var group []notice.Descriptor
		for _, d := range descs {
			if d.Severity == sev {
				group = append(group, d)
			}
		}
		if len(group) == 0 {
			continue
		}

		_, _ = fmt.Fprintf(w, "\n## %ss\n\n", capitalizeFirst(sev.String()))
		_, _ = fmt.Fprintln(w, "| Code | Kind |")
		_, _ = fmt.Fprintln(w, "| --- | --- |")
		for _, d := range group {
			_, _ = fmt.Fprintf(w, "| [`%s`](#%s) | %s |\n", d.Code, d.Name, d.Name)
		}
		for _, d := range group {
			_, _ = fmt.Fprintln(w)
			writeNoticeSection(w, d)
		}
	}
	return nil
}

func writeNoticeSection(w io.Writer, d notice.Descriptor) {
	_, _ = fmt.Fprintf(w, "<a name=\"%s\"/>\n\n", d.Name)
	_, _ = fmt.Fprintf(w, "### %s\n\n", d.Code)
	_, _ = fmt.Fprintf(w, "%s\n", d.Description)

	if len(d.Fields) > 0 {
		_, _ = fmt.Fprintln(w, "\n#### Fields\n\n| Field | Description |\n| --- | --- |")
		for _, f := range d.Fields {
			_, _ = fmt.Fprintf(w, "| `%s` | %s |\n", f.Name, escapeCell(f.Description))
		}
	}
	if len(d.Files) > 0 || len(d.Sections) > 0 || len(d.URLs) > 0 {
		_, _ = fmt.Fprintln(w, "\n#### References")
		_, _ = fmt.Fprintln(w)
		for _, f := range d.Files {
			_, _ = fmt.Fprintf(w, "- `%s`\n", f)
		}
		for _, s := range d.Sections {
			_, _ = fmt.Fprintf(w, "- %s\n", s)
		}
		for _, u := range d.URLs {
			_, _ = fmt.Fprintf(w, "- [%s](%s)\n", u.Label, u.URL)
		}
	}
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
