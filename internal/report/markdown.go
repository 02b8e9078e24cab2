package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/feedlint/pkg/notice"
)

func writeMarkdown(w io.Writer, r *Report) error {
	title := "# Validation report"
	if r.Feed != "" {
		title += ": `" + r.Feed + "`"
	}
	_, _ = fmt.Fprintf(w, "%s\n\n", title)
	_, _ = fmt.Fprintf(w, "**Errors:** %d | **Warnings:** %d | **Infos:** %d\n\n",
		r.Summary.Errors, r.Summary.Warnings, r.Summary.Infos)

	if r.Summary.Total == 0 {
		_, _ = fmt.Fprintln(w, "No notices.")
		return nil
	}

	_, _ = fmt.Fprintln(w, "| Code | Severity | Notices |")
	_, _ = fmt.Fprintln(w, "| --- | --- | --- |")
	for _, g := range r.Notices {
		_, _ = fmt.Fprintf(w, "| `%s` | %s | %d |\n", g.Code, g.Severity, g.Total)
	}

	if !r.opts.Verbose {
		return nil
	}
	for _, g := range r.Notices {
		_, _ = fmt.Fprintf(w, "\n## %s\n\n", g.Code)
		if len(g.Samples) == 0 || len(g.Samples[0]) == 0 {
			_, _ = fmt.Fprintf(w, "%d notices without context.\n", g.Total)
			continue
		}
		cols := make([]string, len(g.Samples[0]))
		for i, f := range g.Samples[0] {
			cols[i] = f.Name
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))
		_, _ = fmt.Fprintf(w, "|%s\n", strings.Repeat(" --- |", len(cols)))
		for _, s := range g.Samples {
			vals := make([]string, len(cols))
			for i, name := range cols {
				vals[i] = escapeCell(sampleValue(s, name))
			}
			_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(vals, " | "))
		}
	}
	return nil
}

func sampleValue(s Sample, name string) string {
	for _, f := range s {
		if f.Name == name {
			return notice.FormatValue(f.Value)
		}
	}
	return ""
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
