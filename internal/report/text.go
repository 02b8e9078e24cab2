package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

func writeText(w io.Writer, r *Report, styles *Styles) error {
	title := "Validation report"
	if r.Feed != "" {
		title += ": " + r.Feed
	}
	_, _ = fmt.Fprintln(w, styles.Header.Render(title))
	_, _ = fmt.Fprintln(w)

	if r.Summary.Total == 0 {
		_, _ = fmt.Fprintln(w, styles.Success.Render("No notices."))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Code", "Severity", "Notices"})
	for _, g := range r.Notices {
		t.AppendRow(table.Row{g.Code, styles.Severity(g.Severity).Render(g.Severity.String()), g.Total})
	}
	t.AppendFooter(table.Row{"", "total", r.Summary.Total})
	t.Render()

	_, _ = fmt.Fprintf(w, "\n%s, %s, %s",
		styles.Error.Render(plural(r.Summary.Errors, "error")),
		styles.Warning.Render(plural(r.Summary.Warnings, "warning")),
		styles.Info.Render(plural(r.Summary.Infos, "info notice")))
	if r.Duration > 0 {
		_, _ = fmt.Fprintf(w, " %s", styles.Muted.Render(fmt.Sprintf("(%s)", r.Duration.Round(time.Millisecond))))
	}
	_, _ = fmt.Fprintln(w)

	if !r.opts.Verbose {
		return nil
	}
	for _, g := range r.Notices {
		_, _ = fmt.Fprintf(w, "\n%s %s\n", styles.Bold.Render(g.Code), styles.Muted.Render(fmt.Sprintf("(%d)", g.Total)))
		for _, s := range g.Samples {
			_, _ = fmt.Fprintf(w, "  %s\n", s)
		}
		if hidden := g.Total - len(g.Samples); hidden > 0 {
			_, _ = fmt.Fprintln(w, styles.Muted.Render(fmt.Sprintf("  ... %d more", hidden)))
		}
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
