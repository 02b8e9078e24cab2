package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/feedlint/internal/report"
	"github.com/leapstack-labs/feedlint/internal/state"
	"github.com/leapstack-labs/feedlint/pkg/notice"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit  int
	Format string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded validation runs",
		Long: `List recent validation runs from the history database configured with
state_path (or --state). Pass a run ID to see its per-code notice counts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := NewCommandContext(cmd, opts.Format)
			if err != nil {
				return err
			}
			store, err := cctx.OpenStore()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("no history database configured; set state_path or pass --state")
			}
			defer store.Close()

			if len(args) > 0 {
				return showRun(cmd, store, args[0], cctx.Format)
			}
			return listRuns(cmd, store, opts.Limit, cctx.Format)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

func listRuns(cmd *cobra.Command, store state.Store, limit int, format report.Format) error {
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	switch format.Resolve(w) {
	case report.FormatJSON:
		return report.EncodeJSON(w, runs)
	case report.FormatYAML:
		return report.EncodeYAML(w, runs)
	}

	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Feed", "Status", "Started", "Duration", "Errors", "Warnings", "Infos"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID, r.Feed, r.Status, r.StartedAt.Local().Format(time.DateTime),
			r.Duration().Round(time.Millisecond), r.Errors, r.Warnings, r.Infos,
		})
	}
	if format.Resolve(w) == report.FormatMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	return nil
}

// RunDetail is the JSON and YAML form of one run.
type RunDetail struct {
	state.Run `yaml:",inline"`
	Notices   []runNotice `json:"notices" yaml:"notices"`
}

type runNotice struct {
	Code     string          `json:"code" yaml:"code"`
	Severity notice.Severity `json:"severity" yaml:"severity"`
	Count    int             `json:"count" yaml:"count"`
}

func showRun(cmd *cobra.Command, store state.Store, id string, format report.Format) error {
	ctx := cmd.Context()
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}
	counts, err := store.RunNotices(ctx, id)
	if err != nil {
		return err
	}

	detail := RunDetail{Run: *run, Notices: make([]runNotice, 0, len(counts))}
	for _, c := range counts {
		detail.Notices = append(detail.Notices, runNotice{Code: c.Code, Severity: c.Severity, Count: c.Count})
	}

	w := cmd.OutOrStdout()
	switch format.Resolve(w) {
	case report.FormatJSON:
		return report.EncodeJSON(w, detail)
	case report.FormatYAML:
		return report.EncodeYAML(w, detail)
	}

	_, _ = fmt.Fprintf(w, "Run %s\n", run.ID)
	_, _ = fmt.Fprintf(w, "  Feed:     %s\n", run.Feed)
	_, _ = fmt.Fprintf(w, "  Status:   %s\n", run.Status)
	_, _ = fmt.Fprintf(w, "  Started:  %s\n", run.StartedAt.Local().Format(time.DateTime))
	if run.Error != "" {
		_, _ = fmt.Fprintf(w, "  Error:    %s\n", run.Error)
	}
	if len(counts) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(w)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Code", "Severity", "Notices"})
	for _, c := range counts {
		t.AppendRow(table.Row{c.Code, c.Severity, c.Count})
	}
	t.Render()
	return nil
}
