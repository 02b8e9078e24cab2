package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/feedlint/internal/report"
	"github.com/leapstack-labs/feedlint/pkg/notice"
	_ "github.com/leapstack-labs/feedlint/pkg/validator/rules" // register rule notices
)

// NoticesOptions holds options for the notices command.
type NoticesOptions struct {
	Severity string // Filter by severity
	Format   string // Output format
}

// NewNoticesCommand creates the notices command.
func NewNoticesCommand() *cobra.Command {
	opts := &NoticesOptions{}
	cmd := &cobra.Command{
		Use:   "notices [code]",
		Short: "List the notices feedlint can report",
		Long: `List every notice kind with its code, severity and documentation.

With --format markdown the output is the complete notice reference: one
anchor named after each kind followed by a "### <code>" section.`,
		Example: `  # List all notices
  feedlint notices

  # Show one notice
  feedlint notices foreign_key_violation

  # Write the markdown reference
  feedlint notices --format markdown > NOTICES.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := NewCommandContext(cmd, opts.Format)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				return showNotice(cmd, args[0], cctx.Format)
			}
			return listNotices(cmd, opts, cctx.Format)
		},
	}

	cmd.Flags().StringVarP(&opts.Severity, "severity", "s", "", "Filter by severity: error, warning, info")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

func listNotices(cmd *cobra.Command, opts *NoticesOptions, format report.Format) error {
	descs := notice.All()

	if opts.Severity != "" {
		sev, ok := notice.ParseSeverity(opts.Severity)
		if !ok {
			return fmt.Errorf("unknown severity %q", opts.Severity)
		}
		filtered := descs[:0]
		for _, d := range descs {
			if d.Severity == sev {
				filtered = append(filtered, d)
			}
		}
		descs = filtered
	}

	return report.WriteCatalog(cmd.OutOrStdout(), format, descs)
}

func showNotice(cmd *cobra.Command, code string, format report.Format) error {
	kind, ok := notice.ByCode(code)
	if !ok {
		return fmt.Errorf("notice %q not found", code)
	}
	return report.WriteNotice(cmd.OutOrStdout(), format, kind.Descriptor())
}
