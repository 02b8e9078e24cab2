package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/feedlint/internal/engine"
	"github.com/leapstack-labs/feedlint/internal/report"
	"github.com/leapstack-labs/feedlint/internal/source"
	"github.com/leapstack-labs/feedlint/internal/state"
	"github.com/leapstack-labs/feedlint/pkg/gtfs"
	"github.com/leapstack-labs/feedlint/pkg/notice"
	_ "github.com/leapstack-labs/feedlint/pkg/validator/rules" // register built-in validators
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Format  string
	Verbose bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <feed>",
		Short: "Validate a feed directory or zip archive",
		Long: `Load every known file of a feed, check it against the schema and run all
enabled validators. The report lists notices grouped by code, errors first.

The command fails when the report contains at least one error, after
severity overrides and before the min_severity filter.`,
		Example: `  # Validate a zip archive
  feedlint validate feed.zip

  # Validate a directory and print JSON
  feedlint validate ./feed -o json

  # Skip a validator and show sample notices
  feedlint validate feed.zip --disable foreign_key -V`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: auto, text, markdown, json, yaml")
	cmd.Flags().BoolVarP(&opts.Verbose, "samples", "V", false, "List sample notices per code")

	return cmd
}

func runValidate(cmd *cobra.Command, path string, opts *ValidateOptions) error {
	cctx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	cfg, logger := cctx.Cfg, cctx.Logger
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	overrides, err := cfg.Overrides()
	if err != nil {
		return err
	}
	minSeverity, err := cfg.Severity()
	if err != nil {
		return err
	}

	store, err := cctx.OpenStore()
	if err != nil {
		return err
	}
	var run *state.Run
	if store != nil {
		defer store.Close()
		if run, err = store.CreateRun(ctx, path); err != nil {
			return err
		}
	}
	finish := func(status state.RunStatus, snap *notice.Snapshot, runErr error) {
		if run == nil {
			return
		}
		msg := ""
		if runErr != nil {
			msg = runErr.Error()
		}
		if err := store.CompleteRun(ctx, run.ID, status, snap, msg); err != nil {
			logger.Warn("failed to record run", "run", run.ID, "error", err)
		}
	}

	start := time.Now()
	src, err := source.Open(path)
	if err != nil {
		finish(state.RunStatusFailed, nil, err)
		return err
	}
	defer src.Close()

	reg, err := gtfs.Registry()
	if err != nil {
		finish(state.RunStatusFailed, nil, err)
		return err
	}

	logger.Info("validating feed", "feed", path, "files", len(src.Files()))
	snap, err := engine.Validate(ctx, reg, src, engine.Config{
		Workers:  cfg.Workers,
		Logger:   logger,
		Disabled: cfg.DisabledValidators,
	})
	if err != nil {
		status := state.RunStatusFailed
		if errors.Is(err, context.Canceled) {
			status = state.RunStatusCancelled
		}
		finish(status, snap, err)
		return err
	}
	snap = snap.WithOverrides(overrides)
	finish(state.RunStatusCompleted, snap, nil)

	rep := report.Build(path, snap.Filter(minSeverity), report.Options{
		MaxSamples: cfg.MaxSamples,
		Verbose:    opts.Verbose || cfg.Verbose,
	})
	rep.Duration = time.Since(start)
	if err := report.Write(cmd.OutOrStdout(), cctx.Format, rep); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if snap.HasErrors() {
		return ErrValidationFailed
	}
	return nil
}
