// Package commands implements the feedlint subcommands.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/feedlint/internal/cli/config"
	"github.com/leapstack-labs/feedlint/internal/report"
	"github.com/leapstack-labs/feedlint/internal/state"
)

// ErrValidationFailed is returned by validate when the report holds errors.
var ErrValidationFailed = errors.New("validation found errors")

// CommandContext holds what every command needs.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Format report.Format
}

// NewCommandContext builds a CommandContext from the loaded configuration.
// An explicit format overrides the configured output format.
func NewCommandContext(cmd *cobra.Command, format string) (*CommandContext, error) {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		cfg = config.Default()
	}
	if format == "" {
		format = cfg.OutputFormat
	}
	f, err := report.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:    cfg,
		Logger: config.GetLogger(cmd.Context()),
		Format: f,
	}, nil
}

// OpenStore opens the run history database. It returns nil when no
// state_path is configured.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	if c.Cfg.StatePath == "" {
		return nil, nil
	}
	if err := ensureDir(c.Cfg.StatePath); err != nil {
		return nil, err
	}
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, err
	}
	return store, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return nil
}
