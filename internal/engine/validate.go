package engine

import (
	"context"

	"github.com/leapstack-labs/feedlint/pkg/notice"
	"github.com/leapstack-labs/feedlint/pkg/schema"
	"github.com/leapstack-labs/feedlint/pkg/table"
)

// Validate loads a dataset and validates it in one step. When a required
// file is missing no validator is started and the snapshot holds the load
// notices only.
func Validate(ctx context.Context, reg *schema.Registry, src table.RowSource, cfg Config) (*notice.Snapshot, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}

	sink := notice.NewContainer()
	loader := &table.Loader{Workers: cfg.Workers, Logger: e.logger}
	feed, fatal, err := loader.Load(ctx, reg, src, sink)
	if err != nil {
		return sink.Snapshot(), err
	}
	if fatal {
		e.logger.Warn("required file missing, skipping validators")
		return sink.Snapshot(), nil
	}

	return e.Run(ctx, feed, sink)
}
