// Package state keeps the history of validation runs in SQLite.
package state

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/leapstack-labs/feedlint/pkg/notice"
)

// RunStatus is the outcome of a validation run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Run is one recorded validation of a feed.
type Run struct {
	ID          string     `json:"id" yaml:"id"`
	Feed        string     `json:"feed" yaml:"feed"`
	Status      RunStatus  `json:"status" yaml:"status"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Errors      int        `json:"errors" yaml:"errors"`
	Warnings    int        `json:"warnings" yaml:"warnings"`
	Infos       int        `json:"infos" yaml:"infos"`
	Error       string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Duration is the wall time of a completed run, zero while running.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Store persists validation runs.
type Store interface {
	CreateRun(ctx context.Context, feed string) (*Run, error)
	CompleteRun(ctx context.Context, id string, status RunStatus, snap *notice.Snapshot, errMsg string) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	RunNotices(ctx context.Context, id string) ([]notice.CodeCount, error)
	Close() error
}

var _ Store = (*SQLiteStore)(nil)

func sortCodeCounts(cs []notice.CodeCount) {
	slices.SortFunc(cs, func(a, b notice.CodeCount) int {
		if c := cmp.Compare(a.Severity, b.Severity); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
}
