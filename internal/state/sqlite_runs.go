package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/feedlint/pkg/notice"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, feed, status, started_at, completed_at, errors, warnings, infos, error`

// CreateRun records the start of a validation run.
func (s *SQLiteStore) CreateRun(ctx context.Context, feed string) (*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	run := &Run{
		ID:        generateID(),
		Feed:      feed,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	s.logger.Debug("creating run", slog.String("id", run.ID), slog.String("feed", feed))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, feed, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Feed, run.Status, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun stores the outcome of a run together with its per-code
// notice counts. snap may be nil when the run failed before validating.
func (s *SQLiteStore) CompleteRun(ctx context.Context, id string, status RunStatus, snap *notice.Snapshot, errMsg string) error {
	if s.db == nil {
		return ErrNotOpen
	}

	var counts map[notice.Severity]int
	var codes []notice.CodeCount
	if snap != nil {
		counts = snap.Counts()
		codes = snap.CountsByCode()
	}
	var errorPtr *string
	if errMsg != "" {
		errorPtr = &errMsg
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE runs SET status = ?, completed_at = ?, errors = ?, warnings = ?, infos = ?, error = ? WHERE id = ?`,
		status, time.Now().UTC(),
		counts[notice.SeverityError], counts[notice.SeverityWarning], counts[notice.SeverityInfo],
		errorPtr, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	for _, c := range codes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_notices (run_id, code, severity, count) VALUES (?, ?, ?, ?)`,
			id, c.Code, c.Severity.String(), c.Count,
		); err != nil {
			return fmt.Errorf("failed to record notice counts: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunNotices returns the per-code notice counts of a run, errors first.
func (s *SQLiteStore) RunNotices(ctx context.Context, id string) ([]notice.CodeCount, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT code, severity, count FROM run_notices WHERE run_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run notices: %w", err)
	}
	defer rows.Close()

	var out []notice.CodeCount
	for rows.Next() {
		var c notice.CodeCount
		var sev string
		if err := rows.Scan(&c.Code, &sev, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan run notice: %w", err)
		}
		if err := c.Severity.UnmarshalText([]byte(sev)); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortCodeCounts(out)
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var completedAt sql.NullTime
	var errMsg sql.NullString
	if err := row.Scan(&run.ID, &run.Feed, &run.Status, &run.StartedAt, &completedAt,
		&run.Errors, &run.Warnings, &run.Infos, &errMsg); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return run, nil
}
