// Package engine runs validators over a loaded feed.
// It handles worker scheduling, failure isolation and cancellation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/feedlint/pkg/notice"
	"github.com/leapstack-labs/feedlint/pkg/table"
	"github.com/leapstack-labs/feedlint/pkg/validator"
)

// Setup errors returned before any validator runs.
var (
	ErrAlreadyRun       = errors.New("engine has already run")
	ErrUnknownValidator = errors.New("unknown validator")
)

// State is the lifecycle stage of an Engine.
type State int32

// Engine states. An engine moves from Idle to Running to Finalized once.
const (
	StateIdle State = iota
	StateRunning
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Config holds engine configuration.
type Config struct {
	// Workers bounds how many validators run at once. Zero means GOMAXPROCS.
	Workers int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// Disabled lists validator names to skip.
	Disabled []string
	// Validators overrides the registered validators when non-nil.
	Validators []validator.Validator
}

// Engine executes validators. Each Engine runs exactly once.
type Engine struct {
	logger     *slog.Logger
	workers    int
	validators []validator.Validator
	state      atomic.Int32

	// wrap decorates every scheduled task. Tests use it to inject failures
	// into the scheduling layer.
	wrap func(v validator.Validator, task func() error) func() error
}

// New creates an engine. It fails when a disabled validator name is unknown.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	all := cfg.Validators
	if all == nil {
		all = validator.All()
	}

	known := make(map[string]bool, len(all))
	for _, v := range all {
		known[v.Name()] = true
	}
	for _, name := range cfg.Disabled {
		if !known[name] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownValidator, name)
		}
	}

	var enabled []validator.Validator
	for _, v := range all {
		if slices.Contains(cfg.Disabled, v.Name()) {
			logger.Debug("validator disabled", "validator", v.Name())
			continue
		}
		enabled = append(enabled, v)
	}

	return &Engine{logger: logger, workers: workers, validators: enabled}, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return State(e.state.Load()) }

// Validators returns the validators the engine will run.
func (e *Engine) Validators() []validator.Validator {
	return slices.Clone(e.validators)
}

// Run executes every enabled validator over feed, reporting to sink, and
// returns the finalized snapshot. A validator that panics is reported as a
// runtime_exception_in_validator_error notice; a failing task wrapper as a
// thread_execution_error notice. Neither stops the run.
//
// When ctx is cancelled, validators that have not started are skipped and
// running ones finish. The snapshot is still returned, together with the
// context's error.
func (e *Engine) Run(ctx context.Context, feed *table.Feed, sink *notice.Container) (*notice.Snapshot, error) {
	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, ErrAlreadyRun
	}
	defer e.state.Store(int32(StateFinalized))

	start := time.Now()
	var skipped atomic.Int32

	g := new(errgroup.Group)
	g.SetLimit(e.workers)

	for _, v := range e.validators {
		if ctx.Err() != nil {
			skipped.Add(1)
			continue
		}

		task := func() error {
			if ctx.Err() != nil {
				skipped.Add(1)
				return nil
			}
			e.runValidator(v, feed, sink)
			return nil
		}
		if e.wrap != nil {
			task = e.wrap(v, task)
		}

		g.Go(func() error {
			if err := guard(task); err != nil {
				e.logger.Error("task failed", "validator", v.Name(), "error", err)
				sink.Add(notice.ThreadExecution.New(
					notice.F("exception", exceptionName(err)),
					notice.F("message", err.Error())))
			}
			return nil
		})
	}
	_ = g.Wait()

	snap := sink.Snapshot()
	e.logger.Debug("validation finished",
		"validators", len(e.validators),
		"skipped", skipped.Load(),
		"notices", snap.Len(),
		"duration", time.Since(start))

	if err := ctx.Err(); err != nil {
		return snap, fmt.Errorf("validation cancelled: %w", err)
	}
	return snap, nil
}

// runValidator is the validator boundary: a panic inside Validate becomes
// a notice naming the validator.
func (e *Engine) runValidator(v validator.Validator, feed *table.Feed, sink notice.Sink) {
	logger := e.logger.With("validator", v.Name())
	start := time.Now()
	logger.Debug("validator started")

	defer func() {
		if r := recover(); r != nil {
			err := panicError(r)
			logger.Error("validator failed", "error", err)
			sink.Add(notice.RuntimeExceptionInValidator.New(
				notice.F("validator", v.Name()),
				notice.F("exception", exceptionName(err)),
				notice.F("message", err.Error())))
			return
		}
		logger.Debug("validator finished", "duration", time.Since(start))
	}()

	v.Validate(feed, sink)
}

// guard runs task and converts a panic into an error.
func guard(task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return task()
}

// recovered wraps a panic value that is not an error.
type recovered struct {
	value any
}

func (r *recovered) Error() string {
	if r.value == nil {
		return ""
	}
	return fmt.Sprint(r.value)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &recovered{value: r}
}

// exceptionName reports the dynamic type of a failure. For non-error panic
// values it names the type of the value that was passed to panic.
func exceptionName(err error) string {
	var rec *recovered
	if errors.As(err, &rec) {
		return fmt.Sprintf("%T", rec.value)
	}
	return fmt.Sprintf("%T", err)
}
