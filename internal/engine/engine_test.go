package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/feedlint/internal/source"
	"github.com/leapstack-labs/feedlint/internal/testutil"
	"github.com/leapstack-labs/feedlint/pkg/gtfs"
	"github.com/leapstack-labs/feedlint/pkg/notice"
	"github.com/leapstack-labs/feedlint/pkg/table"
	"github.com/leapstack-labs/feedlint/pkg/validator"
	_ "github.com/leapstack-labs/feedlint/pkg/validator/rules"
)

func sampleFeed() source.Memory {
	return source.Memory{
		gtfs.AgencyFile: "agency_id,agency_name,agency_url,agency_timezone\n" +
			"A1,Metro,https://metro.example,Europe/Zurich\n",
		gtfs.StopsFile: "stop_id,stop_name,stop_lat,stop_lon,parent_station\n" +
			"S1,One,47.1,8.1,\n" +
			"S2,,47.2,8.2,S9\n" +
			"S1,Dup,47.3,8.3,\n",
		gtfs.RoutesFile: "route_id,agency_id,route_short_name,route_type\nR1,A1,1,3\n",
		gtfs.TripsFile:  "route_id,service_id,trip_id\nR1,WK,T1\nR1,WK,T2\n",
		gtfs.StopTimesFile: "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"T1,08:00:00,08:00:00,S1,1\n" +
			"T1,07:59:00,,S2,2\n" +
			"T1,,,S1,3\n" +
			"T1,08:05:00,08:10:00,S2,4\n" +
			"T2,09:00:00,09:00:00,S7,1\n",
	}
}

func loadSample(t *testing.T) (*table.Feed, *notice.Container) {
	t.Helper()
	reg, err := gtfs.Registry()
	require.NoError(t, err)
	sink := notice.NewContainer()
	feed, fatal, err := table.Load(context.Background(), reg, sampleFeed(), sink)
	require.NoError(t, err)
	require.False(t, fatal)
	return feed, sink
}

func codes(s *notice.Snapshot) []string {
	return testutil.Codes(s.Notices())
}

func rule(name string, check validator.CheckFunc) validator.Validator {
	return validator.Wrap(validator.RuleDef{Name: name, Description: name, Check: check})
}

func TestRun(t *testing.T) {
	feed, sink := loadSample(t)

	e, err := New(Config{Workers: 2, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	assert.Equal(t, StateIdle, e.State())

	snap, err := e.Run(context.Background(), feed, sink)
	require.NoError(t, err)
	assert.Equal(t, StateFinalized, e.State())

	got := codes(snap)
	assert.Contains(t, got, "duplicate_key")
	assert.Contains(t, got, "foreign_key_violation")
	assert.Contains(t, got, "missing_calendar_and_calendar_date_files")
	assert.Contains(t, got, "missing_conditionally_required_field")
	assert.Contains(t, got, "stop_time_with_arrival_before_previous_departure_time")
	assert.Contains(t, got, "stop_time_with_only_arrival_or_departure_time")
	assert.NotContains(t, got, "runtime_exception_in_validator_error")
}

func TestRun_Twice(t *testing.T) {
	feed, sink := loadSample(t)
	e, err := New(Config{})
	require.NoError(t, err)

	_, err = e.Run(context.Background(), feed, sink)
	require.NoError(t, err)

	_, err = e.Run(context.Background(), feed, sink)
	assert.ErrorIs(t, err, ErrAlreadyRun)
}

func TestRun_Deterministic(t *testing.T) {
	reg, err := gtfs.Registry()
	require.NoError(t, err)

	var reports []string
	for i := 0; i < 5; i++ {
		snap, err := Validate(context.Background(), reg, sampleFeed(), Config{Workers: 1 + i})
		require.NoError(t, err)
		b, err := json.Marshal(snap.Notices())
		require.NoError(t, err)
		reports = append(reports, string(b))
	}
	for _, r := range reports[1:] {
		assert.Equal(t, reports[0], r)
	}
}

func TestRun_FailingValidatorIsIsolated(t *testing.T) {
	feed, _ := loadSample(t)

	healthy := rule("healthy", func(_ *table.Feed, sink notice.Sink) {
		sink.Add(notice.UnknownFile.New(notice.F("filename", "healthy.txt")))
	})
	broken := rule("broken", func(*table.Feed, notice.Sink) {
		var m map[string]int
		m["boom"]++
	})
	failing := rule("failing_with_error", func(*table.Feed, notice.Sink) {
		panic(errors.New("bad state"))
	})

	e, err := New(Config{Workers: 3, Validators: []validator.Validator{healthy, broken, failing}})
	require.NoError(t, err)

	snap, err := e.Run(context.Background(), feed, notice.NewContainer())
	require.NoError(t, err)

	system := testutil.WithCode(snap.Notices(), "runtime_exception_in_validator_error")
	require.Len(t, system, 2)

	byValidator := map[string]notice.Notice{}
	for _, n := range system {
		name, _ := n.Get("validator")
		byValidator[name.(string)] = n
	}

	exc, _ := byValidator["broken"].Get("exception")
	assert.Contains(t, exc, "runtime.")
	msg, _ := byValidator["broken"].Get("message")
	assert.Contains(t, msg, "nil map")

	exc, _ = byValidator["failing_with_error"].Get("exception")
	assert.Equal(t, "*errors.errorString", exc)
	msg, _ = byValidator["failing_with_error"].Get("message")
	assert.Equal(t, "bad state", msg)

	assert.Contains(t, codes(snap), "unknown_file", "healthy validator output survives")
}

func TestRun_PanicWithNonError(t *testing.T) {
	feed, _ := loadSample(t)
	v := rule("stringy", func(*table.Feed, notice.Sink) { panic("plain text") })

	e, err := New(Config{Validators: []validator.Validator{v}})
	require.NoError(t, err)
	snap, err := e.Run(context.Background(), feed, notice.NewContainer())
	require.NoError(t, err)

	require.Equal(t, 1, snap.Len())
	n := snap.Notices()[0]
	exc, _ := n.Get("exception")
	msg, _ := n.Get("message")
	assert.Equal(t, "string", exc)
	assert.Equal(t, "plain text", msg)
}

func TestRun_SchedulingFailure(t *testing.T) {
	feed, _ := loadSample(t)

	var ran atomic.Int32
	ok := rule("ok", func(*table.Feed, notice.Sink) { ran.Add(1) })
	other := rule("other", func(*table.Feed, notice.Sink) { ran.Add(1) })

	e, err := New(Config{Validators: []validator.Validator{ok, other}})
	require.NoError(t, err)
	e.wrap = func(v validator.Validator, task func() error) func() error {
		if v.Name() == "ok" {
			return task
		}
		return func() error { return errors.New("worker lost") }
	}

	snap, err := e.Run(context.Background(), feed, notice.NewContainer())
	require.NoError(t, err)

	assert.Equal(t, int32(1), ran.Load())
	require.Equal(t, []string{"thread_execution_error"}, codes(snap))
	msg, _ := snap.Notices()[0].Get("message")
	assert.Equal(t, "worker lost", msg)
}

func TestRun_SchedulingPanic(t *testing.T) {
	feed, _ := loadSample(t)
	v := rule("any", func(*table.Feed, notice.Sink) {})

	e, err := New(Config{Validators: []validator.Validator{v}})
	require.NoError(t, err)
	e.wrap = func(validator.Validator, func() error) func() error {
		return func() error { panic("scheduler exploded") }
	}

	snap, err := e.Run(context.Background(), feed, notice.NewContainer())
	require.NoError(t, err)
	assert.Equal(t, []string{"thread_execution_error"}, codes(snap))
}

func TestRun_CancelledSkipsUnstarted(t *testing.T) {
	feed, _ := loadSample(t)

	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Int32
	first := rule("a_first", func(_ *table.Feed, sink notice.Sink) {
		ran.Add(1)
		sink.Add(notice.UnknownFile.New(notice.F("filename", "first.txt")))
		cancel()
	})
	second := rule("b_second", func(*table.Feed, notice.Sink) { ran.Add(1) })

	e, err := New(Config{Workers: 1, Validators: []validator.Validator{first, second}})
	require.NoError(t, err)

	snap, err := e.Run(ctx, feed, notice.NewContainer())
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, snap)
	assert.Equal(t, int32(1), ran.Load())
	assert.Equal(t, []string{"unknown_file"}, codes(snap), "notices of finished validators are kept")
}

func TestNew_Disabled(t *testing.T) {
	e, err := New(Config{Disabled: []string{"foreign_key"}})
	require.NoError(t, err)
	for _, v := range e.Validators() {
		assert.NotEqual(t, "foreign_key", v.Name())
	}
	assert.Len(t, e.Validators(), validator.Count()-1)

	_, err = New(Config{Disabled: []string{"no_such_rule"}})
	assert.ErrorIs(t, err, ErrUnknownValidator)
}

func TestValidate_MissingRequiredFileSkipsValidators(t *testing.T) {
	reg, err := gtfs.Registry()
	require.NoError(t, err)

	src := sampleFeed()
	delete(src, gtfs.TripsFile)

	snap, err := Validate(context.Background(), reg, src, Config{})
	require.NoError(t, err)

	got := codes(snap)
	assert.Contains(t, got, "missing_required_file")
	assert.NotContains(t, got, "foreign_key_violation", "validators did not run")
	assert.NotContains(t, got, "missing_calendar_and_calendar_date_files")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "finalized", StateFinalized.String())
}
