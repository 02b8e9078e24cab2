package table_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/feedlint/internal/source"
	"github.com/leapstack-labs/feedlint/pkg/fieldtype"
	"github.com/leapstack-labs/feedlint/pkg/gtfs"
	"github.com/leapstack-labs/feedlint/pkg/notice"
	"github.com/leapstack-labs/feedlint/pkg/schema"
	"github.com/leapstack-labs/feedlint/pkg/table"
)

func minimalFeed() source.Memory {
	return source.Memory{
		"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
			"A1,Metro,https://metro.example,Europe/Zurich\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"S1,First,47.1,8.1\n" +
			"S2,Second,47.2,8.2\n",
		"routes.txt": "route_id,agency_id,route_short_name,route_type\n" +
			"R1,A1,1,3\n",
		"trips.txt": "route_id,service_id,trip_id\n" +
			"R1,WK,T1\n" +
			"R1,WK,T2\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"T1,08:00:00,08:00:00,S1,1\n" +
			"T2,09:00:00,09:00:00,S1,1\n" +
			"T1,08:10:00,08:10:00,S2,2\n",
		"calendar_dates.txt": "service_id,date,exception_type\n" +
			"WK,20240101,1\n",
	}
}

func load(t *testing.T, src table.RowSource) (*table.Feed, bool, *notice.Container) {
	t.Helper()
	reg, err := gtfs.Registry()
	require.NoError(t, err)

	sink := notice.NewContainer()
	feed, fatal, err := table.Load(context.Background(), reg, src, sink)
	require.NoError(t, err)
	return feed, fatal, sink
}

func codes(c *notice.Container) []string {
	var out []string
	for _, n := range c.Finalize() {
		out = append(out, n.Code())
	}
	return out
}

func TestLoad(t *testing.T) {
	feed, fatal, sink := load(t, minimalFeed())

	assert.False(t, fatal)
	assert.Empty(t, codes(sink))

	stops := feed.Table(gtfs.StopsFile)
	require.NotNil(t, stops)
	assert.True(t, stops.Present())
	assert.Equal(t, 2, stops.Len())

	s2, ok := stops.ByPrimaryKey("S2")
	require.True(t, ok)
	assert.Equal(t, 2, s2.Row())
	assert.Equal(t, gtfs.StopsFile, s2.File())
	assert.Equal(t, "Second", s2.String("stop_name"))
	lat, ok := s2.Float("stop_lat")
	require.True(t, ok)
	assert.Equal(t, 47.2, lat)

	assert.True(t, feed.Missing(gtfs.LevelsFile))
	assert.False(t, feed.Missing(gtfs.StopsFile))
	assert.Zero(t, feed.Table(gtfs.LevelsFile).Len())
	assert.Nil(t, feed.Table("shapes.txt"))
	assert.Contains(t, feed.Present(), gtfs.StopTimesFile)
	assert.NotContains(t, feed.Present(), gtfs.CalendarFile)
}

func TestLoad_MissingRequiredFileIsFatal(t *testing.T) {
	src := minimalFeed()
	delete(src, gtfs.TripsFile)

	feed, fatal, sink := load(t, src)
	assert.True(t, fatal)
	assert.Equal(t, []string{"missing_required_file"}, codes(sink))
	assert.True(t, feed.Missing(gtfs.TripsFile))
}

func TestLoad_UnknownAndEmptyFiles(t *testing.T) {
	src := minimalFeed()
	src["shapes.txt"] = "shape_id\n"
	src[gtfs.LevelsFile] = ""

	_, fatal, sink := load(t, src)
	assert.False(t, fatal)
	assert.Equal(t, []string{"empty_file", "unknown_file"}, codes(sink))
}

func TestLoad_BlankRowOnlyYieldsEmptyRow(t *testing.T) {
	src := minimalFeed()
	src[gtfs.StopsFile] = "stop_id,stop_name,stop_lat,stop_lon\n" +
		"S1,First,47.1,8.1\n" +
		" , ,\t, \n" +
		"S2,Second,47.2,8.2\n"

	feed, _, sink := load(t, src)
	assert.Equal(t, []string{"empty_row"}, codes(sink))

	n := sink.Finalize()[0]
	row, _ := n.Get("csvRowNumber")
	assert.Equal(t, 2, row)

	s2, ok := feed.Table(gtfs.StopsFile).ByPrimaryKey("S2")
	require.True(t, ok)
	assert.Equal(t, 3, s2.Row(), "row numbers count the skipped row")
}

func TestLoad_EmptyLineYieldsEmptyRow(t *testing.T) {
	src := minimalFeed()
	src[gtfs.StopsFile] = "stop_id,stop_name,stop_lat,stop_lon\n" +
		"S1,First,47.1,8.1\n" +
		"\n" +
		"S2,Second,47.2,8.2\n" +
		"\n" +
		" , ,\t, \n" +
		"S3,Third,47.3,8.3\n"

	feed, _, sink := load(t, src)
	assert.Equal(t, []string{"empty_row", "empty_row", "empty_row"}, codes(sink))

	var rows []any
	for _, n := range sink.Finalize() {
		row, _ := n.Get("csvRowNumber")
		rows = append(rows, row)
	}
	assert.Equal(t, []any{2, 4, 5}, rows)

	stops := feed.Table(gtfs.StopsFile)
	s2, ok := stops.ByPrimaryKey("S2")
	require.True(t, ok)
	assert.Equal(t, 3, s2.Row())
	s3, ok := stops.ByPrimaryKey("S3")
	require.True(t, ok)
	assert.Equal(t, 6, s3.Row())
}

func TestLoad_AgencyIDColumnRequired(t *testing.T) {
	src := minimalFeed()
	src[gtfs.AgencyFile] = "agency_name,agency_url,agency_timezone\n" +
		"Metro,https://metro.example,Europe/Zurich\n"
	src[gtfs.RoutesFile] = "route_id,route_short_name,route_type\n" +
		"R1,1,3\n"

	_, _, sink := load(t, src)
	var missing []any
	for _, n := range sink.Finalize() {
		if n.Code() == "missing_required_column" {
			name, _ := n.Get("fieldName")
			missing = append(missing, name)
		}
	}
	assert.Equal(t, []any{"agency_id"}, missing)
}

func TestLoad_CSVParsingFailure(t *testing.T) {
	src := minimalFeed()
	src[gtfs.StopsFile] = "stop_id,stop_name,stop_lat,stop_lon\n" +
		"S1,First,47.1,8.1\n" +
		"S2,\"unterminated,47.2,8.2\n"

	feed, _, sink := load(t, src)
	assert.Contains(t, codes(sink), "csv_parsing_failed")
	assert.Equal(t, 1, feed.Table(gtfs.StopsFile).Len())
}

type failingSource struct{ source.Memory }

func (f failingSource) Open(ctx context.Context, name string) (table.RowReader, error) {
	if name == gtfs.StopsFile {
		return nil, errors.New("disk on fire")
	}
	return f.Memory.Open(ctx, name)
}

func TestLoad_IOError(t *testing.T) {
	_, fatal, sink := load(t, failingSource{minimalFeed()})
	assert.False(t, fatal)
	require.Equal(t, []string{"io_error"}, codes(sink))

	msg, _ := sink.Finalize()[0].Get("message")
	assert.Equal(t, "disk on fire", msg)
}

func TestLoad_Cancelled(t *testing.T) {
	reg, err := gtfs.Registry()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = table.Load(ctx, reg, minimalFeed(), notice.NewContainer())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestContainer_DuplicatePrimaryKeyFirstWins(t *testing.T) {
	s := gtfs.Stops
	sink := notice.NewContainer()
	first := table.NewEntity(s.FileName, 1, schema.Record{"stop_id": "S1", "stop_name": "first"})
	second := table.NewEntity(s.FileName, 2, schema.Record{"stop_id": "S1", "stop_name": "second"})
	other := table.NewEntity(s.FileName, 3, schema.Record{"stop_name": "no key"})

	c := table.NewContainer(&s, []*table.Entity{first, second, other}, sink)

	got, ok := c.ByPrimaryKey("S1")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, []*table.Entity{first, second, other}, c.All())

	ns := sink.Finalize()
	require.Len(t, ns, 1)
	assert.Equal(t, "duplicate_key", ns[0].Code())
	oldRow, _ := ns[0].Get("oldCsvRowNumber")
	newRow, _ := ns[0].Get("newCsvRowNumber")
	assert.Equal(t, 1, oldRow)
	assert.Equal(t, 2, newRow)
}

func TestContainer_IndexAndGroups(t *testing.T) {
	feed, _, _ := load(t, minimalFeed())
	st := feed.Table(gtfs.StopTimesFile)

	byTrip := st.ByIndex("trip_id", "T1")
	require.Len(t, byTrip, 2)
	assert.Equal(t, 1, byTrip[0].Row())
	assert.Equal(t, 3, byTrip[1].Row())

	assert.Len(t, st.ByIndex("stop_sequence", 1), 2, "unindexed fields are scanned")
	assert.Empty(t, st.ByIndex("trip_id", "T9"))

	groups := st.GroupedBy("trip_id")
	assert.Equal(t, []fieldtype.Value{"T1", "T2"}, groups.Keys())
	assert.Equal(t, 2, groups.Len())

	var seen []fieldtype.Value
	groups.Each(func(key fieldtype.Value, es []*table.Entity) {
		seen = append(seen, key)
		assert.NotEmpty(t, es)
	})
	assert.Equal(t, groups.Keys(), seen)
}

func TestContainer_SortedGroups(t *testing.T) {
	s := gtfs.StopTimes
	mk := func(row int, trip string, seq any) *table.Entity {
		rec := schema.Record{"trip_id": trip}
		if seq != nil {
			rec["stop_sequence"] = seq
		}
		return table.NewEntity(s.FileName, row, rec)
	}
	c := table.NewContainer(&s, []*table.Entity{
		mk(1, "T1", 3),
		mk(2, "T1", nil),
		mk(3, "T1", 1),
		mk(4, "T2", 2),
		mk(5, "T1", 2),
		table.NewEntity(s.FileName, 6, schema.Record{"stop_sequence": 1}),
	}, notice.NewContainer())

	g := c.SortedGroups("trip_id", "stop_sequence")
	assert.Equal(t, []fieldtype.Value{"T1", "T2"}, g.Keys())

	var rows []int
	for _, e := range g.Get("T1") {
		rows = append(rows, e.Row())
	}
	assert.Equal(t, []int{3, 5, 1, 2}, rows)
}

func TestEntity_Accessors(t *testing.T) {
	e := table.NewEntity("stop_times.txt", 4, schema.Record{
		"trip_id":       "T1",
		"stop_sequence": 7,
		"arrival_time":  fieldtype.NewTime(25, 0, 0),
	})

	assert.True(t, e.Has("trip_id"))
	assert.False(t, e.Has("departure_time"))

	n, ok := e.Int("stop_sequence")
	require.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = e.Int("trip_id")
	assert.False(t, ok)

	at, ok := e.Time("arrival_time")
	require.True(t, ok)
	assert.Equal(t, "25:00:00", at.String())
	assert.Equal(t, "", e.String("departure_time"))

	v, ok := e.Get("trip_id")
	require.True(t, ok)
	assert.Equal(t, "T1", v)
}
