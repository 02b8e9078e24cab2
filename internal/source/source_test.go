package source

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/feedlint/pkg/table"
)

func readAll(t *testing.T, r table.RowReader) [][]string {
	t.Helper()
	var rows [][]string
	for {
		row, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rows = append(rows, row.Values)
	}
	return rows
}

func TestMemory(t *testing.T) {
	m := Memory{
		"stops.txt":  bom + "stop_id,stop_name\nS1,One\nS2,\"Two, Central\"\n",
		"agency.txt": "agency_id\n",
	}
	assert.Equal(t, []string{"agency.txt", "stops.txt"}, m.Files())

	r, err := m.Open(context.Background(), "stops.txt")
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"stop_id", "stop_name"}, r.Header())

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "stops.txt", row.File)
	assert.Equal(t, 1, row.Number)
	assert.Equal(t, []string{"S1", "One"}, row.Values)

	row, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, row.Number)
	assert.Equal(t, []string{"S2", "Two, Central"}, row.Values)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestMemory_EmptyFile(t *testing.T) {
	r, err := Memory{"levels.txt": ""}.Open(context.Background(), "levels.txt")
	require.NoError(t, err)
	assert.Nil(t, r.Header())
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestMemory_RaggedRows(t *testing.T) {
	r, err := Memory{"a.txt": "x,y\n1\n1,2,3\n"}.Open(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1"}, {"1", "2", "3"}}, readAll(t, r))
}

func TestMemory_EmptyLinesKeepRowNumbers(t *testing.T) {
	r, err := Memory{"a.txt": "x,y\n\n1,2\n\n\n3,4\n"}.Open(context.Background(), "a.txt")
	require.NoError(t, err)

	var numbers []int
	var values [][]string
	for {
		row, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		numbers = append(numbers, row.Number)
		values = append(values, row.Values)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, numbers)
	assert.Equal(t, [][]string{nil, {"1", "2"}, nil, nil, {"3", "4"}}, values)
}

func TestMemory_QuotedNewlinesAreOneRow(t *testing.T) {
	r, err := Memory{"a.txt": "x,y\r\n\"multi\r\nline\",1\r\n2,3\r\n"}.Open(context.Background(), "a.txt")
	require.NoError(t, err)

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, row.Number)
	assert.Equal(t, []string{"multi\nline", "1"}, row.Values)

	row, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, row.Number, "no blank row is invented for the quoted line break")
	assert.Equal(t, []string{"2", "3"}, row.Values)
}

func TestMemory_Errors(t *testing.T) {
	_, err := Memory{}.Open(context.Background(), "stops.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Memory{"stops.txt": "stop_id\n"}.Open(ctx, "stops.txt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFS_Layout(t *testing.T) {
	fsys := fstest.MapFS{
		"feed/stops.txt":          {Data: []byte("stop_id\nNESTED\n")},
		"stops.txt":               {Data: []byte("stop_id\nROOT\n")},
		"feed/routes.txt":         {Data: []byte("route_id\nR1\n")},
		"feed/deeper/trips.txt":   {Data: []byte("trip_id\n")},
		"__MACOSX/._agency.txt":   {Data: []byte("junk")},
		".hidden.txt":             {Data: []byte("x")},
		"feed/calendar_dates.txt": {Data: []byte("service_id\n")},
	}
	s := NewFS(fsys, "mem")
	assert.Equal(t, "mem", s.Name())
	assert.Equal(t, []string{"calendar_dates.txt", "routes.txt", "stops.txt"}, s.Files())

	r, err := s.Open(context.Background(), "stops.txt")
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, [][]string{{"ROOT"}}, readAll(t, r), "root level file wins")

	_, err = s.Open(context.Background(), "trips.txt")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Close())
}

func TestOpen_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "agency.txt"), []byte("agency_id\nA1\n"), 0644))

	s, err := Open(dir)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, []string{"agency.txt"}, s.Files())
}

func TestOpen_Zip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "feed.zip")
	f, err := os.Create(p)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("gtfs/agency.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("agency_id\nA1\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	s, err := Open(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"agency.txt"}, s.Files())

	r, err := s.Open(context.Background(), "agency.txt")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A1"}}, readAll(t, r))
	require.NoError(t, r.Close())
	assert.NoError(t, s.Close())
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	p := filepath.Join(t.TempDir(), "feed.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	_, err = Open(p)
	assert.ErrorContains(t, err, "expected a directory or .zip archive")
}
