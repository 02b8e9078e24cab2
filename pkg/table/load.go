package table

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/feedlint/pkg/notice"
	"github.com/leapstack-labs/feedlint/pkg/schema"
)

// RowSource is the input boundary: it lists the files of a dataset and
// opens them for row-by-row reading.
type RowSource interface {
	// Files returns the names of the files in the dataset.
	Files() []string
	// Open opens one file for reading.
	Open(ctx context.Context, name string) (RowReader, error)
}

// RowReader yields the rows of one file.
type RowReader interface {
	// Header returns the header row, or nil when the file is empty.
	Header() []string
	// Next returns the next data row, or io.EOF after the last one.
	Next() (schema.RawRow, error)
	Close() error
}

// Loader reads a dataset into a Feed.
type Loader struct {
	// Workers bounds how many files are read at once. Zero means GOMAXPROCS.
	Workers int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Load reads every file of src that the registry knows. Data problems are
// reported to sink. The returned flag is true when a required file is
// missing, in which case callers should not run validators. The error is
// non-nil only when ctx is cancelled.
func Load(ctx context.Context, reg *schema.Registry, src RowSource, sink notice.Sink) (*Feed, bool, error) {
	return (&Loader{}).Load(ctx, reg, src, sink)
}

// Load reads the dataset. See the package-level Load.
func (l *Loader) Load(ctx context.Context, reg *schema.Registry, src RowSource, sink notice.Sink) (*Feed, bool, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := l.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	files := src.Files()
	slices.Sort(files)

	var (
		mu         sync.Mutex
		containers []*Container
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, name := range files {
		s, ok := reg.Get(name)
		if !ok {
			sink.Add(notice.UnknownFile.New(notice.F("filename", name)))
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c := loadFile(gctx, s, src, sink, logger)
			mu.Lock()
			containers = append(containers, c)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, fmt.Errorf("loading dataset: %w", err)
	}

	fatal := false
	for _, name := range reg.Files() {
		s, _ := reg.Get(name)
		if s.Required && !slices.Contains(files, name) {
			sink.Add(notice.MissingRequiredFile.New(notice.F("filename", name)))
			fatal = true
		}
	}
	return NewFeed(reg, containers...), fatal, nil
}

func loadFile(ctx context.Context, s *schema.TableSchema, src RowSource, sink notice.Sink, logger *slog.Logger) *Container {
	logger = logger.With("file", s.FileName)

	r, err := src.Open(ctx, s.FileName)
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			sink.Add(csvFailure(s.FileName, err))
		} else {
			sink.Add(ioError(err))
		}
		return NewContainer(s, nil, sink)
	}
	defer r.Close()

	header := r.Header()
	if len(header) == 0 {
		sink.Add(notice.EmptyFile.New(notice.F("filename", s.FileName)))
		return NewContainer(s, nil, sink)
	}

	binding := s.Bind(header, sink)
	var entities []*Entity
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			sink.Add(csvFailure(s.FileName, err))
			break
		}
		if rec, ok := binding.Parse(row, sink); ok {
			entities = append(entities, NewEntity(s.FileName, row.Number, rec))
		}
	}

	logger.Debug("loaded file", "rows", len(entities))
	return NewContainer(s, entities, sink)
}

func ioError(err error) notice.Notice {
	return notice.IO.New(
		notice.F("exception", fmt.Sprintf("%T", err)),
		notice.F("message", err.Error()))
}

func csvFailure(file string, err error) notice.Notice {
	line := 0
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		line = perr.Line
	}
	return notice.CsvParsingFailed.New(
		notice.F("filename", file),
		notice.F("lineIndex", line),
		notice.F("message", err.Error()))
}
