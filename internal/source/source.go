// Package source reads dataset files from a directory, a zip archive or
// memory and tokenizes them into raw rows.
package source

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/feedlint/pkg/schema"
	"github.com/leapstack-labs/feedlint/pkg/table"
)

// ErrNotFound is returned by Open for files the source does not contain.
var ErrNotFound = errors.New("file not found in dataset")

const bom = "\uFEFF"

// Open returns a source for a dataset directory or .zip archive.
func Open(p string) (*FS, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	if info.IsDir() {
		return NewFS(os.DirFS(p), p), nil
	}
	if !strings.EqualFold(filepath.Ext(p), ".zip") {
		return nil, fmt.Errorf("opening dataset %s: expected a directory or .zip archive", p)
	}
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	s := NewFS(zr, p)
	s.closer = zr
	return s, nil
}

// FS reads dataset files from a file system. Files may sit at the root or
// inside a single top-level folder, as produced by many zip tools.
type FS struct {
	fsys   fs.FS
	name   string
	paths  map[string]string
	closer io.Closer
}

// NewFS wraps fsys. name is used in error messages only.
func NewFS(fsys fs.FS, name string) *FS {
	s := &FS{fsys: fsys, name: name, paths: make(map[string]string)}
	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.Count(p, "/") > 1 || strings.HasPrefix(path.Base(p), ".") || strings.HasPrefix(p, "__MACOSX") {
			return nil
		}
		base := path.Base(p)
		if _, dup := s.paths[base]; !dup || !strings.Contains(p, "/") {
			s.paths[base] = p
		}
		return nil
	})
	return s
}

// Name returns the location the source was opened from.
func (s *FS) Name() string { return s.name }

// Files returns the file names in the dataset, sorted.
func (s *FS) Files() []string {
	out := make([]string, 0, len(s.paths))
	for name := range s.paths {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Open opens one file for row reading.
func (s *FS) Open(ctx context.Context, name string) (table.RowReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, ok := s.paths[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	f, err := s.fsys.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	r, err := newReader(name, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the underlying archive, if any.
func (s *FS) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Memory is an in-memory dataset keyed by file name.
type Memory map[string]string

// Files returns the file names, sorted.
func (m Memory) Files() []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Open opens one file for row reading.
func (m Memory) Open(ctx context.Context, name string) (table.RowReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	r, err := newReader(name, io.NopCloser(bytes.NewBufferString(content)))
	if err != nil {
		return nil, err
	}
	return r, nil
}

type reader struct {
	file   string
	csv    *csv.Reader
	closer io.Closer
	header []string
	row    int

	// lastLine is the physical line on which the previous record ended.
	// encoding/csv skips empty lines; the gap up to the next record is
	// replayed as blank rows so row numbers match the file.
	lastLine int
	blanks   int
	next     []string
}

func newReader(file string, rc io.ReadCloser) (*reader, error) {
	cr := csv.NewReader(rc)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	r := &reader{file: file, csv: cr, closer: rc}
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", file, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}
	r.header = header
	r.lastLine = endLine(cr, header)
	return r, nil
}

// endLine returns the line on which the record just read ends. Quoted
// fields may span lines.
func endLine(cr *csv.Reader, values []string) int {
	last := len(values) - 1
	line, _ := cr.FieldPos(last)
	return line + strings.Count(values[last], "\n")
}

func (r *reader) Header() []string { return r.header }

func (r *reader) Next() (schema.RawRow, error) {
	if r.header == nil {
		return schema.RawRow{}, io.EOF
	}
	if r.blanks > 0 {
		r.blanks--
		return r.emit(nil), nil
	}
	if r.next != nil {
		values := r.next
		r.next = nil
		return r.emit(values), nil
	}

	values, err := r.csv.Read()
	if err != nil {
		return schema.RawRow{}, err
	}
	start, _ := r.csv.FieldPos(0)
	gap := start - r.lastLine - 1
	r.lastLine = endLine(r.csv, values)
	if gap > 0 {
		r.blanks = gap - 1
		r.next = values
		return r.emit(nil), nil
	}
	return r.emit(values), nil
}

func (r *reader) emit(values []string) schema.RawRow {
	r.row++
	return schema.RawRow{File: r.file, Number: r.row, Values: values}
}

func (r *reader) Close() error { return r.closer.Close() }
