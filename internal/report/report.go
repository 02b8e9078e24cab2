// Package report renders validation snapshots and notice documentation.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/leapstack-labs/feedlint/pkg/notice"
)

// Format is an output format.
type Format string

// Supported formats. FormatAuto resolves to text on a terminal and to
// markdown otherwise.
const (
	FormatAuto     Format = "auto"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists every accepted format name.
var Formats = []Format{FormatAuto, FormatText, FormatMarkdown, FormatJSON, FormatYAML}

// ParseFormat converts a name to a Format. "md" is accepted for markdown
// and the empty string means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case "md":
		return FormatMarkdown, nil
	case FormatAuto, FormatText, FormatMarkdown, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Resolve returns the concrete format used when writing to w.
func (f Format) Resolve(w io.Writer) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	if IsTerminal(w) {
		return FormatText
	}
	return FormatMarkdown
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Options control how much detail a report carries.
type Options struct {
	// MaxSamples caps the sample notices kept per code. Zero keeps all.
	MaxSamples int
	// Verbose makes the text and markdown renderers list sample notices.
	Verbose bool
}

// Summary holds notice totals per severity.
type Summary struct {
	Errors   int `json:"errors" yaml:"errors"`
	Warnings int `json:"warnings" yaml:"warnings"`
	Infos    int `json:"infos" yaml:"infos"`
	Total    int `json:"total" yaml:"total"`
}

// Group collects the notices sharing a code.
type Group struct {
	Code     string          `json:"code" yaml:"code"`
	Severity notice.Severity `json:"severity" yaml:"severity"`
	Total    int             `json:"totalNotices" yaml:"totalNotices"`
	Samples  []Sample        `json:"sampleNotices" yaml:"sampleNotices"`
}

// Report is the rendered form of a validation run.
type Report struct {
	Feed     string        `json:"feed,omitempty" yaml:"feed,omitempty"`
	Duration time.Duration `json:"-" yaml:"-"`
	Summary  Summary       `json:"summary" yaml:"summary"`
	Notices  []Group       `json:"notices" yaml:"notices"`

	opts Options
}

// Build groups the snapshot's notices by code, keeping snapshot order.
func Build(feed string, snap *notice.Snapshot, opts Options) *Report {
	r := &Report{Feed: feed, Notices: []Group{}, opts: opts}

	counts := snap.Counts()
	r.Summary = Summary{
		Errors:   counts[notice.SeverityError],
		Warnings: counts[notice.SeverityWarning],
		Infos:    counts[notice.SeverityInfo],
		Total:    snap.Len(),
	}

	for _, n := range snap.Notices() {
		last := len(r.Notices) - 1
		if last < 0 || r.Notices[last].Code != n.Code() || r.Notices[last].Severity != n.Severity() {
			r.Notices = append(r.Notices, Group{Code: n.Code(), Severity: n.Severity()})
			last++
		}
		g := &r.Notices[last]
		g.Total++
		if opts.MaxSamples <= 0 || len(g.Samples) < opts.MaxSamples {
			g.Samples = append(g.Samples, Sample(n.Context()))
		}
	}
	return r
}

// Write renders r to w in the given format.
func Write(w io.Writer, format Format, r *Report) error {
	switch format.Resolve(w) {
	case FormatJSON:
		return EncodeJSON(w, r)
	case FormatYAML:
		return EncodeYAML(w, r)
	case FormatMarkdown:
		return writeMarkdown(w, r)
	case FormatText:
		return writeText(w, r, NewStyles(w))
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
