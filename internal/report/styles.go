package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/leapstack-labs/feedlint/pkg/notice"
)

// Styles holds the lipgloss styles of the text renderer.
type Styles struct {
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

// NewStyles builds styles for w. Writers that are not terminals get plain
// text without escape sequences.
func NewStyles(w io.Writer) *Styles {
	var opts []termenv.OutputOption
	if !IsTerminal(w) {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	r := lipgloss.NewRenderer(w, opts...)

	return &Styles{
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

// Severity returns the style for sev.
func (s *Styles) Severity(sev notice.Severity) lipgloss.Style {
	switch sev {
	case notice.SeverityError:
		return s.Error
	case notice.SeverityWarning:
		return s.Warning
	case notice.SeverityInfo:
		return s.Info
	default:
		return s.Muted
	}
}
