package notice

import (
	"fmt"
	"strings"
)

// Severity is the fixed importance class of a notice kind.
type Severity int

// Severity levels, ordered from most to least important.
const (
	// SeverityError marks a dataset that downstream consumers must reject.
	SeverityError Severity = iota
	// SeverityWarning marks data that is accepted but likely wrong.
	SeverityWarning
	// SeverityInfo marks informational findings.
	SeverityInfo
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	default:
		return SeverityWarning, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	v, ok := ParseSeverity(string(b))
	if !ok {
		return fmt.Errorf("unknown severity %q", string(b))
	}
	*s = v
	return nil
}

// AtLeast reports whether s is at least as important as min.
func (s Severity) AtLeast(minSeverity Severity) bool {
	return s <= minSeverity
}
