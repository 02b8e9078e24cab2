package notice

import (
	"slices"
	"sync"
)

// Container accumulates notices from concurrently running validators.
// The zero value is ready to use.
type Container struct {
	mu      sync.Mutex
	notices []Notice
	errors  int
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{}
}

// Add appends a notice. Safe for concurrent use.
func (c *Container) Add(n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
	if n.severity == SeverityError {
		c.errors++
	}
}

// Len returns the number of notices added so far, duplicates included.
func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.notices)
}

// HasErrors reports whether any error-severity notice was added.
func (c *Container) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors > 0
}

// Finalize returns a sorted, de-duplicated copy of the notices. The
// container itself is left untouched and may keep receiving notices.
func (c *Container) Finalize() []Notice {
	c.mu.Lock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	c.mu.Unlock()

	return sortUnique(out)
}

// Snapshot finalizes the container into a Snapshot.
func (c *Container) Snapshot() *Snapshot {
	return &Snapshot{notices: c.Finalize()}
}

func sortUnique(ns []Notice) []Notice {
	slices.SortStableFunc(ns, compareNotices)
	return slices.CompactFunc(ns, func(a, b Notice) bool {
		return compareNotices(a, b) == 0
	})
}

// Snapshot is a finalized, ordered and immutable view of a validation
// run's notices. Severity overrides and filtering operate on snapshots so
// the live container is never rewritten.
type Snapshot struct {
	notices []Notice
}

// NewSnapshot sorts and de-duplicates ns into a snapshot.
func NewSnapshot(ns []Notice) *Snapshot {
	cp := make([]Notice, len(ns))
	copy(cp, ns)
	return &Snapshot{notices: sortUnique(cp)}
}

// Notices returns the ordered notices.
func (s *Snapshot) Notices() []Notice {
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

// Len returns the number of notices.
func (s *Snapshot) Len() int { return len(s.notices) }

// HasErrors reports whether the snapshot contains an error-severity notice.
func (s *Snapshot) HasErrors() bool {
	return s.Counts()[SeverityError] > 0
}

// Counts returns the number of notices per severity.
func (s *Snapshot) Counts() map[Severity]int {
	counts := map[Severity]int{SeverityError: 0, SeverityWarning: 0, SeverityInfo: 0}
	for _, n := range s.notices {
		counts[n.severity]++
	}
	return counts
}

// CodeCount is the number of notices sharing a code.
type CodeCount struct {
	Code     string
	Severity Severity
	Count    int
}

// CountsByCode returns per-code totals in snapshot order.
func (s *Snapshot) CountsByCode() []CodeCount {
	var out []CodeCount
	for _, n := range s.notices {
		if last := len(out) - 1; last >= 0 && out[last].Code == n.Code() && out[last].Severity == n.severity {
			out[last].Count++
			continue
		}
		out = append(out, CodeCount{Code: n.Code(), Severity: n.severity, Count: 1})
	}
	return out
}

// Filter returns the notices at or above minSeverity.
func (s *Snapshot) Filter(minSeverity Severity) *Snapshot {
	out := make([]Notice, 0, len(s.notices))
	for _, n := range s.notices {
		if n.severity.AtLeast(minSeverity) {
			out = append(out, n)
		}
	}
	return &Snapshot{notices: out}
}

// WithOverrides returns a new snapshot in which notices whose code appears
// in overrides carry the given severity. The result is re-sorted.
func (s *Snapshot) WithOverrides(overrides map[string]Severity) *Snapshot {
	if len(overrides) == 0 {
		return s
	}
	out := make([]Notice, len(s.notices))
	for i, n := range s.notices {
		if sev, ok := overrides[n.Code()]; ok {
			n.severity = sev
		}
		out[i] = n
	}
	return &Snapshot{notices: sortUnique(out)}
}

// Sink receives notices. *Container is the standard implementation.
type Sink interface {
	Add(Notice)
}
