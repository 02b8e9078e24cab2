// Package validator defines the contract of business rule checks and the
// global registry they register themselves with.
//
// Rules are registered from init() functions when their package is
// imported:
//
//	import _ "github.com/leapstack-labs/feedlint/pkg/validator/rules"
//
// A validator reads tables and writes notices. It never modifies tables,
// so any number of validators can run over the same feed concurrently.
package validator

import (
	"sort"
	"sync"

	"github.com/leapstack-labs/feedlint/pkg/notice"
	"github.com/leapstack-labs/feedlint/pkg/table"
)

// Validator is one business rule check.
type Validator interface {
	// Name returns the unique identifier, e.g. "foreign_key"
	Name() string

	// Description returns a human-readable description
	Description() string

	// Tables returns the files the validator reads
	Tables() []string

	// Notices returns the kinds the validator may emit
	Notices() []*notice.Kind

	// Validate checks the feed and reports findings to sink.
	Validate(feed *table.Feed, sink notice.Sink)
}

// CheckFunc is the body of a data-driven rule.
type CheckFunc func(feed *table.Feed, sink notice.Sink)

// RuleDef is a data-driven validator definition.
type RuleDef struct {
	Name        string         // Unique identifier, e.g. "stop_time_arrival_and_departure_time"
	Description string         // Human-readable description
	Tables      []string       // Files the rule reads
	Notices     []*notice.Kind // Kinds the rule may emit
	Check       CheckFunc      // The check function
}

type wrappedRuleDef struct {
	def RuleDef
}

// Wrap turns a RuleDef into a Validator.
func Wrap(def RuleDef) Validator {
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) Name() string            { return w.def.Name }
func (w *wrappedRuleDef) Description() string     { return w.def.Description }
func (w *wrappedRuleDef) Tables() []string        { return w.def.Tables }
func (w *wrappedRuleDef) Notices() []*notice.Kind { return w.def.Notices }

func (w *wrappedRuleDef) Validate(feed *table.Feed, sink notice.Sink) {
	w.def.Check(feed, sink)
}

// globalRegistry is the single global registry for validators.
var globalRegistry = &Registry{
	validators: make(map[string]Validator),
}

// Registry stores registered validators for discovery.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]Validator // keyed by name
}

// Register adds a validator to the global registry.
// Call this from init() functions in rule packages.
func Register(v Validator) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.validators[v.Name()] = v
}

// RegisterDef wraps and registers a RuleDef.
func RegisterDef(def RuleDef) {
	Register(Wrap(def))
}

// All returns all registered validators sorted by name.
func All() []Validator {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	out := make([]Validator, 0, len(globalRegistry.validators))
	for _, v := range globalRegistry.validators {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// ByName returns a validator by its name.
func ByName(name string) (Validator, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	v, ok := globalRegistry.validators[name]
	return v, ok
}

// Count returns the number of registered validators.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.validators)
}

// Clear removes all registered validators. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.validators = make(map[string]Validator)
}
