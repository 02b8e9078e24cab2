package notice

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// FieldDoc documents one context field of a notice kind.
type FieldDoc struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// URLRef is an external link attached to a notice kind's documentation.
type URLRef struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Descriptor carries everything known about a notice kind. It is the
// metadata used for documentation generation and the consistency check.
type Descriptor struct {
	Name        string     `json:"name" yaml:"name"` // e.g. "EmptyRowNotice"
	Code        string     `json:"code" yaml:"code"` // derived from Name when empty
	Severity    Severity   `json:"severity" yaml:"severity"`
	Description string     `json:"description" yaml:"description"`
	Fields      []FieldDoc `json:"fields,omitempty" yaml:"fields,omitempty"`
	Files       []string   `json:"files,omitempty" yaml:"files,omitempty"`
	Sections    []string   `json:"sections,omitempty" yaml:"sections,omitempty"`
	URLs        []URLRef   `json:"urls,omitempty" yaml:"urls,omitempty"`

	// System marks diagnostics about the validator itself rather than the data.
	System bool `json:"system,omitempty" yaml:"system,omitempty"`
}

// Kind is a registered notice type. Instances are created with New.
type Kind struct {
	desc   Descriptor
	fields map[string]int
}

var nameRegex = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*(Notice|Error)$`)

var kinds = &kindRegistry{byCode: make(map[string]*Kind)}

type kindRegistry struct {
	mu     sync.RWMutex
	byCode map[string]*Kind
}

// Define registers a notice kind and returns it. It is meant to be called
// from package-level variable declarations. Define panics if the name is not
// of the form XxxNotice or XxxError, if a field is declared twice, or if the
// code is already taken.
func Define(d Descriptor) *Kind {
	if !nameRegex.MatchString(d.Name) {
		panic(fmt.Sprintf("notice: invalid kind name %q", d.Name))
	}
	if d.Code == "" {
		d.Code = CodeFor(d.Name)
	}

	k := &Kind{desc: d, fields: make(map[string]int, len(d.Fields))}
	for i, f := range d.Fields {
		if _, dup := k.fields[f.Name]; dup {
			panic(fmt.Sprintf("notice: %s declares field %q twice", d.Name, f.Name))
		}
		k.fields[f.Name] = i
	}

	kinds.mu.Lock()
	defer kinds.mu.Unlock()
	if _, dup := kinds.byCode[d.Code]; dup {
		panic(fmt.Sprintf("notice: duplicate code %q", d.Code))
	}
	kinds.byCode[d.Code] = k
	return k
}

// CodeFor derives the stable notice code from a kind name: the snake case
// rendering with a trailing "Notice" removed.
func CodeFor(name string) string {
	name = strings.TrimSuffix(name, "Notice")
	runes := []rune(name)

	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Descriptor returns a copy of the kind's metadata.
func (k *Kind) Descriptor() Descriptor { return k.desc }

// Code returns the stable notice code.
func (k *Kind) Code() string { return k.desc.Code }

// Name returns the kind's type name.
func (k *Kind) Name() string { return k.desc.Name }

// Severity returns the severity every instance of this kind carries.
func (k *Kind) Severity() Severity { return k.desc.Severity }

// New builds a notice of this kind. The context is reordered to the kind's
// field declaration order. Passing an undeclared field panics.
func (k *Kind) New(fields ...Field) Notice {
	ctx := make([]Field, len(fields))
	copy(ctx, fields)

	seen := make(map[string]bool, len(ctx))
	for _, f := range ctx {
		if _, ok := k.fields[f.Name]; !ok {
			panic(fmt.Sprintf("notice: %s has no field %q", k.desc.Name, f.Name))
		}
		if seen[f.Name] {
			panic(fmt.Sprintf("notice: field %q set twice on %s", f.Name, k.desc.Name))
		}
		seen[f.Name] = true
	}
	sort.SliceStable(ctx, func(i, j int) bool {
		return k.fields[ctx[i].Name] < k.fields[ctx[j].Name]
	})

	return Notice{kind: k, severity: k.desc.Severity, context: ctx}
}

// All returns the descriptors of every registered kind sorted by code.
func All() []Descriptor {
	kinds.mu.RLock()
	defer kinds.mu.RUnlock()

	out := make([]Descriptor, 0, len(kinds.byCode))
	for _, k := range kinds.byCode {
		out = append(out, k.desc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ByCode returns the registered kind with the given code.
func ByCode(code string) (*Kind, bool) {
	kinds.mu.RLock()
	defer kinds.mu.RUnlock()
	k, ok := kinds.byCode[code]
	return k, ok
}
