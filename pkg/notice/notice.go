package notice

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"
)

// Field is one named value in a notice's context.
type Field struct {
	Name  string
	Value any
}

// F is shorthand for building a Field.
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Notice is a single diagnostic. It is immutable once built.
type Notice struct {
	kind     *Kind
	severity Severity
	context  []Field
}

// Kind returns the notice's kind.
func (n Notice) Kind() *Kind { return n.kind }

// Code returns the stable notice code.
func (n Notice) Code() string { return n.kind.Code() }

// Severity returns the effective severity. It equals the kind's severity
// unless the notice came from a snapshot with overrides applied.
func (n Notice) Severity() Severity { return n.severity }

// Context returns a copy of the context fields in declaration order.
func (n Notice) Context() []Field {
	out := make([]Field, len(n.context))
	copy(out, n.context)
	return out
}

// Get returns the value of a context field.
func (n Notice) Get(name string) (any, bool) {
	for _, f := range n.context {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// String renders the notice on one line for logs and debugging.
func (n Notice) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s[%s]", n.Code(), n.severity)
	for _, f := range n.context {
		fmt.Fprintf(&b, " %s=%s", f.Name, FormatValue(f.Value))
	}
	return b.String()
}

// MarshalJSON encodes the notice as {"code","severity","context"} with the
// context keys in declaration order.
func (n Notice) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`{"code":`)
	code, _ := json.Marshal(n.Code())
	b.Write(code)
	b.WriteString(`,"severity":"`)
	b.WriteString(n.severity.String())
	b.WriteString(`","context":{`)
	for i, f := range n.context {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(f.Name)
		b.Write(key)
		b.WriteByte(':')
		val, err := json.Marshal(PlainValue(f.Value))
		if err != nil {
			return nil, fmt.Errorf("encoding %s.%s: %w", n.Code(), f.Name, err)
		}
		b.Write(val)
	}
	b.WriteString("}}")
	return b.Bytes(), nil
}

// PlainValue converts a context value to something every encoder handles:
// strings, numbers and booleans pass through, Stringers become their text.
func PlainValue(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int, int64, uint32, float64:
		return x
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	default:
		return fmt.Sprint(x)
	}
}

// FormatValue returns the canonical text of a context value.
func FormatValue(v any) string {
	switch x := PlainValue(v).(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// compareNotices orders by severity (errors first), then code, then context
// field by field. Numbers compare numerically, everything else by text.
func compareNotices(a, b Notice) int {
	if c := cmp.Compare(a.severity, b.severity); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Code(), b.Code()); c != 0 {
		return c
	}
	for i := 0; i < len(a.context) && i < len(b.context); i++ {
		if c := cmp.Compare(a.context[i].Name, b.context[i].Name); c != 0 {
			return c
		}
		if c := compareValues(a.context[i].Value, b.context[i].Value); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.context), len(b.context))
}

func compareValues(a, b any) int {
	fa, aNum := numeric(a)
	fb, bNum := numeric(b)
	switch {
	case aNum && bNum:
		return cmp.Compare(fa, fb)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return cmp.Compare(FormatValue(a), FormatValue(b))
	}
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}
