// Package fieldtype defines the scalar types a dataset column can carry and
// the rules for turning raw column text into typed values.
//
// Parsing never panics on bad input. Malformed text is reported as a
// *ParseError and out-of-range numbers as a *RangeError; callers convert both
// into notices because malformed data is the expected input of a validator.
package fieldtype

import (
	"fmt"
	"strings"
)

// Type is the declared type of a column.
type Type int

// Supported column types.
const (
	ID Type = iota
	Text
	Integer
	Float
	Enum
	Latitude
	Longitude
	Time
	Date
	Color
	URL
	Timezone
	Phone
	Email
	Currency
	Language
)

var typeNames = map[Type]string{
	ID:        "id",
	Text:      "text",
	Integer:   "integer",
	Float:     "float",
	Enum:      "enum",
	Latitude:  "latitude",
	Longitude: "longitude",
	Time:      "time",
	Date:      "date",
	Color:     "color",
	URL:       "url",
	Timezone:  "timezone",
	Phone:     "phone_number",
	Email:     "email",
	Currency:  "currency_code",
	Language:  "language_code",
}

// String returns the lower-case name of the type as used in notices.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsKeyable reports whether values of this type may serve as primary keys,
// index keys or foreign keys. Free text is compared by identity of meaning,
// not bytes, so it is excluded.
func (t Type) IsKeyable() bool {
	switch t {
	case ID, Integer, Enum, Date, Currency, Language, Timezone:
		return true
	default:
		return false
	}
}

// Value is a parsed column value. The dynamic type depends on the column
// type:
//
//	ID, Text, URL, Timezone, Phone, Email, Currency, Language -> string
//	Integer, Enum                                             -> int
//	Float, Latitude, Longitude                                -> float64
//	Time                                                      -> fieldtype.ServiceTime
//	Date                                                      -> fieldtype.CalendarDate
//	Color                                                     -> fieldtype.RGBColor
//
// All dynamic types are comparable, so a Value can be used as a map key.
type Value any

// ParseError reports raw text that is not valid for its declared type.
type ParseError struct {
	Type   Type
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Type, e.Raw, e.Reason)
}

// RangeError reports a syntactically valid number outside its allowed range.
// The value returned alongside a RangeError is still the parsed number.
type RangeError struct {
	Type  Type
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %v out of range [%v, %v]", e.Type, e.Value, e.Min, e.Max)
}

// Range returns the allowed "[min, max]" interval in textual form.
func (e *RangeError) Range() string {
	return fmt.Sprintf("[%v, %v]", e.Min, e.Max)
}

// Parse converts raw column text into a typed value. Surrounding whitespace
// is ignored. An empty string is never passed here; emptiness is decided by
// the caller.
func Parse(t Type, raw string) (Value, error) {
	s := strings.TrimSpace(raw)
	fail := func(reason string) (Value, error) {
		return nil, &ParseError{Type: t, Raw: raw, Reason: reason}
	}

	switch t {
	case ID, Text:
		return s, nil
	case Integer, Enum:
		n, ok := parseInt(s)
		if !ok {
			return fail("not an integer")
		}
		return n, nil
	case Float:
		f, ok := parseFloat(s)
		if !ok {
			return fail("not a number")
		}
		return f, nil
	case Latitude:
		return parseCoordinate(t, raw, s, 90)
	case Longitude:
		return parseCoordinate(t, raw, s, 180)
	case Time:
		v, err := ParseTime(s)
		if err != nil {
			return fail(err.Error())
		}
		return v, nil
	case Date:
		v, err := ParseDate(s)
		if err != nil {
			return fail(err.Error())
		}
		return v, nil
	case Color:
		v, err := ParseColor(s)
		if err != nil {
			return fail(err.Error())
		}
		return v, nil
	case URL:
		if reason := checkURL(s); reason != "" {
			return fail(reason)
		}
		return s, nil
	case Timezone:
		if reason := checkTimezone(s); reason != "" {
			return fail(reason)
		}
		return s, nil
	case Phone:
		if reason := checkPhone(s); reason != "" {
			return fail(reason)
		}
		return s, nil
	case Email:
		if reason := checkEmail(s); reason != "" {
			return fail(reason)
		}
		return s, nil
	case Currency:
		if reason := checkCurrency(s); reason != "" {
			return fail(reason)
		}
		return s, nil
	case Language:
		canonical, reason := checkLanguage(s)
		if reason != "" {
			return fail(reason)
		}
		return canonical, nil
	default:
		return fail("unsupported field type")
	}
}

// Format renders a parsed value in its canonical text form.
func Format(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return fmt.Sprintf("%d", x)
	case float64:
		return formatFloat(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

func parseCoordinate(t Type, raw, s string, limit float64) (Value, error) {
	f, ok := parseFloat(s)
	if !ok {
		return nil, &ParseError{Type: t, Raw: raw, Reason: "not a number"}
	}
	if f < -limit || f > limit {
		return f, &RangeError{Type: t, Value: f, Min: -limit, Max: limit}
	}
	return f, nil
}
