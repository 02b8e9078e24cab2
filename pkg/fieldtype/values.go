package fieldtype

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	// Zone names resolve the same on hosts without a zoneinfo database.
	_ "time/tzdata"

	"golang.org/x/text/language"
)

var (
	timeRegex     = regexp.MustCompile(`^(\d{1,3}):([0-5]\d):([0-5]\d)$`)
	colorRegex    = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	phoneRegex    = regexp.MustCompile(`^[0-9+()\-.\s/*#a-zA-Z]+$`)
)

// ServiceTime is a time of day measured from noon minus twelve hours of the
// service day. Values of 24:00:00 and later denote service after midnight,
// so comparisons use elapsed seconds rather than wall-clock time.
type ServiceTime struct {
	secs int
}

// NewTime builds a ServiceTime from its components.
func NewTime(h, m, s int) ServiceTime {
	return ServiceTime{secs: h*3600 + m*60 + s}
}

// ParseTime parses H:MM:SS or HH:MM:SS. Hours above 23 are allowed.
func ParseTime(s string) (ServiceTime, error) {
	m := timeRegex.FindStringSubmatch(s)
	if m == nil {
		return ServiceTime{}, errors.New("expected HH:MM:SS")
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	ss, _ := strconv.Atoi(m[3])
	return NewTime(h, mm, ss), nil
}

// MustParseTime is ParseTime for literals in tests and static tables.
func MustParseTime(s string) ServiceTime {
	t, err := ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Seconds returns the elapsed seconds since the start of the service day.
func (t ServiceTime) Seconds() int { return t.secs }

// Before reports whether t is strictly earlier than u.
func (t ServiceTime) Before(u ServiceTime) bool { return t.secs < u.secs }

// After reports whether t is strictly later than u.
func (t ServiceTime) After(u ServiceTime) bool { return t.secs > u.secs }

// Equal reports whether t and u denote the same elapsed time.
func (t ServiceTime) Equal(u ServiceTime) bool { return t.secs == u.secs }

// String formats the time as HH:MM:SS.
func (t ServiceTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.secs/3600, (t.secs/60)%60, t.secs%60)
}

// CalendarDate is a calendar date in YYYYMMDD form.
type CalendarDate struct {
	year  int
	month time.Month
	day   int
}

// ParseDate parses a YYYYMMDD date.
func ParseDate(s string) (CalendarDate, error) {
	if len(s) != 8 {
		return CalendarDate{}, errors.New("expected YYYYMMDD")
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return CalendarDate{}, errors.New("expected YYYYMMDD")
	}
	return CalendarDate{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// Time returns the date at midnight UTC.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly earlier than e.
func (d CalendarDate) Before(e CalendarDate) bool { return d.Time().Before(e.Time()) }

// String formats the date as YYYYMMDD.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d%02d%02d", d.year, int(d.month), d.day)
}

// RGBColor is a 24-bit RGB color.
type RGBColor struct {
	rgb uint32
}

// ParseColor parses six hexadecimal digits without a leading '#'.
func ParseColor(s string) (RGBColor, error) {
	if !colorRegex.MatchString(s) {
		return RGBColor{}, errors.New("expected six hexadecimal digits")
	}
	n, _ := strconv.ParseUint(s, 16, 32)
	return RGBColor{rgb: uint32(n)}, nil
}

// RGB returns the color as a packed 0xRRGGBB value.
func (c RGBColor) RGB() uint32 { return c.rgb }

// String formats the color as upper-case RRGGBB.
func (c RGBColor) String() string { return fmt.Sprintf("%06X", c.rgb) }

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func checkURL(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return "malformed URL"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "URL must use http or https"
	}
	if u.Host == "" {
		return "URL has no host"
	}
	return ""
}

func checkTimezone(s string) string {
	// LoadLocation maps "Local" to the host zone, which is not a zone name.
	if s == "Local" {
		return "expected an IANA zone name"
	}
	if _, err := time.LoadLocation(s); err != nil {
		return "unknown time zone"
	}
	return ""
}

func checkPhone(s string) string {
	if !phoneRegex.MatchString(s) || !strings.ContainsAny(s, "0123456789") {
		return "expected a phone number"
	}
	return ""
}

func checkEmail(s string) string {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "expected a plain e-mail address"
	}
	return ""
}

func checkCurrency(s string) string {
	if !currencyRegex.MatchString(s) {
		return "expected an ISO 4217 currency code"
	}
	return ""
}

func checkLanguage(s string) (string, string) {
	tag, err := language.Parse(s)
	if err != nil {
		return "", "expected a BCP 47 language tag"
	}
	return tag.String(), ""
}
