package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// =============================================================================
// Number
// =============================================================================

// Number is a numeric form value. It decodes from JSON numbers and from
// strings the way a form input coerces typed text: blank and null become 0,
// anything unparsable becomes NaN. NaN never crashes a rule; rules treat it
// as below any minimum and arithmetic treats it as 0.
type Number float64

// CoerceNumber converts typed text into a Number.
func CoerceNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number(math.NaN())
	}
	return Number(f)
}

// Float returns the raw value, which may be NaN or infinite.
func (n Number) Float() float64 {
	return float64(n)
}

// Finite reports whether n is neither NaN nor infinite.
func (n Number) Finite() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// OrZero returns n, or 0 when n is not finite.
func (n Number) OrZero() float64 {
	if !n.Finite() {
		return 0
	}
	return float64(n)
}

// String formats n without exponent or trailing zeros. Non-finite values
// format as the empty string.
func (n Number) String() string {
	if !n.Finite() {
		return ""
	}
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// MarshalJSON encodes non-finite values as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Finite() {
		return []byte("null"), nil
	}
	return []byte(n.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*n = 0
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = CoerceNumber(s)
	case raw == "true":
		*n = 1
	case raw == "false":
		*n = 0
	default:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			*n = Number(math.NaN())
			return nil
		}
		*n = Number(f)
	}
	return nil
}

// =============================================================================
// Date
// =============================================================================

// DateLayout is the canonical calendar-date layout (yyyy-MM-dd).
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date string cannot be understood.
var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar date without time of day. The zero Date means "not provided".
type Date struct {
	t time.Time
}

// NewDate returns the given calendar date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a date in any common layout (ISO date, RFC 3339 timestamp,
// US slash dates). A timestamp keeps the calendar date of its own offset.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// IsZero reports whether the date was not provided.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

// String formats the date as yyyy-MM-dd, or "" when absent.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON encodes the date as "yyyy-MM-dd", or null when absent.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts null, "" and any layout ParseDate understands.
func (d *Date) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(data))
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
