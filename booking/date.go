package booking

import (
	"time"
)

// =============================================================================
// DATE KEY - Calendar date with no time component
// =============================================================================

// DateKey is a calendar date. Cells, overrides and stays are keyed by
// DateKey; the canonical string form is YYYY-MM-DD.
type DateKey struct {
	t time.Time
}

const dateLayout = "2006-01-02"

// NewDateKey builds a DateKey for the given calendar day (UTC).
func NewDateKey(year int, month time.Month, day int) DateKey {
	return DateKey{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateKeyFromTime truncates a time.Time to its calendar day.
func DateKeyFromTime(t time.Time) DateKey {
	return NewDateKey(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day (UTC).
func Today() DateKey { return DateKeyFromTime(time.Now().UTC()) }

// ParseDateKey parses the canonical YYYY-MM-DD form.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return DateKey{}, err
	}
	return DateKeyFromTime(t), nil
}

// Comparison
func (d DateKey) Before(other DateKey) bool        { return d.t.Before(other.t) }
func (d DateKey) Equal(other DateKey) bool         { return d.t.Equal(other.t) }
func (d DateKey) After(other DateKey) bool         { return d.t.After(other.t) }
func (d DateKey) BeforeOrEqual(other DateKey) bool { return d.Before(other) || d.Equal(other) }
func (d DateKey) AfterOrEqual(other DateKey) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d DateKey) AddDays(n int) DateKey { return DateKey{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d DateKey) Year() int         { return d.t.Year() }
func (d DateKey) Month() time.Month { return d.t.Month() }
func (d DateKey) Day() int          { return d.t.Day() }
func (d DateKey) IsZero() bool      { return d.t.IsZero() }
func (d DateKey) Time() time.Time   { return d.t }

func (d DateKey) String() string { return d.t.Format(dateLayout) }

// MarshalText/UnmarshalText make DateKey usable as a JSON value and map key.
func (d DateKey) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DateKey) UnmarshalText(b []byte) error {
	parsed, err := ParseDateKey(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns the whole days from `from` to `to` (negative when `to`
// precedes `from`).
func DaysBetween(from, to DateKey) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// =============================================================================
// STAY RANGE - Inclusive check-in, exclusive check-out
// =============================================================================

// StayRange is a half-open date interval [Checkin, Checkout): the check-out
// night is never billed and never claims a cell.
type StayRange struct {
	Checkin  DateKey
	Checkout DateKey
}

// NewStayRange validates and builds a stay. A zero-length or reversed range
// is rejected with InvalidRangeError.
func NewStayRange(checkin, checkout DateKey) (StayRange, error) {
	if !checkout.After(checkin) {
		return StayRange{}, &InvalidRangeError{Start: checkin, End: checkout}
	}
	return StayRange{Checkin: checkin, Checkout: checkout}, nil
}

// Nights returns the number of billable nights.
func (r StayRange) Nights() int { return DaysBetween(r.Checkin, r.Checkout) }

// Dates enumerates the billable nights in ascending order: [Checkin, Checkout).
func (r StayRange) Dates() []DateKey {
	dates := make([]DateKey, 0, r.Nights())
	for d := r.Checkin; d.Before(r.Checkout); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}

// Contains reports whether the night d is part of the stay.
func (r StayRange) Contains(d DateKey) bool {
	return d.AfterOrEqual(r.Checkin) && d.Before(r.Checkout)
}

func (r StayRange) String() string {
	return "[" + r.Checkin.String() + ", " + r.Checkout.String() + ")"
}
