// Package date provides a calendar Date, the reporting periods used to
// annualize returns and a chronological History of dated values.
package date

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

// Layout is the ISO 8601 layout dates are printed with.
const Layout = "2006-01-02"

// lenient layouts accepted by Parse, in order.
var layouts = []string{"2006-1-2", time.RFC3339}

// Date is a calendar day without time of day or location. The zero Date is
// not a day.
type Date struct {
	year  int
	month time.Month
	day   int
}

// New returns the date of year, month and day, normalized the way time.Date
// does: New(2024, 2, 30) is March 1st.
func New(year int, month time.Month, day int) Date {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Of returns the day of t in t's own location.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// Today returns the current day in the local time zone.
func Today() Date { return Of(time.Now()) }

func (d Date) Year() int          { return d.year }
func (d Date) Month() time.Month  { return d.month }
func (d Date) Day() int           { return d.day }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }
func (d Date) After(x Date) bool  { return d.Compare(x) > 0 }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after x.
func (d Date) Compare(x Date) int {
	if c := cmp.Compare(d.year, x.year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.month, x.month); c != 0 {
		return c
	}
	return cmp.Compare(d.day, x.day)
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC) }

// Add returns the date n days later, or earlier when n is negative.
func (d Date) Add(n int) Date { return New(d.year, d.month, d.day+n) }

// DaysSince returns the number of calendar days from x to d, negative when x
// is after d.
func (d Date) DaysSince(x Date) int { return int(d.Time().Sub(x.Time()).Hours() / 24) }

func (d Date) String() string { return d.Time().Format(Layout) }

// Parse reads a date as 2025-07-01, 2025-7-1 or an RFC 3339 timestamp, whose
// time of day is dropped.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Of(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q want format %q", s, Layout)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MarshalText implements encoding.TextMarshaler, so that dates are JSON
// strings.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
