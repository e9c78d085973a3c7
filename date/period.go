package date

import (
	"fmt"
	"slices"
	"strings"
)

// Period is the spacing of a series of values. It fixes how many periods
// make a year when returns are annualized.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

var periods = [...]struct {
	name    string
	perYear int
	aliases []string
}{
	Daily:     {"daily", 252, []string{"day"}},
	Weekly:    {"weekly", 52, []string{"week"}},
	Monthly:   {"monthly", 12, []string{"month"}},
	Quarterly: {"quarterly", 4, []string{"quarter"}},
	Yearly:    {"yearly", 1, []string{"year", "annual"}},
}

func (p Period) valid() bool { return p >= Daily && p <= Yearly }

func (p Period) String() string {
	if !p.valid() {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periods[p].name
}

// PeriodsPerYear returns 252 trading days, 52 weeks, 12 months, 4 quarters
// or 1.
func (p Period) PeriodsPerYear() int {
	if !p.valid() {
		panic(fmt.Sprintf("unknown period %d", int(p)))
	}
	return periods[p].perYear
}

// ParsePeriod reads a period name, e.g. "monthly" or "month".
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, def := range periods {
		if s == def.name || slices.Contains(def.aliases, s) {
			return Period(p), nil
		}
	}
	return Daily, fmt.Errorf("unknown period %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	if !p.valid() {
		return nil, fmt.Errorf("unknown period %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(text []byte) error {
	v, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
