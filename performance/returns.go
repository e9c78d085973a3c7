package performance

import (
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// Point is a simple return over the period ending on Date.
type Point struct {
	Date   date.Date
	Return decimal.Decimal
}

// ReturnSeries is a chronological list of simple period returns. Period
// fixes how many of them make a year.
type ReturnSeries struct {
	Period date.Period
	Points []Point
}

// NewReturnSeries builds a series from raw returns. Dates are left zero.
func NewReturnSeries(period date.Period, returns ...decimal.Decimal) ReturnSeries {
	rs := ReturnSeries{Period: period, Points: make([]Point, len(returns))}
	for i, r := range returns {
		rs.Points[i].Return = r
	}
	return rs
}

// Len is the number of periods.
func (rs ReturnSeries) Len() int { return len(rs.Points) }

// Values returns the returns alone.
func (rs ReturnSeries) Values() []decimal.Decimal {
	res := make([]decimal.Decimal, len(rs.Points))
	for i, p := range rs.Points {
		res[i] = p.Return
	}
	return res
}

func (rs ReturnSeries) periodsPerYear() int { return rs.Period.PeriodsPerYear() }

// Returns converts a value series into simple returns: one point per value
// after the first, (v[i] - v[i-1]) / v[i-1]. A zero previous value gives a 0
// return. Fewer than 2 values give an empty series.
func (c *Calculator) Returns(values *date.History[decimal.Decimal], period date.Period) ReturnSeries {
	rs := ReturnSeries{Period: period}
	if values.Len() < 2 {
		return rs
	}
	rs.Points = make([]Point, 0, values.Len()-1)
	var prev decimal.Decimal
	first := true
	for day, v := range values.Values() {
		if first {
			prev, first = v, false
			continue
		}
		rs.Points = append(rs.Points, Point{Date: day, Return: ratio(v.Sub(prev), prev)})
		prev = v
	}
	return rs
}

// cumulative rebuilds a value series starting at 1 from returns. The starting
// value is included.
func cumulative(returns []decimal.Decimal) []decimal.Decimal {
	res := make([]decimal.Decimal, 0, len(returns)+1)
	v := one
	res = append(res, v)
	for _, r := range returns {
		v = v.Mul(one.Add(r))
		res = append(res, v)
	}
	return res
}
