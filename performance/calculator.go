// Package performance derives risk and return metrics from value series,
// trade returns and benchmarks.
//
// All arithmetic is decimal. Returns and ratios are rounded half-up to 4
// decimals on output. Divisions by zero give 0 rather than an error.
package performance

import (
	"github.com/shopspring/decimal"
)

// Calculator computes performance metrics. It holds only its configuration,
// so a Calculator is safe for concurrent use.
type Calculator struct {
	riskFree  decimal.Decimal // annual
	mar       decimal.Decimal // per period
	threshold decimal.Decimal // minimum drawdown depth to report, as a positive fraction
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithRiskFreeRate sets the annual risk-free rate used by Sharpe and alpha.
// The default is 0.02.
func WithRiskFreeRate(r decimal.Decimal) Option { return func(c *Calculator) { c.riskFree = r } }

// WithMinimumAcceptableReturn sets the per-period return below which a
// period counts as downside. The default is 0.
func WithMinimumAcceptableReturn(r decimal.Decimal) Option {
	return func(c *Calculator) { c.mar = r }
}

// WithDrawdownThreshold sets the depth, as a positive fraction, a decline
// must reach before it is reported as a drawdown episode. The default is 0.
func WithDrawdownThreshold(t decimal.Decimal) Option {
	return func(c *Calculator) { c.threshold = t.Abs() }
}

// NewCalculator returns a configured Calculator.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{riskFree: decimal.RequireFromString("0.02")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RiskFreeRate returns the configured annual risk-free rate.
func (c *Calculator) RiskFreeRate() decimal.Decimal { return c.riskFree }

// TotalReturn compounds the returns: ∏(1+r) - 1.
func (c *Calculator) TotalReturn(rs ReturnSeries) decimal.Decimal {
	return round4(totalReturn(rs.Values()))
}

func totalReturn(returns []decimal.Decimal) decimal.Decimal {
	growth := one
	for _, r := range returns {
		growth = growth.Mul(one.Add(r))
	}
	return growth.Sub(one)
}

// AnnualizedReturn is (1+total)^(periodsPerYear/n) - 1. It is 0 without
// periods, -1 when everything was lost, and at most MaxAnnualizedReturn.
func (c *Calculator) AnnualizedReturn(rs ReturnSeries) decimal.Decimal {
	return round4(annualizedReturn(rs.Values(), rs.periodsPerYear()))
}

func annualizedReturn(returns []decimal.Decimal, ppy int) decimal.Decimal {
	n := len(returns)
	if n == 0 {
		return zero
	}
	growth := one.Add(totalReturn(returns))
	if growth.Sign() <= 0 {
		return one.Neg()
	}
	return pow(growth, ppy, n, MaxAnnualizedReturn.Add(one)).Sub(one)
}

// Volatility is the sample standard deviation of returns times
// sqrt(periodsPerYear). It is 0 for fewer than 2 returns.
func (c *Calculator) Volatility(rs ReturnSeries) decimal.Decimal {
	return round4(volatility(rs.Values(), rs.periodsPerYear()))
}

func volatility(returns []decimal.Decimal, ppy int) decimal.Decimal {
	return sampleStdDev(returns).Mul(sqrt(decimal.NewFromInt(int64(ppy))))
}

// DownsideDeviation is the annualized sample standard deviation of the
// returns below the minimum acceptable return. It needs at least 2 such
// returns, otherwise it is 0.
func (c *Calculator) DownsideDeviation(rs ReturnSeries) decimal.Decimal {
	return round4(c.downsideDeviation(rs.Values(), rs.periodsPerYear()))
}

func (c *Calculator) downsideDeviation(returns []decimal.Decimal, ppy int) decimal.Decimal {
	var below []decimal.Decimal
	for _, r := range returns {
		if r.LessThan(c.mar) {
			below = append(below, r)
		}
	}
	if len(below) < 2 {
		return zero
	}
	return volatility(below, ppy)
}

// SharpeRatio is (annualized return - risk free) / volatility, 0 when the
// volatility is 0.
func (c *Calculator) SharpeRatio(rs ReturnSeries) decimal.Decimal {
	return round4(c.sharpe(rs.Values(), rs.periodsPerYear()))
}

func (c *Calculator) sharpe(returns []decimal.Decimal, ppy int) decimal.Decimal {
	return ratio(annualizedReturn(returns, ppy).Sub(c.riskFree), volatility(returns, ppy))
}

// SortinoRatio is (annualized return - MAR) / downside deviation, 0 when the
// downside deviation is 0.
func (c *Calculator) SortinoRatio(rs ReturnSeries) decimal.Decimal {
	return round4(c.sortino(rs.Values(), rs.periodsPerYear()))
}

func (c *Calculator) sortino(returns []decimal.Decimal, ppy int) decimal.Decimal {
	return ratio(annualizedReturn(returns, ppy).Sub(c.mar), c.downsideDeviation(returns, ppy))
}

// MaxDrawdown compounds the returns into a value series starting at 1 and
// returns the most negative (value - peak) / peak. It is never positive.
func (c *Calculator) MaxDrawdown(rs ReturnSeries) decimal.Decimal {
	return round4(maxDrawdown(rs.Values()))
}

func maxDrawdown(returns []decimal.Decimal) decimal.Decimal {
	worst := zero
	var peak decimal.Decimal
	for i, v := range cumulative(returns) {
		if i == 0 || v.GreaterThan(peak) {
			peak = v
			continue
		}
		if dd := ratio(v.Sub(peak), peak); dd.LessThan(worst) {
			worst = dd
		}
	}
	return worst
}

// CalmarRatio is annualized return / |max drawdown|, 0 without drawdown.
func (c *Calculator) CalmarRatio(rs ReturnSeries) decimal.Decimal {
	return round4(calmar(rs.Values(), rs.periodsPerYear()))
}

func calmar(returns []decimal.Decimal, ppy int) decimal.Decimal {
	return ratio(annualizedReturn(returns, ppy), maxDrawdown(returns).Abs())
}
