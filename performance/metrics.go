package performance

import (
	"fmt"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// Input is what Metrics is computed from. Values is required for anything
// but trade statistics; Benchmark and TradeReturns are optional.
type Input struct {
	Values       *date.History[decimal.Decimal]
	Period       date.Period
	Benchmark    *date.History[decimal.Decimal]
	TradeReturns []decimal.Decimal
}

// Metrics gathers every performance figure of a value series.
type Metrics struct {
	Start        date.Date       `json:"start"`
	End          date.Date       `json:"end"`
	Period       date.Period     `json:"period"`
	Periods      int             `json:"periods"`
	RiskFreeRate decimal.Decimal `json:"risk_free_rate"` // annual rate behind Sharpe and alpha

	TotalReturn       decimal.Decimal `json:"total_return"`
	AnnualizedReturn  decimal.Decimal `json:"annualized_return"`
	Volatility        decimal.Decimal `json:"volatility"`
	DownsideDeviation decimal.Decimal `json:"downside_deviation"`
	SharpeRatio       decimal.Decimal `json:"sharpe_ratio"`
	SortinoRatio      decimal.Decimal `json:"sortino_ratio"`
	MaxDrawdown       decimal.Decimal `json:"max_drawdown"`
	CalmarRatio       decimal.Decimal `json:"calmar_ratio"`

	BestPeriod      decimal.Decimal `json:"best_period"`
	WorstPeriod     decimal.Decimal `json:"worst_period"`
	PositivePeriods decimal.Decimal `json:"positive_periods"` // fraction of periods with a positive return

	Drawdowns           []DrawdownInfo `json:"drawdowns,omitempty"`
	LongestDrawdownDays int            `json:"longest_drawdown_days"`

	Trades    TradeStatistics      `json:"trades"`
	Benchmark *BenchmarkComparison `json:"benchmark,omitempty"`
}

// Metrics computes all metrics of in. A value series with fewer than two
// points yields zero metrics. A benchmark that does not line up with the
// values is an error.
func (c *Calculator) Metrics(in Input) (Metrics, error) {
	m := Metrics{Period: in.Period, RiskFreeRate: c.RiskFreeRate(), Trades: c.TradeStatistics(in.TradeReturns)}
	rs := c.Returns(in.Values, in.Period)
	if rs.Len() == 0 {
		return m, nil
	}
	returns := rs.Values()
	ppy := rs.periodsPerYear()

	m.Start, _ = in.Values.First()
	m.End, _ = in.Values.Latest()
	m.Periods = rs.Len()

	m.TotalReturn = round4(totalReturn(returns))
	m.AnnualizedReturn = round4(annualizedReturn(returns, ppy))
	m.Volatility = round4(volatility(returns, ppy))
	m.DownsideDeviation = round4(c.downsideDeviation(returns, ppy))
	m.SharpeRatio = round4(c.sharpe(returns, ppy))
	m.SortinoRatio = round4(c.sortino(returns, ppy))
	m.MaxDrawdown = round4(maxDrawdown(returns))
	m.CalmarRatio = round4(calmar(returns, ppy))

	best, worst, positive := returns[0], returns[0], 0
	for _, r := range returns {
		best = decimal.Max(best, r)
		worst = decimal.Min(worst, r)
		if r.IsPositive() {
			positive++
		}
	}
	m.BestPeriod = round4(best)
	m.WorstPeriod = round4(worst)
	m.PositivePeriods = round4(decimal.NewFromInt(int64(positive)).Div(decimal.NewFromInt(int64(len(returns)))))

	m.Drawdowns = c.Drawdowns(in.Values)
	for _, d := range m.Drawdowns {
		m.LongestDrawdownDays = max(m.LongestDrawdownDays, d.Duration)
	}

	if in.Benchmark != nil {
		cmp, err := c.CompareBenchmark(rs, c.Returns(in.Benchmark, in.Period))
		if err != nil {
			return m, fmt.Errorf("benchmark: %w", err)
		}
		m.Benchmark = &cmp
	}
	return m, nil
}
