package performance

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func decs(vs ...string) []decimal.Decimal {
	res := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		res[i] = decimal.RequireFromString(v)
	}
	return res
}

func floats(ds []decimal.Decimal) []float64 {
	res := make([]float64, len(ds))
	for i, d := range ds {
		res[i] = d.InexactFloat64()
	}
	return res
}

func series(period date.Period, vs ...string) ReturnSeries {
	return NewReturnSeries(period, decs(vs...)...)
}

// daily returns a value history starting on 2024-01-01, one value per day.
func daily(vs ...string) *date.History[decimal.Decimal] {
	h := date.NewHistory[decimal.Decimal](len(vs))
	start := date.New(2024, time.January, 1)
	for i, v := range decs(vs...) {
		h.Append(start.Add(i), v)
	}
	return h
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), append([]any{"want %s got %s", want, got}, msgAndArgs...)...)
}

func TestCalculator_Returns(t *testing.T) {
	c := NewCalculator()
	rs := c.Returns(daily("100", "110", "99", "0", "50"), date.Daily)
	require.Equal(t, 4, rs.Len())
	assert.Equal(t, date.Daily, rs.Period)
	assert.Equal(t, date.New(2024, time.January, 2), rs.Points[0].Date)
	for i, want := range []string{"0.1", "-0.1", "-1", "0"} {
		assertDecimal(t, want, rs.Points[i].Return, "return %d", i)
	}

	assert.Zero(t, c.Returns(daily("100"), date.Daily).Len())
	assert.Zero(t, c.Returns(nil, date.Daily).Len())
}

func TestCalculator_TotalAndAnnualizedReturn(t *testing.T) {
	c := NewCalculator()
	monthly := make([]string, 12)
	for i := range monthly {
		monthly[i] = "0.01"
	}

	tests := []struct {
		name       string
		rs         ReturnSeries
		total, ann string
	}{
		{"empty", series(date.Daily), "0", "0"},
		{"two years", series(date.Yearly, "0.1", "0.1"), "0.21", "0.1"},
		{"one year of months", series(date.Monthly, monthly...), "0.1268", "0.1268"},
		{"quarter of a year", series(date.Quarterly, "0.05"), "0.05", "0.2155"},
		{"total loss", series(date.Monthly, "0.5", "-1"), "-1", "-1"},
		{"overflow is capped", series(date.Daily, "10"), "10", MaxAnnualizedReturn.String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.total, c.TotalReturn(tt.rs))
			assertDecimal(t, tt.ann, c.AnnualizedReturn(tt.rs))
		})
	}
}

func TestCalculator_Volatility(t *testing.T) {
	c := NewCalculator()
	returns := decs("0.01", "-0.02", "0.015", "0.03", "-0.005", "0.002")
	rs := NewReturnSeries(date.Daily, returns...)

	want := stat.StdDev(floats(returns), nil) * math.Sqrt(252)
	assert.InDelta(t, want, c.Volatility(rs).InexactFloat64(), 1e-4)

	weekly := NewReturnSeries(date.Weekly, returns...)
	want = stat.StdDev(floats(returns), nil) * math.Sqrt(52)
	assert.InDelta(t, want, c.Volatility(weekly).InexactFloat64(), 1e-4)

	assert.True(t, c.Volatility(series(date.Daily, "0.3")).IsZero())
}

func TestCalculator_DownsideDeviation(t *testing.T) {
	c := NewCalculator()
	rs := series(date.Daily, "0.01", "-0.02", "0.015", "0.03", "-0.005", "0.002")
	want := stat.StdDev([]float64{-0.02, -0.005}, nil) * math.Sqrt(252)
	assert.InDelta(t, want, c.DownsideDeviation(rs).InexactFloat64(), 1e-4)

	// Only one return below 0.
	assert.True(t, c.DownsideDeviation(series(date.Daily, "0.01", "-0.02", "0.01")).IsZero())

	// A higher bar makes more periods count as downside.
	strict := NewCalculator(WithMinimumAcceptableReturn(decimal.RequireFromString("0.012")))
	want = stat.StdDev([]float64{0.01, -0.02, -0.005, 0.002}, nil) * math.Sqrt(252)
	assert.InDelta(t, want, strict.DownsideDeviation(rs).InexactFloat64(), 1e-4)
}

func TestCalculator_Ratios(t *testing.T) {
	c := NewCalculator()
	rs := series(date.Monthly, "0.02", "-0.01", "0.03", "-0.04", "0.01", "0.02")

	ann := annualizedReturn(rs.Values(), 12)
	vol := volatility(rs.Values(), 12)
	dd := c.downsideDeviation(rs.Values(), 12)
	mdd := maxDrawdown(rs.Values())

	assertDecimal(t, ann.Sub(decimal.RequireFromString("0.02")).Div(vol).Round(4).String(), c.SharpeRatio(rs))
	assertDecimal(t, ann.Div(dd).Round(4).String(), c.SortinoRatio(rs))
	assertDecimal(t, ann.Div(mdd.Abs()).Round(4).String(), c.CalmarRatio(rs))
	assertDecimal(t, "-0.04", c.MaxDrawdown(rs))

	t.Run("zero denominators", func(t *testing.T) {
		flat := series(date.Daily, "0.01", "0.01", "0.01")
		assert.True(t, c.Volatility(flat).IsZero())
		assert.True(t, c.SharpeRatio(flat).IsZero())
		assert.True(t, c.SortinoRatio(flat).IsZero())
		assert.True(t, c.MaxDrawdown(flat).IsZero())
		assert.True(t, c.CalmarRatio(flat).IsZero())
	})
}

func TestCalculator_MaxDrawdownNeverPositive(t *testing.T) {
	c := NewCalculator()
	for _, rs := range []ReturnSeries{
		series(date.Daily),
		series(date.Daily, "0.1", "0.2"),
		series(date.Daily, "-0.5", "0.9", "-0.1"),
		series(date.Daily, "-1"),
	} {
		assert.False(t, c.MaxDrawdown(rs).IsPositive(), "%v", rs.Values())
	}
	assertDecimal(t, "-1", c.MaxDrawdown(series(date.Daily, "0.2", "-1")))
}

func TestCalculator_Drawdowns(t *testing.T) {
	d := func(day int) date.Date { return date.New(2024, time.January, day) }

	t.Run("recovered", func(t *testing.T) {
		c := NewCalculator()
		got := c.Drawdowns(daily("1.00", "1.10", "0.90", "1.05", "1.10"))
		require.Len(t, got, 1)
		dd := got[0]
		assert.Equal(t, d(2), dd.Start)
		assert.Equal(t, d(3), dd.Trough)
		assert.Equal(t, d(5), dd.End)
		assert.False(t, dd.Ongoing())
		assertDecimal(t, "1.1", dd.PeakValue)
		assertDecimal(t, "0.9", dd.TroughValue)
		assertDecimal(t, "-0.1818", dd.MaxDrawdown)
		assert.Equal(t, 3, dd.Duration)
		assert.Equal(t, 2, dd.RecoveryDays)

		rs := c.Returns(daily("1.00", "1.10", "0.90", "1.05", "1.10"), date.Daily)
		assertDecimal(t, "-0.1818", c.MaxDrawdown(rs))
	})

	t.Run("ongoing", func(t *testing.T) {
		got := NewCalculator().Drawdowns(daily("1", "0.8", "0.9"))
		require.Len(t, got, 1)
		assert.True(t, got[0].Ongoing())
		assert.Equal(t, d(1), got[0].Start)
		assert.Equal(t, d(2), got[0].Trough)
		assert.Equal(t, 2, got[0].Duration)
		assert.Zero(t, got[0].RecoveryDays)
		assertDecimal(t, "-0.2", got[0].MaxDrawdown)
	})

	t.Run("threshold", func(t *testing.T) {
		c := NewCalculator(WithDrawdownThreshold(decimal.RequireFromString("0.1")))
		got := c.Drawdowns(daily("1", "0.95", "1", "0.85", "0.8", "0.9"))
		require.Len(t, got, 1, "the 5% dip is below the threshold")
		assert.Equal(t, d(3), got[0].Start)
		assert.Equal(t, d(5), got[0].Trough)
		assertDecimal(t, "-0.2", got[0].MaxDrawdown)
		assert.True(t, got[0].Ongoing())
	})

	t.Run("several episodes", func(t *testing.T) {
		got := NewCalculator().Drawdowns(daily("10", "9", "10", "12", "6", "12.5"))
		require.Len(t, got, 2)
		assertDecimal(t, "-0.1", got[0].MaxDrawdown)
		assertDecimal(t, "-0.5", got[1].MaxDrawdown)
		assert.Equal(t, d(4), got[1].Start)
		assert.Equal(t, d(6), got[1].End)
	})

	assert.Empty(t, NewCalculator().Drawdowns(daily("1", "2", "3")))
	assert.Empty(t, NewCalculator().Drawdowns(nil))
}

func TestCalculator_TradeStatistics(t *testing.T) {
	c := NewCalculator()
	ts := c.TradeStatistics(decs("0.1", "-0.05", "0", "0.2", "-0.15"))

	assert.Equal(t, 5, ts.Total)
	assert.Equal(t, 2, ts.Winners)
	assert.Equal(t, 2, ts.Losers)
	assert.Equal(t, 1, ts.Breakeven)
	assertDecimal(t, "0.4", ts.WinRate)
	assertDecimal(t, "0.4", ts.LossRate)
	assertDecimal(t, "0.15", ts.AverageWin)
	assertDecimal(t, "-0.1", ts.AverageLoss)
	assertDecimal(t, "0.2", ts.LargestWin)
	assertDecimal(t, "-0.15", ts.LargestLoss)
	assertDecimal(t, "1.5", ts.ProfitFactor)
	assertDecimal(t, "0.02", ts.Expectancy)

	onlyWins := c.TradeStatistics(decs("0.1", "0.3"))
	assert.True(t, onlyWins.ProfitFactor.IsZero())
	assertDecimal(t, "0.2", onlyWins.Expectancy)

	assert.Equal(t, TradeStatistics{}, c.TradeStatistics(nil))
}

func TestCalculator_CompareBenchmark(t *testing.T) {
	c := NewCalculator()

	t.Run("length mismatch", func(t *testing.T) {
		_, err := c.CompareBenchmark(series(date.Daily, "0.1"), series(date.Daily, "0.1", "0.2"))
		assert.ErrorIs(t, err, ErrLengthMismatch)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("period mismatch", func(t *testing.T) {
		_, err := c.CompareBenchmark(series(date.Daily, "0.1"), series(date.Monthly, "0.1"))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("too short", func(t *testing.T) {
		for _, n := range []int{0, 1} {
			p := NewReturnSeries(date.Daily, decs("0.05", "0.01")[:n]...)
			b := NewReturnSeries(date.Daily, decs("-0.03", "0.02")[:n]...)
			got, err := c.CompareBenchmark(p, b)
			require.NoError(t, err)
			assert.Equal(t, BenchmarkComparison{}, got, "%d returns", n)
		}
	})

	t.Run("leveraged", func(t *testing.T) {
		b := series(date.Daily, "0.01", "-0.02", "0.03", "-0.01")
		p := series(date.Daily, "0.02", "-0.04", "0.06", "-0.02")
		got, err := c.CompareBenchmark(p, b)
		require.NoError(t, err)
		assertDecimal(t, "2", got.Beta)
		assertDecimal(t, "1", got.Correlation)
		assertDecimal(t, "2", got.UpCapture)
		assertDecimal(t, "2", got.DownCapture)
		want := stat.StdDev(floats(b.Values()), nil) * math.Sqrt(252)
		assert.InDelta(t, want, got.TrackingError.InexactFloat64(), 1e-4)
	})

	t.Run("identical", func(t *testing.T) {
		b := series(date.Monthly, "0.01", "-0.02", "0.03")
		got, err := c.CompareBenchmark(b, b)
		require.NoError(t, err)
		assertDecimal(t, "1", got.Beta)
		assert.True(t, got.Alpha.IsZero(), "alpha %s", got.Alpha)
		assert.True(t, got.TrackingError.IsZero())
		assert.True(t, got.InformationRatio.IsZero())
	})

	t.Run("gonum reference", func(t *testing.T) {
		p := decs("0.012", "-0.004", "0.021", "0.007", "-0.013", "0.009")
		b := decs("0.010", "-0.006", "0.015", "0.002", "-0.011", "0.004")
		got, err := c.CompareBenchmark(NewReturnSeries(date.Weekly, p...), NewReturnSeries(date.Weekly, b...))
		require.NoError(t, err)
		fp, fb := floats(p), floats(b)
		assert.InDelta(t, stat.Covariance(fp, fb, nil)/stat.Variance(fb, nil), got.Beta.InexactFloat64(), 1e-4)
		assert.InDelta(t, stat.Correlation(fp, fb, nil), got.Correlation.InexactFloat64(), 1e-4)
	})
}

func TestCalculator_Metrics(t *testing.T) {
	c := NewCalculator()

	t.Run("empty", func(t *testing.T) {
		m, err := c.Metrics(Input{Period: date.Daily})
		require.NoError(t, err)
		assert.Zero(t, m.Periods)
		assert.True(t, m.TotalReturn.IsZero())
		assert.True(t, m.SharpeRatio.IsZero())
		assert.Empty(t, m.Drawdowns)
		assert.Nil(t, m.Benchmark)
		assertDecimal(t, "0.02", m.RiskFreeRate)
	})

	t.Run("full", func(t *testing.T) {
		values := daily("1.00", "1.10", "0.90", "1.05", "1.10")
		m, err := c.Metrics(Input{
			Values:       values,
			Period:       date.Daily,
			Benchmark:    daily("100", "101", "99", "100", "102"),
			TradeReturns: decs("0.1", "-0.05"),
		})
		require.NoError(t, err)
		assert.Equal(t, date.New(2024, time.January, 1), m.Start)
		assert.Equal(t, date.New(2024, time.January, 5), m.End)
		assert.Equal(t, 4, m.Periods)
		assertDecimal(t, "0.1", m.TotalReturn)
		assertDecimal(t, "0.1667", m.BestPeriod)
		assertDecimal(t, "-0.1818", m.WorstPeriod)
		assertDecimal(t, "0.75", m.PositivePeriods)
		assertDecimal(t, "-0.1818", m.MaxDrawdown)
		assert.Len(t, m.Drawdowns, 1)
		assert.Equal(t, 3, m.LongestDrawdownDays)
		assert.Equal(t, 2, m.Trades.Total)
		require.NotNil(t, m.Benchmark)
		assert.True(t, m.Benchmark.Beta.IsPositive())

		rs := c.Returns(values, date.Daily)
		assertDecimal(t, c.SharpeRatio(rs).String(), m.SharpeRatio)
		assertDecimal(t, c.Volatility(rs).String(), m.Volatility)
	})

	t.Run("benchmark mismatch", func(t *testing.T) {
		_, err := c.Metrics(Input{Values: daily("1", "2", "3"), Benchmark: daily("1", "2")})
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})
}

func TestMetrics_JSON(t *testing.T) {
	c := NewCalculator(WithRiskFreeRate(decimal.RequireFromString("0.03")))
	m, err := c.Metrics(Input{
		Values:       daily("1.00", "1.10", "0.90", "1.05"),
		Period:       date.Daily,
		Benchmark:    daily("100", "101", "99", "100"),
		TradeReturns: decs("0.1", "-0.05"),
	})
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	for _, key := range []string{"start", "end", "period", "total_return", "sharpe_ratio", "max_drawdown", "risk_free_rate", "longest_drawdown_days", "drawdowns", "trades", "benchmark"} {
		assert.Contains(t, doc, key)
	}
	assert.NotContains(t, doc, "TotalReturn")
	assert.Equal(t, "2024-01-01", doc["start"])
	assert.Equal(t, "0.03", doc["risk_free_rate"])

	trades := doc["trades"].(map[string]any)
	assert.Contains(t, trades, "win_rate")
	assert.Contains(t, trades, "profit_factor")
	bench := doc["benchmark"].(map[string]any)
	assert.Contains(t, bench, "tracking_error")
	assert.Contains(t, bench, "up_capture")

	dd := doc["drawdowns"].([]any)[0].(map[string]any)
	assert.Contains(t, dd, "peak_value")
	assert.Contains(t, dd, "recovery_days")
	assert.NotContains(t, dd, "end", "ongoing drawdown has no recovery date")

	empty, err := json.Marshal(Metrics{})
	require.NoError(t, err)
	assert.NotContains(t, string(empty), `"benchmark"`)
}
