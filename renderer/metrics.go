package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/folio/performance"
)

// MetricsMarkdown renders performance metrics. Returns and risk measures are
// shown as percentages, ratios with two decimals.
func MetricsMarkdown(m performance.Metrics) string {
	var b strings.Builder
	if m.Periods == 0 {
		fmt.Fprint(&b, "# Performance\n\nNot enough history to measure performance.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "# Performance from %s to %s\n\n", m.Start, m.End)
	fmt.Fprintf(&b, "%d %s returns.\n\n", m.Periods, m.Period)

	fmt.Fprint(&b, "## Returns\n\n")
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Total Return | %s |\n", signedPercent(m.TotalReturn))
	fmt.Fprintf(&b, "| Annualized Return | %s |\n", signedPercent(m.AnnualizedReturn))
	fmt.Fprintf(&b, "| Best Period | %s |\n", signedPercent(m.BestPeriod))
	fmt.Fprintf(&b, "| Worst Period | %s |\n", signedPercent(m.WorstPeriod))
	fmt.Fprintf(&b, "| Positive Periods | %s |\n\n", percent(m.PositivePeriods))

	fmt.Fprint(&b, "## Risk\n\n")
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Volatility | %s |\n", percent(m.Volatility))
	fmt.Fprintf(&b, "| Downside Deviation | %s |\n", percent(m.DownsideDeviation))
	fmt.Fprintf(&b, "| Max Drawdown | %s |\n", percent(m.MaxDrawdown))
	fmt.Fprintf(&b, "| Sharpe Ratio | %s |\n", ratio(m.SharpeRatio))
	fmt.Fprintf(&b, "| Sortino Ratio | %s |\n", ratio(m.SortinoRatio))
	fmt.Fprintf(&b, "| Calmar Ratio | %s |\n", ratio(m.CalmarRatio))
	fmt.Fprintf(&b, "| Risk-Free Rate | %s |\n\n", percent(m.RiskFreeRate))

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Drawdowns\n\n")
		fmt.Fprintln(w, "| Peak | Trough | Recovery | Depth | Days |")
		fmt.Fprintln(w, "|:---|:---|:---|---:|---:|")
		for _, d := range m.Drawdowns {
			recovery := "ongoing"
			if !d.Ongoing() {
				recovery = d.End.String()
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s | %d |\n", d.Start, d.Trough, recovery, percent(d.MaxDrawdown), d.Duration)
		}
		fmt.Fprintln(w)
		return len(m.Drawdowns) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		t := m.Trades
		fmt.Fprint(w, "## Trades\n\n")
		fmt.Fprintln(w, "| Metric | Value |")
		fmt.Fprintln(w, "|:---|---:|")
		fmt.Fprintf(w, "| Trades | %d |\n", t.Total)
		fmt.Fprintf(w, "| Win Rate | %s |\n", percent(t.WinRate))
		fmt.Fprintf(w, "| Average Win | %s |\n", signedPercent(t.AverageWin))
		fmt.Fprintf(w, "| Average Loss | %s |\n", signedPercent(t.AverageLoss))
		fmt.Fprintf(w, "| Profit Factor | %s |\n", ratio(t.ProfitFactor))
		fmt.Fprintf(w, "| Expectancy | %s |\n\n", signedPercent(t.Expectancy))
		return t.Total > 0
	})

	if c := m.Benchmark; c != nil {
		fmt.Fprint(&b, "## Benchmark\n\n")
		fmt.Fprintln(&b, "| Metric | Value |")
		fmt.Fprintln(&b, "|:---|---:|")
		fmt.Fprintf(&b, "| Beta | %s |\n", ratio(c.Beta))
		fmt.Fprintf(&b, "| Alpha | %s |\n", signedPercent(c.Alpha))
		fmt.Fprintf(&b, "| Correlation | %s |\n", ratio(c.Correlation))
		fmt.Fprintf(&b, "| Tracking Error | %s |\n", percent(c.TrackingError))
		fmt.Fprintf(&b, "| Information Ratio | %s |\n", ratio(c.InformationRatio))
		fmt.Fprintf(&b, "| Up Capture | %s |\n", ratio(c.UpCapture))
		fmt.Fprintf(&b, "| Down Capture | %s |\n", ratio(c.DownCapture))
	}
	return b.String()
}
