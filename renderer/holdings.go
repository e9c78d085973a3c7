package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/folio"
)

// HoldingsMarkdown renders the current positions, cash and allocations of a
// portfolio state. Totals are in the base currency.
func HoldingsMarkdown(s *folio.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings in %s\n\n", s.BaseCurrency())

	holdingsTable(&b, s.Holdings(), s.Concentration)
	cashTable(&b, s.CashBalances())

	fmt.Fprint(&b, "## Totals\n\n")
	fmt.Fprintln(&b, "| | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Holdings | %s |\n", s.TotalHoldingsValue())
	fmt.Fprintf(&b, "| Cash | %s |\n", s.TotalCash())
	fmt.Fprintf(&b, "| **Total** | **%s** |\n", s.TotalValue())
	fmt.Fprintf(&b, "| Cost Basis | %s |\n", s.TotalCostBasis())
	fmt.Fprintf(&b, "| Unrealized P&L | %s |\n\n", s.TotalUnrealizedPnL().SignedString())

	ConditionalBlock(&b, func(w io.Writer) bool {
		classes := s.AssetClassBreakdown()
		fmt.Fprint(w, "## Asset Classes\n\n")
		fmt.Fprintln(w, "| Class | Share |")
		fmt.Fprintln(w, "|:---|---:|")
		for _, c := range sortedKeys(classes) {
			fmt.Fprintf(w, "| %s | %s |\n", c, classes[c])
		}
		fmt.Fprintln(w)
		return len(classes) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		exposure := s.CurrencyExposure()
		fmt.Fprint(w, "## Currency Exposure\n\n")
		fmt.Fprintln(w, "| Currency | Share |")
		fmt.Fprintln(w, "|:---|---:|")
		for _, c := range sortedKeys(exposure) {
			fmt.Fprintf(w, "| %s | %s |\n", c, exposure[c])
		}
		fmt.Fprintln(w)
		return len(exposure) > 0
	})

	return b.String()
}

// holdingsTable writes one row per position. weight, when not nil, gives the
// share of a symbol in the total portfolio value.
func holdingsTable(w io.Writer, holdings []folio.Holding, weight func(string) folio.Percent) {
	ConditionalBlock(w, func(w io.Writer) bool {
		fmt.Fprint(w, "## Positions\n\n")
		if weight != nil {
			fmt.Fprintln(w, "| Symbol | Class | Quantity | Avg Cost | Price | Market Value | Unrealized P&L | Return | Weight |")
			fmt.Fprintln(w, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|")
		} else {
			fmt.Fprintln(w, "| Symbol | Class | Quantity | Avg Cost | Price | Market Value | Unrealized P&L | Return |")
			fmt.Fprintln(w, "|:---|:---|---:|---:|---:|---:|---:|---:|")
		}
		for _, h := range holdings {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %s |",
				h.Symbol,
				h.AssetClass,
				h.Quantity,
				h.AvgCost,
				h.Price,
				h.MarketValue(),
				h.UnrealizedPnL().SignedString(),
				h.UnrealizedPnLPercent().SignedString(),
			)
			if weight != nil {
				fmt.Fprintf(w, " %s |", weight(h.Symbol))
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
		return len(holdings) > 0
	})
}

func cashTable(w io.Writer, balances []folio.CashBalance) {
	ConditionalBlock(w, func(w io.Writer) bool {
		fmt.Fprint(w, "## Cash\n\n")
		fmt.Fprintln(w, "| Currency | Available | Reserved | Total |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|")
		for _, c := range balances {
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
				c.Currency,
				folio.M(c.Available, c.Currency),
				folio.M(c.Reserved, c.Currency),
				folio.M(c.Total(), c.Currency),
			)
		}
		fmt.Fprintln(w)
		return len(balances) > 0
	})
}
