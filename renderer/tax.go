package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/folio/cgt"
)

// TaxReportMarkdown renders the capital gains schedule of a tax year.
func TaxReportMarkdown(r cgt.TaxReport) string {
	var b strings.Builder
	s := r.Summary
	fmt.Fprintf(&b, "# Capital Gains Tax %d-%02d\n\n", s.TaxYear-1, s.TaxYear%100)
	fmt.Fprintf(&b, "From %s to %s, %d disposals.\n\n", r.From, r.To, s.Events)

	fmt.Fprint(&b, "## Summary\n\n")
	fmt.Fprintln(&b, "| | AUD |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Discountable gains | %s |\n", aud(s.DiscountableGains))
	fmt.Fprintf(&b, "| Non-discountable gains | %s |\n", aud(s.NonDiscountableGains))
	fmt.Fprintf(&b, "| Total gains | %s |\n", aud(s.TotalGains))
	fmt.Fprintf(&b, "| Current year losses | %s |\n", aud(s.TotalLosses))
	fmt.Fprintf(&b, "| Prior year losses | %s |\n", aud(s.CarriedForwardIn))
	fmt.Fprintf(&b, "| Losses applied | %s |\n", aud(s.LossesApplied))
	fmt.Fprintf(&b, "| CGT discount | %s |\n", aud(s.DiscountApplied))
	fmt.Fprintf(&b, "| **Net capital gain** | **%s** |\n", aud(s.NetCapitalGain))
	fmt.Fprintf(&b, "| Losses carried forward | %s |\n\n", aud(s.LossesCarriedForward))

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Disposals\n\n")
		fmt.Fprintln(w, "| Symbol | Acquired | Disposed | Quantity | Proceeds | Cost Base | Gain/Loss | Days | Method | Net Gain |")
		fmt.Fprintln(w, "|:---|:---|:---|---:|---:|---:|---:|---:|:---|---:|")
		for _, t := range r.Transactions {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %d | %s | %s |\n",
				t.Symbol,
				t.Acquired,
				t.Disposed,
				t.Quantity,
				aud(t.NetProceeds),
				aud(t.CostBase),
				aud(t.GainOrLoss),
				t.HoldingDays,
				t.Method,
				aud(t.NetGain),
			)
		}
		return len(r.Transactions) > 0
	})
	return b.String()
}
