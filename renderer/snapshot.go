package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/folio"
)

// SnapshotMarkdown renders a point-in-time snapshot: its metadata, positions,
// cash and pre-computed totals.
func SnapshotMarkdown(s *folio.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Snapshot %s\n\n", s.Time().UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "ID: %s\n\n", s.ID())

	ConditionalBlock(&b, func(w io.Writer) bool {
		meta := s.Metadata()
		fmt.Fprintln(w, "| Key | Value |")
		fmt.Fprintln(w, "|:---|:---|")
		for _, k := range sortedKeys(meta) {
			fmt.Fprintf(w, "| %s | %s |\n", k, meta[k])
		}
		fmt.Fprintln(w)
		return len(meta) > 0
	})

	holdingsTable(&b, s.Holdings(), nil)
	cashTable(&b, s.CashBalances())

	fmt.Fprintf(&b, "## Totals in %s\n\n", s.BaseCurrency())
	fmt.Fprintln(&b, "| | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Holdings | %s |\n", s.TotalHoldingsValue())
	fmt.Fprintf(&b, "| Cash | %s |\n", s.TotalCash())
	fmt.Fprintf(&b, "| **Total** | **%s** |\n", s.TotalValue())
	fmt.Fprintf(&b, "| Cost Basis | %s |\n", s.TotalCostBasis())
	fmt.Fprintf(&b, "| Unrealized P&L | %s |\n", s.TotalUnrealizedPnL().SignedString())
	return b.String()
}

// HistoryMarkdown renders the total value of a list of snapshots, oldest
// first, with the change from one snapshot to the next.
func HistoryMarkdown(snaps []*folio.Snapshot) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Value History\n\n")
	if len(snaps) == 0 {
		fmt.Fprintln(&b, "No snapshot recorded.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | Holdings | Cash | Total | Change |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	var prev *folio.Snapshot
	for _, s := range snaps {
		change := "-"
		if prev != nil && prev.BaseCurrency() == s.BaseCurrency() {
			change = folio.Ratio(s.TotalValue().Sub(prev.TotalValue()).Value(), prev.TotalValue().Value()).SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			s.Date(),
			s.TotalHoldingsValue(),
			s.TotalCash(),
			s.TotalValue(),
			change,
		)
		prev = s
	}
	return b.String()
}
