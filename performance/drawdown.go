package performance

import (
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// DrawdownInfo is one peak to trough to recovery episode.
type DrawdownInfo struct {
	Start       date.Date       `json:"start"` // date of the peak
	Trough      date.Date       `json:"trough"`
	End         date.Date       `json:"end,omitzero"` // recovery date, zero while ongoing
	PeakValue   decimal.Decimal `json:"peak_value"`
	TroughValue decimal.Decimal `json:"trough_value"`
	MaxDrawdown decimal.Decimal `json:"max_drawdown"` // (trough - peak) / peak, never positive
	// Duration is the number of days from Start to End, or to the last
	// observation while ongoing.
	Duration int `json:"duration"`
	// RecoveryDays is the number of days from Trough to End, 0 while ongoing.
	RecoveryDays int `json:"recovery_days"`
}

// Ongoing reports whether the value has not yet recovered its peak.
func (d DrawdownInfo) Ongoing() bool { return d.End.IsZero() }

// Drawdowns scans values for drawdown episodes.
//
// An episode opens when the decline from the running peak reaches the
// configured threshold, follows the trough while the decline deepens, and
// closes on the first value at or above the peak. An episode still open at
// the end of the series is reported as ongoing.
func (c *Calculator) Drawdowns(values *date.History[decimal.Decimal]) []DrawdownInfo {
	var (
		res      []DrawdownInfo
		current  *DrawdownInfo
		peak     decimal.Decimal
		peakDate date.Date
		last     date.Date
		started  bool
	)
	for day, v := range values.Values() {
		last = day
		if !started || v.GreaterThanOrEqual(peak) {
			if current != nil {
				current.End = day
				current.Duration = day.DaysSince(current.Start)
				current.RecoveryDays = day.DaysSince(current.Trough)
				res = append(res, *current)
				current = nil
			}
			peak, peakDate, started = v, day, true
			continue
		}
		if peak.Sign() <= 0 {
			continue
		}
		dd := v.Sub(peak).Div(peak)
		switch {
		case current == nil && dd.Abs().GreaterThanOrEqual(c.threshold):
			current = &DrawdownInfo{
				Start:       peakDate,
				Trough:      day,
				PeakValue:   peak,
				TroughValue: v,
				MaxDrawdown: round4(dd),
			}
		case current != nil && v.LessThan(current.TroughValue):
			current.Trough = day
			current.TroughValue = v
			current.MaxDrawdown = round4(dd)
		}
	}
	if current != nil {
		current.Duration = last.DaysSince(current.Start)
		res = append(res, *current)
	}
	return res
}
