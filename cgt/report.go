package cgt

import (
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// TaxReport is the CGT schedule of one tax year.
type TaxReport struct {
	Summary      TaxYearSummary    `json:"summary"`
	From         date.Date         `json:"from"`
	To           date.Date         `json:"to"`
	Transactions []TransactionLine `json:"transactions,omitempty"`
}

// TransactionLine is one disposal in a TaxReport.
type TransactionLine struct {
	EventID          string          `json:"event_id"`
	Symbol           string          `json:"symbol"`
	Acquired         date.Date       `json:"acquired"` // earliest matched parcel
	Disposed         date.Date       `json:"disposed"`
	Quantity         decimal.Decimal `json:"quantity"`
	NetProceeds      decimal.Decimal `json:"net_proceeds"`
	CostBase         decimal.Decimal `json:"cost_base"`
	GainOrLoss       decimal.Decimal `json:"gain_or_loss"`
	HoldingDays      int             `json:"holding_days"`
	DiscountEligible bool            `json:"discount_eligible"`
	Discount         decimal.Decimal `json:"discount"`
	NetGain          decimal.Decimal `json:"net_gain"`
	Method           Method          `json:"method"`
}

// GenerateTaxReport returns the summary of a tax year and, when asked, one
// line per disposal in date order.
func (c *Calculator) GenerateTaxReport(year int, includeTransactions bool) TaxReport {
	r := TaxReport{Summary: c.TaxYearSummary(year)}
	r.From, r.To = r.Summary.Period.From, r.Summary.Period.To
	if !includeTransactions {
		return r
	}
	for _, e := range c.EventsInYear(year) {
		line := TransactionLine{
			EventID:          e.ID,
			Symbol:           e.Symbol,
			Disposed:         e.Date,
			Quantity:         e.Quantity,
			NetProceeds:      e.NetProceeds,
			CostBase:         e.CostBase,
			GainOrLoss:       e.GrossGain,
			HoldingDays:      e.HoldingDays,
			DiscountEligible: e.DiscountEligible,
			Discount:         e.Discount,
			NetGain:          e.NetGain,
			Method:           e.Method,
		}
		if len(e.Parcels) > 0 {
			line.Acquired = e.Parcels[0].Acquired
		}
		r.Transactions = append(r.Transactions, line)
	}
	return r
}
