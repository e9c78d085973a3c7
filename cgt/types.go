package cgt

import (
	"fmt"
	"slices"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// AUD is the currency every CGT amount is reported in.
const AUD = "AUD"

// DiscountHoldingDays is the holding period a gain must exceed to be
// eligible for the CGT discount.
const DiscountHoldingDays = 365

// DiscountRate is the share of an eligible gain that is not taxed.
var DiscountRate = decimal.RequireFromString("0.5")

// Method is the CGT method applied to an event.
type Method int

const (
	// MethodOther covers losses and gains on assets held 12 months or less.
	MethodOther Method = iota
	// MethodDiscount halves a gain on an asset held more than 12 months.
	MethodDiscount
)

func (m Method) String() string {
	switch m {
	case MethodOther:
		return "other"
	case MethodDiscount:
		return "discount"
	default:
		return "unknown"
	}
}

// ParseMethod parses a string into a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "other":
		return MethodOther, nil
	case "discount":
		return MethodDiscount, nil
	default:
		return 0, fmt.Errorf("unknown CGT method: %q", s)
	}
}

func (m Method) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Method) UnmarshalText(text []byte) error {
	v, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Purchase describes a buy to record as an acquisition parcel.
type Purchase struct {
	Symbol   string          `json:"symbol"`
	Date     date.Date       `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"` // in Currency
	Currency string          `json:"currency,omitempty"`
	// FXRate is the AUD value of one unit of Currency. It is required
	// unless Currency is AUD or empty.
	FXRate          decimal.Decimal `json:"fx_rate,omitzero"`
	IncidentalCosts decimal.Decimal `json:"incidental_costs,omitzero"` // in AUD
}

// Sale describes a disposal.
type Sale struct {
	Symbol          string          `json:"symbol"`
	Date            date.Date       `json:"date"`
	Quantity        decimal.Decimal `json:"quantity"`
	ProceedsPerUnit decimal.Decimal `json:"proceeds_per_unit"` // in Currency
	Currency        string          `json:"currency,omitempty"`
	FXRate          decimal.Decimal `json:"fx_rate,omitzero"`
	SellingCosts    decimal.Decimal `json:"selling_costs,omitzero"` // in AUD
}

// Acquisition is an open parcel.
type Acquisition struct {
	ID              string          `json:"id"`
	Symbol          string          `json:"symbol"`
	Date            date.Date       `json:"date"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Currency        string          `json:"currency"`
	FXRate          decimal.Decimal `json:"fx_rate,omitzero"`
	TotalCost       decimal.Decimal `json:"total_cost"` // in AUD
	IncidentalCosts decimal.Decimal `json:"incidental_costs"`
}

// CostBase is the total cost plus incidental costs.
func (a Acquisition) CostBase() decimal.Decimal { return a.TotalCost.Add(a.IncidentalCosts) }

// CostBasePerUnit is (total cost + incidental costs) / quantity.
func (a Acquisition) CostBasePerUnit() decimal.Decimal {
	if a.Quantity.IsZero() {
		return decimal.Zero
	}
	return a.CostBase().Div(a.Quantity)
}

// MatchedParcel is the part of a parcel consumed by a disposal.
type MatchedParcel struct {
	AcquisitionID string          `json:"acquisition_id"`
	Acquired      date.Date       `json:"acquired"`
	Quantity      decimal.Decimal `json:"quantity"`
	CostBase      decimal.Decimal `json:"cost_base"`
	HoldingDays   int             `json:"holding_days"`
}

// Event is a disposal matched against its parcels. Amounts are in AUD,
// rounded to cents.
type Event struct {
	ID               string          `json:"id"`
	Symbol           string          `json:"symbol"`
	Date             date.Date       `json:"date"`
	Quantity         decimal.Decimal `json:"quantity"`
	Proceeds         decimal.Decimal `json:"proceeds"`
	SellingCosts     decimal.Decimal `json:"selling_costs"`
	NetProceeds      decimal.Decimal `json:"net_proceeds"`
	CostBase         decimal.Decimal `json:"cost_base"`
	GrossGain        decimal.Decimal `json:"gross_gain"`
	DiscountEligible bool            `json:"discount_eligible"`
	Discount         decimal.Decimal `json:"discount"`
	NetGain          decimal.Decimal `json:"net_gain"`
	// HoldingDays is the quantity-weighted holding period of the matched
	// parcels, truncated to whole days.
	HoldingDays int             `json:"holding_days"`
	Method      Method          `json:"method"`
	TaxYear     int             `json:"tax_year"`
	Parcels     []MatchedParcel `json:"parcels"`
}

// clone returns a copy that shares no parcels with e.
func (e Event) clone() Event {
	e.Parcels = slices.Clone(e.Parcels)
	return e
}

// IsLoss reports whether the disposal realized a capital loss.
func (e Event) IsLoss() bool { return e.GrossGain.IsNegative() }
