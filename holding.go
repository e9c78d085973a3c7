package folio

import (
	"fmt"
	"strings"
	"time"
)

// AssetClass groups holdings for allocation reporting.
type AssetClass string

const (
	AssetClassEquity    AssetClass = "equity"
	AssetClassETF       AssetClass = "etf"
	AssetClassBond      AssetClass = "bond"
	AssetClassCrypto    AssetClass = "crypto"
	AssetClassCommodity AssetClass = "commodity"
	AssetClassCash      AssetClass = "cash"
	AssetClassOther     AssetClass = "other"
)

// ParseAssetClass accepts any case. An empty string is AssetClassEquity.
func ParseAssetClass(s string) (AssetClass, error) {
	switch c := AssetClass(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return AssetClassEquity, nil
	case AssetClassEquity, AssetClassETF, AssetClassBond, AssetClassCrypto,
		AssetClassCommodity, AssetClassCash, AssetClassOther:
		return c, nil
	default:
		return "", validationf("unknown asset class %q", s)
	}
}

// HoldingType is the side of a position.
type HoldingType string

const (
	Long  HoldingType = "long"
	Short HoldingType = "short"
)

// Holding is a position in a single symbol. It is a value: every change
// returns a new Holding.
type Holding struct {
	Symbol     string     `json:"symbol"`
	Quantity   Quantity   `json:"quantity"` // positive long, negative short
	AvgCost    Money      `json:"avg_cost"` // per unit, in the holding currency
	Price      Money      `json:"price"`    // last known price per unit
	AssetClass AssetClass `json:"asset_class"`
	Acquired   time.Time  `json:"acquired,omitzero"`
	Updated    time.Time  `json:"updated,omitzero"`
}

// NewHolding returns a validated holding priced at its average cost.
func NewHolding(symbol string, qty Quantity, avgCost Money, class AssetClass, at time.Time) (Holding, error) {
	h := Holding{
		Symbol:     symbol,
		Quantity:   qty,
		AvgCost:    avgCost,
		Price:      avgCost,
		AssetClass: class,
		Acquired:   at,
		Updated:    at,
	}
	return h, h.Validate()
}

// Validate checks the holding invariants.
func (h Holding) Validate() error {
	switch {
	case strings.TrimSpace(h.Symbol) == "":
		return validationf("holding has no symbol")
	case !ValidCurrency(h.AvgCost.Currency()):
		return validationf("%s: unknown currency %q", h.Symbol, h.AvgCost.Currency())
	case h.Price.Currency() != h.AvgCost.Currency():
		return validationf("%s: price in %s but cost in %s", h.Symbol, h.Price.Currency(), h.AvgCost.Currency())
	case h.AvgCost.IsNegative():
		return validationf("%s: negative average cost %s", h.Symbol, h.AvgCost.Value())
	case h.Price.IsNegative():
		return validationf("%s: negative price %s", h.Symbol, h.Price.Value())
	}
	if _, err := ParseAssetClass(string(h.AssetClass)); err != nil {
		return fmt.Errorf("%s: %w", h.Symbol, err)
	}
	return nil
}

// Currency is the currency of the cost and price.
func (h Holding) Currency() string { return h.AvgCost.Currency() }

// Type returns Short for a negative quantity and Long otherwise.
func (h Holding) Type() HoldingType {
	if h.Quantity.IsNegative() {
		return Short
	}
	return Long
}

// CostBasis is |quantity| * average cost.
func (h Holding) CostBasis() Money { return h.AvgCost.Mul(h.Quantity.Abs()) }

// MarketValue is |quantity| * price.
func (h Holding) MarketValue() Money { return h.Price.Mul(h.Quantity.Abs()) }

// UnrealizedPnL is positive when a long position's price is above its cost or
// a short position's price is below it.
func (h Holding) UnrealizedPnL() Money {
	if h.Type() == Short {
		return h.AvgCost.Sub(h.Price).Mul(h.Quantity.Abs())
	}
	return h.Price.Sub(h.AvgCost).Mul(h.Quantity.Abs())
}

// UnrealizedPnLPercent is the unrealized P&L over the cost basis, 0 when
// the cost basis is 0.
func (h Holding) UnrealizedPnLPercent() Percent {
	return Ratio(h.UnrealizedPnL().Value(), h.CostBasis().Value())
}

// WithPrice returns a copy with a new price, stamped at 'at'.
func (h Holding) WithPrice(price Money, at time.Time) Holding {
	h.Price = price
	h.Updated = at
	return h
}
