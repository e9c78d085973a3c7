package folio

import "github.com/shopspring/decimal"

// PriceProvider supplies the latest price of a symbol, in the symbol's own
// currency.
type PriceProvider interface {
	Price(symbol string) (decimal.Decimal, bool)
	// Prices returns the prices it knows for symbols. Unknown symbols are absent.
	Prices(symbols []string) map[string]decimal.Decimal
}

// ExchangeRateProvider supplies the rate converting one unit of 'from' into 'to'.
type ExchangeRateProvider interface {
	Rate(from, to string) (decimal.Decimal, bool)
}

// StaticPrices is a PriceProvider backed by a map.
type StaticPrices map[string]decimal.Decimal

func (p StaticPrices) Price(symbol string) (decimal.Decimal, bool) {
	v, ok := p[symbol]
	return v, ok
}

func (p StaticPrices) Prices(symbols []string) map[string]decimal.Decimal {
	res := make(map[string]decimal.Decimal, len(symbols))
	for _, s := range symbols {
		if v, ok := p[s]; ok {
			res[s] = v
		}
	}
	return res
}

// RateTable is an ExchangeRateProvider backed by a map keyed by the pair name,
// e.g. "USDAUD" for the price of one USD in AUD.
type RateTable map[string]decimal.Decimal

// Set records the rate of the pair from+to.
func (t RateTable) Set(from, to string, rate decimal.Decimal) { t[from+to] = rate }

// Rate returns the direct pair if known, otherwise the inverse of the reverse
// pair. Same-currency conversion is always 1.
func (t RateTable) Rate(from, to string) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if rate, ok := t[from+to]; ok {
		return rate, true
	}
	inverse, ok := t[to+from]
	if !ok || inverse.IsZero() {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromInt(1).Div(inverse), true
}
