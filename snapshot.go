package folio

import (
	"maps"
	"time"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// Snapshot is an immutable capture of a State at one point in time. Its
// aggregates are computed once, in the base currency, rounded to 2 decimals.
type Snapshot struct {
	id       string
	at       time.Time
	base     string
	holdings map[string]Holding
	cash     map[string]CashBalance

	holdingsValue Money
	cashValue     Money
	totalValue    Money
	unrealizedPnL Money
	costBasis     Money

	metadata map[string]string
}

func (s *Snapshot) ID() string           { return s.id }
func (s *Snapshot) Time() time.Time      { return s.at }
func (s *Snapshot) Date() date.Date      { return date.Of(s.at) }
func (s *Snapshot) BaseCurrency() string { return s.base }

func (s *Snapshot) TotalHoldingsValue() Money { return s.holdingsValue }
func (s *Snapshot) TotalCash() Money          { return s.cashValue }
func (s *Snapshot) TotalValue() Money         { return s.totalValue }
func (s *Snapshot) TotalUnrealizedPnL() Money { return s.unrealizedPnL }
func (s *Snapshot) TotalCostBasis() Money     { return s.costBasis }

// Holding returns the captured position in symbol.
func (s *Snapshot) Holding(symbol string) (Holding, bool) {
	h, ok := s.holdings[symbol]
	return h, ok
}

// Holdings returns a copy of the captured positions, sorted by symbol.
func (s *Snapshot) Holdings() []Holding { return sortedValues(s.holdings) }

// CashBalances returns a copy of the captured balances, sorted by currency.
func (s *Snapshot) CashBalances() []CashBalance { return sortedValues(s.cash) }

// Metadata returns a copy of the caller metadata.
func (s *Snapshot) Metadata() map[string]string { return maps.Clone(s.metadata) }

// ValueHistory returns the total value of each snapshot by date. When several
// snapshots share a date the last one wins.
func ValueHistory(snaps []*Snapshot) *date.History[decimal.Decimal] {
	h := date.NewHistory[decimal.Decimal](len(snaps))
	for _, s := range snaps {
		h.Append(s.Date(), s.totalValue.Value())
	}
	return h
}

// MarshalJSON writes the snapshot with its totals first, then positions and
// cash. Money totals carry their currency.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", s.id)
	w.Append("time", s.at)
	w.Append("base_currency", s.base)
	w.Append("holdings_value", s.holdingsValue)
	w.Append("cash_value", s.cashValue)
	w.Append("total_value", s.totalValue)
	w.Append("unrealized_pnl", s.unrealizedPnL)
	w.Append("cost_basis", s.costBasis)
	w.Optional("holdings", s.Holdings())
	w.Optional("cash_balances", s.CashBalances())
	w.Optional("metadata", s.metadata)
	return w.MarshalJSON()
}
