package folio

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// State is the live portfolio: holdings and cash balances in several
// currencies, valued in a base currency.
//
// State is safe for concurrent use. Every mutation and every aggregate read
// runs under a single lock covering both holdings and cash, so a reader never
// sees a total mixing values from before and after an update.
type State struct {
	mu        sync.RWMutex
	base      string
	holdings  map[string]Holding
	cash      map[string]CashBalance
	snapshots []*Snapshot

	rates  ExchangeRateProvider
	prices PriceProvider
	log    zerolog.Logger
	now    func() time.Time
}

// Option configures a State.
type Option func(*State)

// WithExchangeRates sets the provider used to convert amounts into the base currency.
func WithExchangeRates(p ExchangeRateProvider) Option { return func(s *State) { s.rates = p } }

// WithPrices sets the provider used by UpdateAllPrices.
func WithPrices(p PriceProvider) Option { return func(s *State) { s.prices = p } }

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *State) { s.log = l.With().Str("component", "state").Logger() }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option { return func(s *State) { s.now = now } }

// NewState returns an empty portfolio valued in base.
func NewState(base string, opts ...Option) (*State, error) {
	if !ValidCurrency(base) {
		return nil, validationf("unknown base currency %q", base)
	}
	s := &State{
		base:     base,
		holdings: make(map[string]Holding),
		cash:     make(map[string]CashBalance),
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// BaseCurrency returns the currency every aggregate is expressed in.
func (s *State) BaseCurrency() string { return s.base }

// AddHolding merges h into the portfolio.
//
// A new symbol is inserted as is. An existing position gets the weighted
// average cost (cb1 + cb2) / |q1 + q2|, keeps its currency, asset class and
// acquisition time, and takes the price and update time of h. When the
// combined quantity is exactly zero the position is closed and removed.
func (s *State) AddHolding(h Holding) error {
	if err := h.Validate(); err != nil {
		s.log.Warn().Err(err).Str("symbol", h.Symbol).Msg("add holding rejected")
		return err
	}
	if h.Updated.IsZero() {
		h.Updated = s.now()
	}
	if h.Acquired.IsZero() {
		h.Acquired = h.Updated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.holdings[h.Symbol]
	if !ok {
		if h.Quantity.IsZero() {
			return nil
		}
		s.holdings[h.Symbol] = h
		s.log.Debug().Str("symbol", h.Symbol).Stringer("quantity", h.Quantity).Msg("holding opened")
		return nil
	}
	if existing.Currency() != h.Currency() {
		err := validationf("%s: held in %s, cannot add %s", h.Symbol, existing.Currency(), h.Currency())
		s.log.Warn().Err(err).Msg("add holding rejected")
		return err
	}

	combined := existing.Quantity.Add(h.Quantity)
	if combined.IsZero() {
		delete(s.holdings, h.Symbol)
		s.log.Debug().Str("symbol", h.Symbol).Msg("holding closed")
		return nil
	}
	cost := existing.CostBasis().Add(h.CostBasis())
	existing.AvgCost = cost.Div(combined.Abs())
	existing.Quantity = combined
	existing.Price = h.Price
	existing.Updated = h.Updated
	s.holdings[h.Symbol] = existing
	s.log.Debug().Str("symbol", h.Symbol).Stringer("quantity", combined).Stringer("avg_cost", existing.AvgCost.Value()).Msg("holding updated")
	return nil
}

// RemoveHolding deletes the position and returns it, or false if there was none.
func (s *State) RemoveHolding(symbol string) (Holding, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.holdings[symbol]
	if ok {
		delete(s.holdings, symbol)
		s.log.Debug().Str("symbol", symbol).Msg("holding removed")
	}
	return h, ok
}

// UpdatePrice sets the price of symbol, in the holding currency. It returns
// false if the symbol is not held.
func (s *State) UpdatePrice(symbol string, price decimal.Decimal) (bool, error) {
	if price.IsNegative() {
		return false, validationf("%s: negative price %s", symbol, price)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatePriceLocked(symbol, price, s.now()), nil
}

func (s *State) updatePriceLocked(symbol string, price decimal.Decimal, at time.Time) bool {
	h, ok := s.holdings[symbol]
	if !ok {
		return false
	}
	s.holdings[symbol] = h.WithPrice(Money{value: price, cur: h.Currency()}, at)
	return true
}

// UpdateAllPrices asks the price provider for every held symbol. The result
// tells, per symbol, whether its price was updated. Symbols without a price,
// or with a negative one, are left unchanged.
func (s *State) UpdateAllPrices() map[string]bool {
	s.mu.RLock()
	symbols := slices.Sorted(maps.Keys(s.holdings))
	s.mu.RUnlock()

	res := make(map[string]bool, len(symbols))
	for _, sym := range symbols {
		res[sym] = false
	}
	if s.prices == nil || len(symbols) == 0 {
		return res
	}
	prices := s.prices.Prices(symbols)

	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.now()
	for _, sym := range symbols {
		p, ok := prices[sym]
		if !ok || p.IsNegative() {
			continue
		}
		res[sym] = s.updatePriceLocked(sym, p, at)
	}
	s.log.Debug().Int("symbols", len(symbols)).Int("priced", len(prices)).Msg("prices updated")
	return res
}

// Holding returns the position in symbol.
func (s *State) Holding(symbol string) (Holding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.holdings[symbol]
	return h, ok
}

// Holdings returns all positions sorted by symbol.
func (s *State) Holdings() []Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.holdings)
}

// Cash returns the balance in currency.
func (s *State) Cash(currency string) (CashBalance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cash[currency]
	return c, ok
}

// CashBalances returns all balances sorted by currency.
func (s *State) CashBalances() []CashBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.cash)
}

func sortedValues[T any](m map[string]T) []T {
	res := make([]T, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		res = append(res, m[k])
	}
	return res
}

// AddCash deposits amount in currency, opening the balance if needed.
func (s *State) AddCash(currency string, amount decimal.Decimal) error {
	return s.applyCash("deposit", currency, amount, CashBalance.Deposit)
}

// WithdrawCash takes amount from the available cash in currency.
func (s *State) WithdrawCash(currency string, amount decimal.Decimal) error {
	return s.applyCash("withdraw", currency, amount, CashBalance.Withdraw)
}

// ReserveCash sets aside amount of the available cash in currency.
func (s *State) ReserveCash(currency string, amount decimal.Decimal) error {
	return s.applyCash("reserve", currency, amount, CashBalance.Reserve)
}

// ReleaseCash returns amount of reserved cash in currency to available.
func (s *State) ReleaseCash(currency string, amount decimal.Decimal) error {
	return s.applyCash("release", currency, amount, CashBalance.Release)
}

// applyCash runs op on a copy of the balance and stores the result only if op
// succeeds.
func (s *State) applyCash(name, currency string, amount decimal.Decimal, op func(CashBalance, decimal.Decimal) (CashBalance, error)) error {
	if !ValidCurrency(currency) {
		return validationf("%s: unknown currency %q", name, currency)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.cash[currency]
	if !ok {
		current = CashBalance{Currency: currency}
	}
	next, err := op(current, amount)
	if err != nil {
		s.log.Warn().Err(err).Str("currency", currency).Msg(name + " rejected")
		return fmt.Errorf("%s %s: %w", name, currency, err)
	}
	if ok || !next.IsZero() {
		s.cash[currency] = next
	}
	s.log.Debug().Str("currency", currency).Stringer("amount", amount).Stringer("available", next.Available).Msg(name)
	return nil
}

// toBaseLocked converts amount in currency into the base currency. A missing
// provider or rate counts as a rate of 1.
func (s *State) toBaseLocked(amount decimal.Decimal, currency string) decimal.Decimal {
	if currency == s.base || s.rates == nil {
		return amount
	}
	rate, ok := s.rates.Rate(currency, s.base)
	if !ok {
		s.log.Warn().Str("from", currency).Str("to", s.base).Msg("missing exchange rate, using 1")
		return amount
	}
	return amount.Mul(rate)
}

// sumHoldingsLocked sums f over every holding, converted to the base currency.
func (s *State) sumHoldingsLocked(f func(Holding) Money) decimal.Decimal {
	total := decimal.Zero
	for _, h := range s.holdings {
		total = total.Add(s.toBaseLocked(f(h).Value(), h.Currency()))
	}
	return total
}

func (s *State) holdingsValueLocked() decimal.Decimal {
	return s.sumHoldingsLocked(Holding.MarketValue)
}

func (s *State) cashLocked() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.cash {
		total = total.Add(s.toBaseLocked(c.Total(), c.Currency))
	}
	return total
}

func (s *State) totalValueLocked() decimal.Decimal {
	return s.holdingsValueLocked().Add(s.cashLocked())
}

func (s *State) money(v decimal.Decimal) Money { return Money{value: v, cur: s.base}.Round() }

// TotalHoldingsValue is the market value of all holdings.
func (s *State) TotalHoldingsValue() Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.money(s.holdingsValueLocked())
}

// TotalCash is the available and reserved cash in every currency.
func (s *State) TotalCash() Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.money(s.cashLocked())
}

// TotalValue is holdings plus cash, read under a single lock.
func (s *State) TotalValue() Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.money(s.totalValueLocked())
}

// TotalUnrealizedPnL sums the unrealized P&L of all holdings.
func (s *State) TotalUnrealizedPnL() Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.money(s.sumHoldingsLocked(Holding.UnrealizedPnL))
}

// TotalCostBasis sums the cost basis of all holdings.
func (s *State) TotalCostBasis() Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.money(s.sumHoldingsLocked(Holding.CostBasis))
}

// Concentration is the share of the total value held in symbol.
func (s *State) Concentration(symbol string) Percent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.holdings[symbol]
	if !ok {
		return Percent{}
	}
	return Ratio(s.toBaseLocked(h.MarketValue().Value(), h.Currency()), s.totalValueLocked())
}

// Allocations returns the share of the total value held in each symbol.
func (s *State) Allocations() map[string]Percent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := s.totalValueLocked()
	res := make(map[string]Percent, len(s.holdings))
	if total.IsZero() {
		return res
	}
	for sym, h := range s.holdings {
		res[sym] = Ratio(s.toBaseLocked(h.MarketValue().Value(), h.Currency()), total)
	}
	return res
}

// AssetClassBreakdown returns the share of the total value per asset class.
// Cash is reported as AssetClassCash.
func (s *State) AssetClassBreakdown() map[AssetClass]Percent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sums := make(map[AssetClass]decimal.Decimal)
	for _, h := range s.holdings {
		sums[h.AssetClass] = sums[h.AssetClass].Add(s.toBaseLocked(h.MarketValue().Value(), h.Currency()))
	}
	if c := s.cashLocked(); !c.IsZero() {
		sums[AssetClassCash] = sums[AssetClassCash].Add(c)
	}
	return shares(sums, s.totalValueLocked())
}

// CurrencyExposure returns the share of the total value per currency,
// holdings and cash together.
func (s *State) CurrencyExposure() map[string]Percent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sums := make(map[string]decimal.Decimal)
	for _, h := range s.holdings {
		sums[h.Currency()] = sums[h.Currency()].Add(s.toBaseLocked(h.MarketValue().Value(), h.Currency()))
	}
	for _, c := range s.cash {
		sums[c.Currency] = sums[c.Currency].Add(s.toBaseLocked(c.Total(), c.Currency))
	}
	return shares(sums, s.totalValueLocked())
}

func shares[K comparable](sums map[K]decimal.Decimal, total decimal.Decimal) map[K]Percent {
	res := make(map[K]Percent, len(sums))
	if total.IsZero() {
		return res
	}
	for k, v := range sums {
		res[k] = Ratio(v, total)
	}
	return res
}

// CreateSnapshot captures the current state and appends it to the history.
func (s *State) CreateSnapshot(metadata map[string]string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := &Snapshot{
		id:            uuid.NewString(),
		at:            s.now(),
		base:          s.base,
		holdings:      maps.Clone(s.holdings),
		cash:          maps.Clone(s.cash),
		holdingsValue: s.money(s.holdingsValueLocked()),
		cashValue:     s.money(s.cashLocked()),
		totalValue:    s.money(s.totalValueLocked()),
		unrealizedPnL: s.money(s.sumHoldingsLocked(Holding.UnrealizedPnL)),
		costBasis:     s.money(s.sumHoldingsLocked(Holding.CostBasis)),
		metadata:      maps.Clone(metadata),
	}
	s.snapshots = append(s.snapshots, snap)
	s.log.Debug().Str("id", snap.id).Stringer("total_value", snap.totalValue).Msg("snapshot created")
	return snap
}

// Snapshots returns the snapshot history, oldest first.
func (s *State) Snapshots() []*Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.snapshots)
}

// LatestSnapshot returns the last snapshot taken.
func (s *State) LatestSnapshot() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.snapshots) == 0 {
		return nil, false
	}
	return s.snapshots[len(s.snapshots)-1], true
}
