// Package cgt computes Australian capital gains tax on disposals.
//
// Acquisitions are kept as parcels per symbol, oldest first. A disposal
// consumes parcels in FIFO order, splitting the last one if needed, and
// produces an Event tagged with its tax year. Gains on assets held more than
// 365 days (quantity-weighted across the matched parcels) are eligible for
// the 50% discount. Tax year summaries apply current and carried forward
// losses to non-discounted gains first, then to discounted gains before the
// discount, and carry the rest forward.
//
// A Calculator is not safe for concurrent use.
package cgt

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Calculator holds the open parcels and the disposal events.
type Calculator struct {
	parcels map[string][]Acquisition // by symbol, sorted by date
	events  []Event
	carried map[int]decimal.Decimal // opening losses by tax year
	log     zerolog.Logger
	newID   func() string
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Calculator) { c.log = l.With().Str("component", "cgt").Logger() }
}

// WithIDGenerator replaces the random UUID used for parcel and event IDs.
func WithIDGenerator(f func() string) Option { return func(c *Calculator) { c.newID = f } }

// NewCalculator returns an empty Calculator.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		parcels: make(map[string][]Acquisition),
		carried: make(map[int]decimal.Decimal),
		log:     zerolog.Nop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// audRate returns the rate converting currency into AUD.
func audRate(currency string, rate decimal.Decimal) (decimal.Decimal, error) {
	if currency == "" || currency == AUD {
		return decimal.NewFromInt(1), nil
	}
	if !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s to %s", ErrMissingRate, currency, AUD)
	}
	return rate, nil
}

// AddAcquisition records a new parcel and keeps the symbol's parcels sorted
// by date. Parcels of the same day keep their insertion order.
func (c *Calculator) AddAcquisition(p Purchase) (Acquisition, error) {
	a, err := c.acquisition(p)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", p.Symbol).Msg("acquisition rejected")
		return Acquisition{}, err
	}
	parcels := append(c.parcels[a.Symbol], a)
	slices.SortStableFunc(parcels, func(x, y Acquisition) int { return x.Date.Compare(y.Date) })
	c.parcels[a.Symbol] = parcels
	c.log.Debug().Str("symbol", a.Symbol).Stringer("date", a.Date).Stringer("quantity", a.Quantity).Stringer("cost", a.TotalCost).Msg("acquisition")
	return a, nil
}

func (c *Calculator) acquisition(p Purchase) (Acquisition, error) {
	switch {
	case strings.TrimSpace(p.Symbol) == "":
		return Acquisition{}, validationf("acquisition has no symbol")
	case p.Date.IsZero():
		return Acquisition{}, validationf("%s: acquisition has no date", p.Symbol)
	case !p.Quantity.IsPositive():
		return Acquisition{}, validationf("%s: quantity %s must be positive", p.Symbol, p.Quantity)
	case p.UnitCost.IsNegative():
		return Acquisition{}, validationf("%s: negative unit cost %s", p.Symbol, p.UnitCost)
	case p.IncidentalCosts.IsNegative():
		return Acquisition{}, validationf("%s: negative incidental costs %s", p.Symbol, p.IncidentalCosts)
	}
	rate, err := audRate(p.Currency, p.FXRate)
	if err != nil {
		return Acquisition{}, fmt.Errorf("%s: %w", p.Symbol, err)
	}
	cur := p.Currency
	if cur == "" {
		cur = AUD
	}
	return Acquisition{
		ID:              c.newID(),
		Symbol:          p.Symbol,
		Date:            p.Date,
		Quantity:        p.Quantity,
		UnitCost:        p.UnitCost,
		Currency:        cur,
		FXRate:          p.FXRate,
		TotalCost:       p.Quantity.Mul(p.UnitCost).Mul(rate),
		IncidentalCosts: p.IncidentalCosts,
	}, nil
}

// Dispose matches a sale against the oldest parcels and records the
// resulting Event. Parcels are consumed on a copy and committed only when
// the whole disposal succeeds.
func (c *Calculator) Dispose(s Sale) (Event, error) {
	e, remaining, err := c.dispose(s)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", s.Symbol).Msg("disposal rejected")
		return Event{}, err
	}
	if len(remaining) == 0 {
		delete(c.parcels, s.Symbol)
	} else {
		c.parcels[s.Symbol] = remaining
	}
	c.events = append(c.events, e.clone())
	c.log.Debug().Str("symbol", e.Symbol).Stringer("date", e.Date).Stringer("gain", e.GrossGain).
		Int("holding_days", e.HoldingDays).Stringer("method", e.Method).Msg("disposal")
	return e, nil
}

func (c *Calculator) dispose(s Sale) (Event, []Acquisition, error) {
	switch {
	case strings.TrimSpace(s.Symbol) == "":
		return Event{}, nil, validationf("disposal has no symbol")
	case s.Date.IsZero():
		return Event{}, nil, validationf("%s: disposal has no date", s.Symbol)
	case !s.Quantity.IsPositive():
		return Event{}, nil, validationf("%s: quantity %s must be positive", s.Symbol, s.Quantity)
	case s.ProceedsPerUnit.IsNegative():
		return Event{}, nil, validationf("%s: negative proceeds %s", s.Symbol, s.ProceedsPerUnit)
	case s.SellingCosts.IsNegative():
		return Event{}, nil, validationf("%s: negative selling costs %s", s.Symbol, s.SellingCosts)
	}
	if held := c.Held(s.Symbol); s.Quantity.GreaterThan(held) {
		return Event{}, nil, fmt.Errorf("%w: %s: selling %s, holding %s", ErrInsufficientParcels, s.Symbol, s.Quantity, held)
	}
	rate, err := audRate(s.Currency, s.FXRate)
	if err != nil {
		return Event{}, nil, fmt.Errorf("%s: %w", s.Symbol, err)
	}

	proceeds := s.Quantity.Mul(s.ProceedsPerUnit).Mul(rate)
	netProceeds := proceeds.Sub(s.SellingCosts)

	working := slices.Clone(c.parcels[s.Symbol])
	toMatch := s.Quantity
	costBase := decimal.Zero
	weightedDays := decimal.Zero
	var matched []MatchedParcel

	for len(working) > 0 && toMatch.IsPositive() {
		p := working[0]
		m := MatchedParcel{AcquisitionID: p.ID, Acquired: p.Date, HoldingDays: s.Date.DaysSince(p.Date)}
		if p.Quantity.LessThanOrEqual(toMatch) {
			m.Quantity = p.Quantity
			m.CostBase = p.CostBase()
			working = working[1:]
		} else {
			// Split: the residual keeps the acquisition date and the rest of
			// the cost.
			cost := p.TotalCost.Mul(toMatch).Div(p.Quantity)
			incidental := p.IncidentalCosts.Mul(toMatch).Div(p.Quantity)
			m.Quantity = toMatch
			m.CostBase = cost.Add(incidental)
			p.Quantity = p.Quantity.Sub(toMatch)
			p.TotalCost = p.TotalCost.Sub(cost)
			p.IncidentalCosts = p.IncidentalCosts.Sub(incidental)
			working = append([]Acquisition{p}, working[1:]...)
		}
		toMatch = toMatch.Sub(m.Quantity)
		costBase = costBase.Add(m.CostBase)
		weightedDays = weightedDays.Add(decimal.NewFromInt(int64(m.HoldingDays)).Mul(m.Quantity))
		matched = append(matched, m)
	}
	if toMatch.IsPositive() {
		return Event{}, nil, fmt.Errorf("%w: %s: %s left unmatched", ErrInsufficientParcels, s.Symbol, toMatch)
	}

	days, _ := weightedDays.QuoRem(s.Quantity, 0)
	e := Event{
		ID:           c.newID(),
		Symbol:       s.Symbol,
		Date:         s.Date,
		Quantity:     s.Quantity,
		Proceeds:     proceeds.Round(2),
		SellingCosts: s.SellingCosts.Round(2),
		NetProceeds:  netProceeds.Round(2),
		CostBase:     costBase.Round(2),
		HoldingDays:  int(days.IntPart()),
		Method:       MethodOther,
		TaxYear:      TaxYear(s.Date),
		Parcels:      matched,
	}
	e.GrossGain = netProceeds.Sub(costBase).Round(2)
	e.NetGain = e.GrossGain
	e.Discount = decimal.Zero
	if e.GrossGain.IsPositive() && e.HoldingDays > DiscountHoldingDays {
		e.DiscountEligible = true
		e.Method = MethodDiscount
		e.Discount = e.GrossGain.Mul(DiscountRate).Round(2)
		e.NetGain = e.GrossGain.Sub(e.Discount)
	}
	return e, working, nil
}

// Parcels returns a copy of the open parcels of symbol, oldest first.
func (c *Calculator) Parcels(symbol string) []Acquisition { return slices.Clone(c.parcels[symbol]) }

// Held returns the quantity of symbol in open parcels.
func (c *Calculator) Held(symbol string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.parcels[symbol] {
		total = total.Add(p.Quantity)
	}
	return total
}

// Symbols returns the symbols with open parcels, sorted.
func (c *Calculator) Symbols() []string { return slices.Sorted(maps.Keys(c.parcels)) }

// Events returns every disposal event in the order they were recorded.
func (c *Calculator) Events() []Event {
	res := make([]Event, len(c.events))
	for i, e := range c.events {
		res[i] = e.clone()
	}
	return res
}

// EventsInYear returns the events of a tax year, sorted by date.
func (c *Calculator) EventsInYear(year int) []Event {
	period := TaxYearRange(year)
	var res []Event
	for _, e := range c.events {
		if period.Contains(e.Date) {
			res = append(res, e.clone())
		}
	}
	slices.SortStableFunc(res, func(x, y Event) int { return x.Date.Compare(y.Date) })
	return res
}

// taxYears returns every tax year with events or opening losses, sorted.
func (c *Calculator) taxYears() []int {
	years := make(map[int]bool)
	for _, e := range c.events {
		years[e.TaxYear] = true
	}
	for y := range c.carried {
		years[y] = true
	}
	return slices.Sorted(maps.Keys(years))
}
