package cgt

import (
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// TaxYearSummary is the capital gains position of one tax year. Amounts are
// in AUD.
type TaxYearSummary struct {
	TaxYear int        `json:"tax_year"`
	Period  date.Range `json:"-"`

	DiscountableGains    decimal.Decimal `json:"discountable_gains"`
	NonDiscountableGains decimal.Decimal `json:"non_discountable_gains"`
	TotalGains           decimal.Decimal `json:"total_gains"`
	TotalLosses          decimal.Decimal `json:"total_losses"` // positive
	CarriedForwardIn     decimal.Decimal `json:"carried_forward_in"`

	LossesAppliedNonDiscounted decimal.Decimal `json:"losses_applied_non_discounted"`
	LossesAppliedDiscounted    decimal.Decimal `json:"losses_applied_discounted"`
	LossesApplied              decimal.Decimal `json:"losses_applied"`
	LossesCarriedForward       decimal.Decimal `json:"losses_carried_forward"`

	DiscountApplied decimal.Decimal `json:"discount_applied"`
	NetCapitalGain  decimal.Decimal `json:"net_capital_gain"` // taxable, never negative
	Events          int             `json:"events"`
}

// SetCarriedForwardLosses sets the unapplied net capital losses available at
// the start of a tax year, e.g. from returns lodged before the calculator was
// used. It replaces the amount carried from the previous year.
func (c *Calculator) SetCarriedForwardLosses(year int, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return validationf("carried forward losses %s must not be negative", amount)
	}
	c.carried[year] = amount
	return nil
}

// TaxYearSummary aggregates the events of a tax year.
//
// Current year losses and carried forward losses offset non-discounted gains
// first, then discountable gains before the discount. What is left is carried
// forward. The discount applies to the discountable gains that remain.
//
// The carried forward losses of a year are those left over by the previous
// one, computed from the earliest year with events or opening losses.
func (c *Calculator) TaxYearSummary(year int) TaxYearSummary {
	carry := decimal.Zero
	for _, y := range c.taxYears() {
		if y >= year {
			break
		}
		// Years without events carry their losses through unchanged.
		carry = c.summarize(y, c.openingLosses(y, carry)).LossesCarriedForward
	}
	return c.summarize(year, c.openingLosses(year, carry))
}

func (c *Calculator) openingLosses(year int, carried decimal.Decimal) decimal.Decimal {
	if v, ok := c.carried[year]; ok {
		return v
	}
	return carried
}

func (c *Calculator) summarize(year int, carryIn decimal.Decimal) TaxYearSummary {
	s := TaxYearSummary{
		TaxYear:                    year,
		Period:                     TaxYearRange(year),
		DiscountableGains:          decimal.Zero,
		NonDiscountableGains:       decimal.Zero,
		TotalLosses:                decimal.Zero,
		CarriedForwardIn:           carryIn,
		LossesAppliedNonDiscounted: decimal.Zero,
		LossesAppliedDiscounted:    decimal.Zero,
	}
	for _, e := range c.events {
		if e.TaxYear != year {
			continue
		}
		s.Events++
		switch {
		case e.GrossGain.IsNegative():
			s.TotalLosses = s.TotalLosses.Add(e.GrossGain.Abs())
		case e.DiscountEligible:
			s.DiscountableGains = s.DiscountableGains.Add(e.GrossGain)
		default:
			s.NonDiscountableGains = s.NonDiscountableGains.Add(e.GrossGain)
		}
	}
	s.TotalGains = s.DiscountableGains.Add(s.NonDiscountableGains)

	available := s.TotalLosses.Add(carryIn)
	s.LossesAppliedNonDiscounted = decimal.Min(available, s.NonDiscountableGains)
	available = available.Sub(s.LossesAppliedNonDiscounted)
	s.LossesAppliedDiscounted = decimal.Min(available, s.DiscountableGains)
	available = available.Sub(s.LossesAppliedDiscounted)
	s.LossesApplied = s.LossesAppliedNonDiscounted.Add(s.LossesAppliedDiscounted)
	s.LossesCarriedForward = available

	discountable := s.DiscountableGains.Sub(s.LossesAppliedDiscounted)
	s.DiscountApplied = discountable.Mul(DiscountRate).Round(2)
	net := s.NonDiscountableGains.Sub(s.LossesAppliedNonDiscounted).Add(discountable).Sub(s.DiscountApplied)
	s.NetCapitalGain = decimal.Max(net, decimal.Zero)
	return s
}
