package folio

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent is a percentage: 12.5 means 12.5%. It is kept to two decimals.
type Percent struct {
	value decimal.Decimal
}

// Ratio returns part/whole as a Percent rounded half-up to two decimals.
// A zero whole gives 0%.
func Ratio(part, whole decimal.Decimal) Percent {
	if whole.IsZero() {
		return Percent{}
	}
	return Percent{value: part.Div(whole).Mul(hundred).Round(2)}
}

// P returns a Percent from a literal, mostly for tests and configuration.
func P(v float64) Percent { return Percent{value: decimal.NewFromFloat(v).Round(2)} }

func (p Percent) Value() decimal.Decimal       { return p.value }
func (p Percent) Equal(q Percent) bool         { return p.value.Equal(q.value) }
func (p Percent) IsZero() bool                 { return p.value.IsZero() }
func (p Percent) String() string               { return p.value.StringFixed(2) + "%" }
func (p Percent) MarshalJSON() ([]byte, error) { return p.value.MarshalJSON() }

func (p Percent) SignedString() string {
	if p.value.IsZero() {
		return "-"
	}
	if p.value.IsPositive() {
		return "+" + p.String()
	}
	return p.String()
}
