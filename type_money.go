package folio

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an exact amount in a currency, in major units. An empty currency
// adopts the other operand's currency in Add and Sub.
type Money struct {
	value decimal.Decimal
	cur   string
}

// M returns the amount n in currency.
func M[T Number](n T, currency string) Money { return Money{toDecimal(n), currency} }

// ParseMoney reads a decimal amount in currency.
func ParseMoney(amount, currency string) (Money, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, validationf("invalid amount %q", amount)
	}
	return Money{v, currency}, nil
}

// ValidCurrency reports whether code is a known ISO 4217 currency.
func ValidCurrency(code string) bool { return money.GetCurrency(code) != nil }

func (m Money) Value() decimal.Decimal { return m.value }
func (m Money) Currency() string       { return m.cur }

// String formats the amount the way its currency is written, e.g. "$1,234.50"
// or "1.234,50 €". Unknown currencies print a plain two decimal number.
func (m Money) String() string {
	c := money.GetCurrency(m.cur)
	if c == nil {
		return m.value.StringFixed(2)
	}
	minor := m.value.Shift(int32(c.Fraction)).Round(0)
	return c.Formatter().Format(minor.IntPart())
}

// SignedString is String with an explicit "+" on gains. Zero prints "-".
func (m Money) SignedString() string {
	switch m.value.Sign() {
	case 0:
		return "-"
	case 1:
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsPositive() bool { return m.value.Sign() > 0 }
func (m Money) IsNegative() bool { return m.value.Sign() < 0 }

// Equal reports whether both amount and currency match.
func (m Money) Equal(o Money) bool { return m.cur == o.cur && m.value.Equal(o.value) }

// Comparisons look at amounts only.
func (m Money) LessThan(o Money) bool           { return m.value.Cmp(o.value) < 0 }
func (m Money) LessThanOrEqual(o Money) bool    { return m.value.Cmp(o.value) <= 0 }
func (m Money) GreaterThan(o Money) bool        { return m.value.Cmp(o.value) > 0 }
func (m Money) GreaterThanOrEqual(o Money) bool { return m.value.Cmp(o.value) >= 0 }

func (m Money) Neg() Money { return Money{m.value.Neg(), m.cur} }
func (m Money) Abs() Money { return Money{m.value.Abs(), m.cur} }

// Mul scales the amount, e.g. a unit price by a quantity.
func (m Money) Mul(q Quantity) Money { return Money{m.value.Mul(q.value), m.cur} }

// Div splits the amount, e.g. a total cost into a unit price.
func (m Money) Div(q Quantity) Money { return Money{m.value.Div(q.value), m.cur} }

// Round quantizes to cents, half away from zero.
func (m Money) Round() Money { return Money{m.value.Round(2), m.cur} }

// Add panics when both operands carry different currencies.
func (m Money) Add(o Money) Money { return Money{m.value.Add(o.value), common(m, o)} }

// Sub panics when both operands carry different currencies.
func (m Money) Sub(o Money) Money { return Money{m.value.Sub(o.value), common(m, o)} }

func common(a, b Money) string {
	switch {
	case a.cur == b.cur, b.cur == "":
		return a.cur
	case a.cur == "":
		return b.cur
	}
	panic(fmt.Sprintf("folio: adding %s to %s", b.cur, a.cur))
}

// MarshalJSON writes the exact amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("amount", m.value)
	w.Optional("currency", m.cur)
	return w.MarshalJSON()
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	m.value, m.cur = v.Amount, v.Currency
	return nil
}
