package folio

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Number is any value Q and M accept as an amount.
type Number interface {
	int | int32 | int64 | uint | uint32 | uint64 | float32 | float64 | decimal.Decimal
}

func toDecimal[T Number](n T) decimal.Decimal {
	switch v := any(n).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	default:
		return decimal.NewFromUint64(any(n).(uint64))
	}
}

// Quantity is a signed number of units: long when positive, short when
// negative.
type Quantity struct{ value decimal.Decimal }

// Q returns the quantity n.
func Q[T Number](n T) Quantity { return Quantity{toDecimal(n)} }

// ParseQuantity reads a decimal string such as "12.5" or "-3".
func ParseQuantity(s string) (Quantity, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Quantity{}, validationf("invalid quantity %q", s)
	}
	return Quantity{v}, nil
}

func (q Quantity) Value() decimal.Decimal { return q.value }
func (q Quantity) String() string         { return q.value.String() }

func (q Quantity) Sign() int        { return q.value.Sign() }
func (q Quantity) IsZero() bool     { return q.value.IsZero() }
func (q Quantity) IsPositive() bool { return q.value.Sign() > 0 }
func (q Quantity) IsNegative() bool { return q.value.Sign() < 0 }

func (q Quantity) Equal(o Quantity) bool       { return q.value.Cmp(o.value) == 0 }
func (q Quantity) LessThan(o Quantity) bool    { return q.value.Cmp(o.value) < 0 }
func (q Quantity) GreaterThan(o Quantity) bool { return q.value.Cmp(o.value) > 0 }

func (q Quantity) Add(o Quantity) Quantity { return Quantity{q.value.Add(o.value)} }
func (q Quantity) Sub(o Quantity) Quantity { return Quantity{q.value.Sub(o.value)} }
func (q Quantity) Mul(o Quantity) Quantity { return Quantity{q.value.Mul(o.value)} }
func (q Quantity) Neg() Quantity           { return Quantity{q.value.Neg()} }
func (q Quantity) Abs() Quantity           { return Quantity{q.value.Abs()} }

// MarshalJSON writes the exact decimal as a JSON string. Numbers are
// accepted back.
func (q Quantity) MarshalJSON() ([]byte, error) { return q.value.MarshalJSON() }

func (q *Quantity) UnmarshalJSON(data []byte) error { return q.value.UnmarshalJSON(data) }
