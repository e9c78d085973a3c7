package performance

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxAnnualizedReturn caps annualized returns that would overflow, e.g. a
// large gain over a few days compounded over a full year.
var MaxAnnualizedReturn = decimal.New(1, 12)

var (
	zero = decimal.Zero
	one  = decimal.NewFromInt(1)
	two  = decimal.NewFromInt(2)
)

// sqrtPrecision is the number of decimal places kept while iterating.
const sqrtPrecision = 24

// sqrt returns the square root of x by Newton iteration, 0 for x <= 0.
func sqrt(x decimal.Decimal) decimal.Decimal {
	if x.Sign() <= 0 {
		return zero
	}
	guess := decimal.NewFromFloat(math.Sqrt(x.InexactFloat64()))
	if guess.Sign() <= 0 {
		guess = x
	}
	eps := decimal.New(1, -sqrtPrecision+2)
	for range 100 {
		next := guess.Add(x.DivRound(guess, sqrtPrecision)).DivRound(two, sqrtPrecision)
		if next.Sub(guess).Abs().LessThanOrEqual(eps) {
			return next
		}
		guess = next
	}
	return guess
}

// pow returns base^(num/den) for base > 0. Integer exponents are computed exactly,
// fractional ones go through float64. Results above limit are capped.
func pow(base decimal.Decimal, num, den int, limit decimal.Decimal) decimal.Decimal {
	f := math.Pow(base.InexactFloat64(), float64(num)/float64(den))
	if math.IsInf(f, 0) || math.IsNaN(f) || f > limit.InexactFloat64() {
		return limit
	}
	if num%den == 0 {
		return base.Pow(decimal.NewFromInt(int64(num / den)))
	}
	return decimal.NewFromFloat(f)
}

func sum(xs []decimal.Decimal) decimal.Decimal {
	total := zero
	for _, x := range xs {
		total = total.Add(x)
	}
	return total
}

func mean(xs []decimal.Decimal) decimal.Decimal {
	if len(xs) == 0 {
		return zero
	}
	return sum(xs).Div(decimal.NewFromInt(int64(len(xs))))
}

// sampleCovariance uses the n-1 denominator, 0 for fewer than 2 points.
func sampleCovariance(xs, ys []decimal.Decimal) decimal.Decimal {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return zero
	}
	mx, my := mean(xs), mean(ys)
	acc := zero
	for i := range xs {
		acc = acc.Add(xs[i].Sub(mx).Mul(ys[i].Sub(my)))
	}
	return acc.Div(decimal.NewFromInt(int64(n - 1)))
}

func sampleVariance(xs []decimal.Decimal) decimal.Decimal { return sampleCovariance(xs, xs) }

func sampleStdDev(xs []decimal.Decimal) decimal.Decimal { return sqrt(sampleVariance(xs)) }

// ratio returns a/b, 0 when b is 0.
func ratio(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return zero
	}
	return a.Div(b)
}

// round4 quantizes a ratio or return for output, half away from zero.
func round4(x decimal.Decimal) decimal.Decimal { return x.Round(4) }
