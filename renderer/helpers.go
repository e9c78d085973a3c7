// Package renderer turns portfolio states, snapshots, performance metrics and
// tax reports into markdown documents.
package renderer

import (
	"bytes"
	"io"
	"maps"
	"slices"

	"github.com/etnz/folio"
	"github.com/etnz/folio/cgt"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// percent formats a fraction (0.1234) as a percentage (12.34%).
func percent(v decimal.Decimal) string { return v.Mul(hundred).StringFixed(2) + "%" }

// signedPercent is percent with an explicit sign, "-" for zero.
func signedPercent(v decimal.Decimal) string {
	switch v.Sign() {
	case 0:
		return "-"
	case 1:
		return "+" + percent(v)
	default:
		return percent(v)
	}
}

// ratio formats a unitless ratio such as Sharpe or beta.
func ratio(v decimal.Decimal) string { return v.StringFixed(2) }

// aud formats a CGT amount.
func aud(v decimal.Decimal) string { return folio.M(v, cgt.AUD).String() }

// sortedKeys returns the keys of a breakdown in ascending order.
func sortedKeys[K ~string, V any](m map[K]V) []K { return slices.Sorted(maps.Keys(m)) }
