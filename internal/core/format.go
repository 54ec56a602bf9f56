package core

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatTotal renders an amount as a whole number with thousands separators, e.g. "12,345".
func FormatTotal(d decimal.Decimal) string {
	return humanize.BigComma(d.RoundBank(0).BigInt())
}

// FormatShare renders a percentage with two decimals, e.g. "33.33%".
func FormatShare(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

// FormatSliceLabel renders a percentage with one decimal for chart annotations.
func FormatSliceLabel(d decimal.Decimal) string {
	return d.StringFixedBank(1) + "%"
}

// BarWidth scales share against max to a 0-100 width, one decimal.
func BarWidth(share, max decimal.Decimal) float64 {
	if !max.IsPositive() || !share.IsPositive() {
		return 0
	}
	w := share.Mul(hundred).Div(max).Round(1)
	if w.GreaterThan(hundred) {
		return 100
	}
	return w.InexactFloat64()
}
