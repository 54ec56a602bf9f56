// Package core holds the contribution domain: the raw sheet table, the
// cleaning and aggregation pipeline, and display formatting of the results.
//
// This file contains amount coercion from spreadsheet cell text.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a cell to a decimal amount.
//
// It accepts plain numbers ("1500", "-12.5", "1.5E+3" as stored raw by
// spreadsheets), thousands separators ("1,234.50", "1.234,50", "1 234"),
// a decimal comma ("12,5") and a leading or trailing euro sign.
// Anything else ("N/A", "", "-") reports ok=false; callers drop the row.
//
// Examples:
//
//	ParseAmount("1,234.50") -> 1234.50, true
//	ParseAmount("12,5")     -> 12.5, true
//	ParseAmount("N/A")      -> 0, false
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '€', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,50
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.50
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if isThousandsGrouped(s, ',') {
			s = strings.ReplaceAll(s, ",", "")
		} else if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			return decimal.Zero, false
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// isThousandsGrouped reports whether every group after sep has exactly three
// digits, e.g. "1,234" or "12,345,678".
func isThousandsGrouped(s string, sep byte) bool {
	s = strings.TrimLeft(s, "+-")
	parts := strings.Split(s, string(sep))
	if len(parts) < 2 || parts[0] == "" || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
