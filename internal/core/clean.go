package core

import (
	"strings"
)

// CleanOptions describes where the data lives in the raw sheet and which
// rows are footers rather than contributions.
type CleanOptions struct {
	NameColumn     string
	AmountColumn   string
	ExcludeMarkers []string // case-insensitive substrings of the name cell
}

// DefaultCleanOptions matches the budget tracking workbook: names in the
// unlabeled first column, totals in "Total Individuel", and a running total
// plus a colour legend at the bottom of the sheet.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		NameColumn:     "Unnamed: 0",
		AmountColumn:   LabelAmount,
		ExcludeMarkers: []string{"Total", "Code couleur"},
	}
}

// CleanStats counts what happened to the raw rows during cleaning.
type CleanStats struct {
	RowsRead      int
	MissingName   int
	Excluded      int
	InvalidAmount int
	Kept          int
}

// Dropped returns the number of rows that did not become records.
func (s CleanStats) Dropped() int {
	return s.MissingName + s.Excluded + s.InvalidAmount
}

// ValidateColumns checks that both the name and amount columns exist by exact label.
func ValidateColumns(t Table, opts CleanOptions) error {
	var missing []string
	for _, label := range []string{opts.NameColumn, opts.AmountColumn} {
		if t.ColumnIndex(label) == -1 {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{
			Missing:   missing,
			Available: append([]string(nil), t.Columns...),
		}
	}
	return nil
}

// Clean reduces a validated table to contribution records.
//
// Rows are filtered in a fixed order: missing name, footer marker in the name,
// then amount coercion. Rejected rows are skipped silently and only counted.
// A whitespace-only name counts as missing; other names are kept verbatim, so
// "Alice" and "Alice " are different contributors.
func Clean(t Table, opts CleanOptions) ([]ContributionRecord, CleanStats) {
	stats := CleanStats{RowsRead: t.Len()}
	nameCol := t.ColumnIndex(opts.NameColumn)
	amountCol := t.ColumnIndex(opts.AmountColumn)
	if nameCol == -1 || amountCol == -1 {
		return nil, stats
	}

	markers := make([]string, 0, len(opts.ExcludeMarkers))
	for _, m := range opts.ExcludeMarkers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			markers = append(markers, m)
		}
	}

	records := make([]ContributionRecord, 0, t.Len())
	for _, row := range t.Rows {
		name := row[nameCol]
		if strings.TrimSpace(name) == "" {
			stats.MissingName++
			continue
		}
		if containsMarker(name, markers) {
			stats.Excluded++
			continue
		}
		amount, ok := ParseAmount(row[amountCol])
		if !ok {
			stats.InvalidAmount++
			continue
		}
		records = append(records, ContributionRecord{Name: name, Amount: amount})
	}
	stats.Kept = len(records)
	return records, stats
}

func containsMarker(name string, markers []string) bool {
	lower := strings.ToLower(name)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
