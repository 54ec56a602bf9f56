package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Canonical labels used once the raw sheet has been reduced to two columns.
const (
	LabelName   = "Nom"
	LabelAmount = "Total Individuel"
	LabelShare  = "Part (%)"
	LabelRank   = "Classement"
)

type (
	// ContributionRecord is a single cleaned row of the contributions sheet.
	ContributionRecord struct {
		Name   string
		Amount decimal.Decimal
	}

	// ContributorSummary is the aggregated view of one contributor.
	ContributorSummary struct {
		Rank  int
		Name  string
		Total decimal.Decimal
		Share decimal.Decimal // percentage of the grand total, 2 decimals
	}
)

var (
	// ErrNoData is returned when no valid contribution survives cleaning,
	// or when contributions add up to zero and shares cannot be computed.
	ErrNoData = errors.New("no contribution data")
)

// LoadError reports a failure to read the source spreadsheet.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load contributions: %v", e.Err)
	}
	return fmt.Sprintf("load contributions from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// MissingColumnsError reports expected columns absent from the sheet header.
type MissingColumnsError struct {
	Missing   []string
	Available []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("expected columns not found: %s; available columns: [%s]",
		strings.Join(e.Missing, ", "), strings.Join(quoteAll(e.Available), ", "))
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = "'" + v + "'"
	}
	return out
}
