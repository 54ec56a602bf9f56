package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Report is the aggregated result rendered by the presenters.
type Report struct {
	GrandTotal decimal.Decimal
	Summaries  []ContributorSummary // ordered by Rank
	Stats      ReportStats
}

// ReportStats records row accounting for logging and diagnostics.
type ReportStats struct {
	CleanStats
	Contributors int
	MergedRows   int // records folded into an already seen name
}

// Aggregate groups records by exact name, computes each contributor's share of
// the grand total and ranks contributors by descending share.
//
// Shares are rounded half-to-even to two decimals. Ties keep the order in
// which names first appeared. ErrNoData is returned instead of dividing when
// there is nothing to share: no records, or a grand total that is zero or
// negative.
func Aggregate(records []ContributionRecord) (Report, error) {
	if len(records) == 0 {
		return Report{}, ErrNoData
	}

	totals := map[string]decimal.Decimal{}
	order := make([]string, 0, len(records))
	grand := decimal.Zero
	for _, r := range records {
		if _, seen := totals[r.Name]; !seen {
			order = append(order, r.Name)
			totals[r.Name] = decimal.Zero
		}
		totals[r.Name] = totals[r.Name].Add(r.Amount)
		grand = grand.Add(r.Amount)
	}
	if !grand.IsPositive() {
		return Report{}, ErrNoData
	}

	summaries := make([]ContributorSummary, 0, len(order))
	for _, name := range order {
		total := totals[name]
		summaries = append(summaries, ContributorSummary{
			Name:  name,
			Total: total,
			Share: total.Mul(hundred).Div(grand).RoundBank(2),
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Share.GreaterThan(summaries[j].Share)
	})
	for i := range summaries {
		summaries[i].Rank = i + 1
	}

	return Report{
		GrandTotal: grand,
		Summaries:  summaries,
		Stats: ReportStats{
			Contributors: len(summaries),
			MergedRows:   len(records) - len(summaries),
		},
	}, nil
}

// MaxShare returns the largest share in the report, used to scale bars.
func (r Report) MaxShare() decimal.Decimal {
	max := decimal.Zero
	for _, s := range r.Summaries {
		if s.Share.GreaterThan(max) {
			max = s.Share
		}
	}
	return max
}

// ShareSum returns the sum of all rounded shares.
func (r Report) ShareSum() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range r.Summaries {
		sum = sum.Add(s.Share)
	}
	return sum
}
