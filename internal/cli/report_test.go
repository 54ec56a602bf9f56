package cli

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"budgetviz/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(t *testing.T) core.Report {
	t.Helper()
	report, err := core.Aggregate([]core.ContributionRecord{
		{Name: "Alice", Amount: decimal.NewFromInt(1500)},
		{Name: "Bob", Amount: decimal.NewFromInt(500)},
		{Name: "Alice", Amount: decimal.NewFromInt(10500)},
	})
	require.NoError(t, err)
	report.Stats.RowsRead = 5
	report.Stats.Kept = 3
	return report
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	err := RenderReport(&buf, "budget.xlsx [Feuille 1]", sampleReport(t), nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, core.ReportTitle)
	assert.Contains(t, out, "Total général collecté : 12,500")
	assert.Contains(t, out, "Classement")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "12,000")
	assert.Contains(t, out, "96.00%")
	assert.Contains(t, out, "4.00%")
	assert.Contains(t, out, strings.Repeat("█", barCells))
	assert.Contains(t, out, "budget.xlsx [Feuille 1]")
	assert.Contains(t, out, "2 contributeurs")
	assert.Less(t, strings.Index(out, "Alice"), strings.Index(out, "Bob"))
}

func TestRenderReportErrors(t *testing.T) {
	loadErr := &core.LoadError{Source: "budget.xlsx", Err: os.ErrNotExist}

	var buf bytes.Buffer
	err := RenderReport(&buf, "budget.xlsx", core.Report{}, loadErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, buf.String(), "Erreur lors du chargement du fichier")

	buf.Reset()
	err = RenderReport(&buf, "budget.xlsx", core.Report{}, &core.MissingColumnsError{
		Missing:   []string{"Total Individuel"},
		Available: []string{"Unnamed: 0", "Juillet"},
	})
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "Colonnes disponibles : ['Unnamed: 0', 'Juillet']")

	buf.Reset()
	err = RenderReport(&buf, "budget.xlsx", core.Report{}, core.ErrNoData)
	assert.NoError(t, err, "an empty sheet is a state, not a failure")
	assert.Contains(t, buf.String(), core.NoDataText)
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(0))
	assert.Equal(t, strings.Repeat("█", barCells), bar(100))
	assert.Equal(t, strings.Repeat("█", barCells/2), bar(50))
	assert.Equal(t, "▌", bar(2.5))
}
