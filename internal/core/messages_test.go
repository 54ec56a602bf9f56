package core

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestKindOfAndUserMessage(t *testing.T) {
	load := fmt.Errorf("build: %w", &LoadError{Source: "budget.xlsx", Err: os.ErrNotExist})
	missing := &MissingColumnsError{Missing: []string{"Total Individuel"}, Available: []string{"Unnamed: 0", "Juillet"}}

	tests := []struct {
		name string
		err  error
		kind ErrorKind
		msg  string
	}{
		{"nil", nil, KindNone, ""},
		{"load", load, KindLoad, "Erreur lors du chargement du fichier : load contributions from budget.xlsx: file does not exist"},
		{"missing columns", missing, KindMissingColumns, "Colonnes attendues non trouvées (Total Individuel). Colonnes disponibles : ['Unnamed: 0', 'Juillet']"},
		{"no data", ErrNoData, KindNoData, NoDataText},
		{"other", errors.New("boom"), KindInternal, "Erreur inattendue : boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.msg, UserMessage(tt.err))
		})
	}
}

func TestTotalLine(t *testing.T) {
	r := Report{GrandTotal: decimal.RequireFromString("12345.4")}
	assert.Equal(t, "Total général collecté : 12,345", TotalLine(r))
}
