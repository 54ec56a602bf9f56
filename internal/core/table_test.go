package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableNormalizesHeader(t *testing.T) {
	tbl := NewTable([][]string{
		{"", "Janvier", "Février", "Total Individuel", "Janvier"},
		{"Alice", "10", "20", "30"},
		{" Bob ", "5"},
		{},
		{"", ""},
	})

	assert.Equal(t, []string{"Unnamed: 0", "Janvier", "Février", "Total Individuel", "Janvier.1"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"Alice", "10", "20", "30", ""}, tbl.Rows[0])
	assert.Equal(t, []string{" Bob ", "5", "", "", ""}, tbl.Rows[1])
	assert.Equal(t, 3, tbl.ColumnIndex("Total Individuel"))
	assert.Equal(t, -1, tbl.ColumnIndex("total individuel"))
}

func TestNewTableEmpty(t *testing.T) {
	tbl := NewTable(nil)
	assert.Empty(t, tbl.Columns)
	assert.Zero(t, tbl.Len())

	tbl = NewTable([][]string{{"", "Total Individuel"}})
	assert.Equal(t, []string{"Unnamed: 0", "Total Individuel"}, tbl.Columns)
	assert.Zero(t, tbl.Len())
}

func TestNewTableKeepsInteriorBlankRows(t *testing.T) {
	tbl := NewTable([][]string{
		{"", "Total Individuel"},
		{"Alice", "1"},
		{"", ""},
		{"Bob", "2"},
	})
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"", ""}, tbl.Rows[1])
}
