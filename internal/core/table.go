package core

import (
	"strconv"
	"strings"
)

// Table is a raw sheet: a normalized header row and the data rows below it.
// Every row has exactly len(Columns) cells; an empty string marks a missing cell.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a Table from a values matrix whose first row is the header.
// Blank header cells become "Unnamed: <index>" and repeated labels get a
// ".1", ".2", ... suffix, so that every column can be addressed by label.
// Trailing fully blank rows are dropped and short rows are padded. Only header
// labels are trimmed; data cells keep their text as read.
func NewTable(values [][]string) Table {
	if len(values) == 0 {
		return Table{}
	}
	width := 0
	for _, row := range values {
		if len(row) > width {
			width = len(row)
		}
	}
	header := make([]string, width)
	copy(header, values[0])
	t := Table{Columns: normalizeHeader(header)}

	last := len(values) - 1
	for last > 0 && isBlankRow(values[last]) {
		last--
	}
	for _, row := range values[1 : last+1] {
		cells := make([]string, width)
		copy(cells, row)
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// ColumnIndex returns the position of the column with the exact label, or -1.
func (t Table) ColumnIndex(label string) int {
	for i, c := range t.Columns {
		if c == label {
			return i
		}
	}
	return -1
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	seen := map[string]int{}
	for i, v := range raw {
		label := strings.TrimSpace(v)
		if label == "" {
			label = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[label]; dup {
			seen[label] = n + 1
			label = label + "." + strconv.Itoa(n+1)
		} else {
			seen[label] = 0
		}
		out[i] = label
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
