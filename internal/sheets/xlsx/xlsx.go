// Package xlsx reads the contributions sheet from a local Excel workbook.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budgetviz/internal/core"
	ports "budgetviz/internal/sheets"

	"github.com/xuri/excelize/v2"
)

var (
	_ ports.TableReader = (*Workbook)(nil)
	_ ports.Describer   = (*Workbook)(nil)
)

// Workbook reads one named sheet of one workbook file. The file is opened
// on every read so edits to the workbook show up without a restart.
type Workbook struct {
	path  string
	sheet string
}

func New(path, sheet string) *Workbook {
	return &Workbook{path: path, sheet: sheet}
}

func (w *Workbook) Source() string {
	return fmt.Sprintf("%s [%s]", w.path, w.sheet)
}

// ReadTable loads the sheet with raw cell values, so amounts are not affected
// by the workbook's number formats.
func (w *Workbook) ReadTable(ctx context.Context) (core.Table, error) {
	if err := ctx.Err(); err != nil {
		return core.Table{}, &core.LoadError{Source: w.Source(), Err: err}
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return core.Table{}, &core.LoadError{Source: w.Source(), Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		var missing excelize.ErrSheetNotExist
		if errors.As(err, &missing) {
			err = fmt.Errorf("%w (available sheets: %s)", err, strings.Join(f.GetSheetList(), ", "))
		}
		return core.Table{}, &core.LoadError{Source: w.Source(), Err: err}
	}
	return core.NewTable(rows), nil
}
