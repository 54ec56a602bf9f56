package backend

import (
	"context"

	"budgetviz/internal/sheets"
)

// Reader is a contributions source that can describe itself.
type Reader interface {
	sheets.TableReader
	sheets.Describer
}

// Factory creates readers based on configuration
type Factory interface {
	// CreateBackend creates a reader for the configured source
	CreateBackend(ctx context.Context, config Config) (Reader, error)
}

// Config holds configuration for reader creation
type Config struct {
	Type BackendType

	// Workbook and Google Sheets tab
	WorkbookPath        string
	SheetName           string
	GoogleSpreadsheetID string

	// Memory backend seed
	MemorySeedFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	XLSXBackend   BackendType = "xlsx"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case XLSXBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
