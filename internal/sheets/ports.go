package sheets

import (
	"context"

	"budgetviz/internal/core"
)

// Ports for outbound adapters.
type (
	// TableReader loads the contributions sheet as a raw table.
	// Implementations wrap read failures in *core.LoadError.
	TableReader interface {
		ReadTable(ctx context.Context) (core.Table, error)
	}

	// Describer is implemented by readers that can name their source for
	// logs and error banners.
	Describer interface {
		Source() string
	}
)
