package backend

import (
	"context"
	"fmt"

	"budgetviz/internal/config"
	applog "budgetviz/internal/log"
	gsheet "budgetviz/internal/sheets/google"
	"budgetviz/internal/sheets/memory"
	"budgetviz/internal/sheets/xlsx"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:                backendType,
		WorkbookPath:        appConfig.WorkbookPath,
		SheetName:           appConfig.SheetName,
		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		MemorySeedFile:      appConfig.MemorySeedFile,
	}, nil
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend. A workbook or seed file that
// does not exist yet is not an error here; it is reported by the first read.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (Reader, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	var reader Reader
	switch config.Type {
	case XLSXBackend:
		reader = xlsx.New(config.WorkbookPath, config.SheetName)
	case SheetsBackend:
		cli, err := gsheet.New(ctx, config.GoogleSpreadsheetID, config.SheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		reader = cli
	case MemoryBackend:
		reader = memory.NewFromFile(config.MemorySeedFile)
	}

	f.logger.InfoContext(ctx, "Initialized contributions backend",
		applog.FieldBackend, config.Type.String(), applog.FieldSource, reader.Source())

	return reader, nil
}
