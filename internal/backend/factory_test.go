package backend

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"budgetviz/internal/config"
	"budgetviz/internal/core"
	applog "budgetviz/internal/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "sqlite"})
	assert.ErrorContains(t, err, "invalid backend type")

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  config.BackendXLSX,
		WorkbookPath: "budget.xlsx",
		SheetName:    "Feuille 1",
	})
	require.NoError(t, err)
	assert.Equal(t, XLSXBackend, cfg.Type)
	assert.Equal(t, "budget.xlsx", cfg.WorkbookPath)
}

func TestCreateBackend(t *testing.T) {
	var logs bytes.Buffer
	f := NewFactory(applog.NewText(&logs, slog.LevelInfo, applog.ComponentApp))
	ctx := context.Background()

	t.Run("xlsx", func(t *testing.T) {
		r, err := f.CreateBackend(ctx, Config{Type: XLSXBackend, WorkbookPath: "missing.xlsx", SheetName: "Feuille 1"})
		require.NoError(t, err, "a missing workbook is reported on read")
		assert.Equal(t, "missing.xlsx [Feuille 1]", r.Source())

		_, err = r.ReadTable(ctx)
		var le *core.LoadError
		assert.ErrorAs(t, err, &le)
	})

	t.Run("memory", func(t *testing.T) {
		seed := filepath.Join(t.TempDir(), "absent.csv")
		r, err := f.CreateBackend(ctx, Config{Type: MemoryBackend, MemorySeedFile: seed})
		require.NoError(t, err)
		assert.Equal(t, seed, r.Source())
	})

	t.Run("sheets without credentials", func(t *testing.T) {
		t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
		t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
		_, err := f.CreateBackend(ctx, Config{Type: SheetsBackend, GoogleSpreadsheetID: "1AbC", SheetName: "Feuille 1"})
		assert.ErrorContains(t, err, "missing service account credentials")
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := f.CreateBackend(ctx, Config{Type: "sqlite"})
		assert.Error(t, err)
	})

	assert.Contains(t, logs.String(), "backend=xlsx")
	assert.Contains(t, logs.String(), "component=backend")
}
