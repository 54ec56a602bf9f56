package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"budgetviz/internal/core"
)

// Backends that can supply the contributions sheet.
const (
	BackendXLSX   = "xlsx"
	BackendSheets = "sheets"
	BackendMemory = "memory"
)

type Config struct {
	// HTTP Server
	Port string

	// Source selection
	DataBackend string

	// Workbook (xlsx backend)
	WorkbookPath string
	SheetName    string

	// Google Sheets
	GoogleSpreadsheetID string

	// Memory backend seed
	MemorySeedFile string

	// Sheet contract
	NameColumn     string
	AmountColumn   string
	ExcludeMarkers []string

	// Presentation
	ReportCacheTTL time.Duration
	LogLevel       string
}

// LoadEnvFile loads a .env file for local development, if present.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Load reads the configuration from the environment. Defaults reproduce the
// budget workbook this tool was written for.
func Load() *Config {
	defaults := core.DefaultCleanOptions()
	return &Config{
		Port:        getEnv("PORT", "8501"),
		DataBackend: getEnv("DATA_BACKEND", BackendXLSX),

		WorkbookPath: getEnv("BUDGET_FILE", "Suivi du Budget T3.xlsx"),
		SheetName:    getEnv("BUDGET_SHEET", "Feuille 1"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),

		MemorySeedFile: getEnv("MEMORY_SEED_FILE", "data/contributions.csv"),

		NameColumn:     getEnv("NAME_COLUMN", defaults.NameColumn),
		AmountColumn:   getEnv("AMOUNT_COLUMN", defaults.AmountColumn),
		ExcludeMarkers: getEnvList("EXCLUDE_MARKERS", defaults.ExcludeMarkers),

		ReportCacheTTL: getEnvDuration("REPORT_CACHE_TTL", time.Minute),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

// CleanOptions returns the sheet contract used by the cleaning stage.
func (c *Config) CleanOptions() core.CleanOptions {
	return core.CleanOptions{
		NameColumn:     c.NameColumn,
		AmountColumn:   c.AmountColumn,
		ExcludeMarkers: append([]string(nil), c.ExcludeMarkers...),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{BackendXLSX, BackendSheets, BackendMemory}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendXLSX:
		// A missing workbook is reported by the loader, not here: the page
		// shows the load error banner instead of refusing to start.
		if strings.TrimSpace(c.WorkbookPath) == "" {
			errors = append(errors, "workbook path cannot be empty when using xlsx backend")
		}
		if strings.TrimSpace(c.SheetName) == "" {
			errors = append(errors, "sheet name cannot be empty when using xlsx backend")
		}
	case BackendSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if strings.TrimSpace(c.SheetName) == "" {
			errors = append(errors, "sheet name cannot be empty when using sheets backend")
		}
	case BackendMemory:
		if strings.TrimSpace(c.MemorySeedFile) == "" {
			errors = append(errors, "memory seed file cannot be empty when using memory backend")
		}
	}

	if strings.TrimSpace(c.NameColumn) == "" {
		errors = append(errors, "name column label cannot be empty")
	}
	if strings.TrimSpace(c.AmountColumn) == "" {
		errors = append(errors, "amount column label cannot be empty")
	}
	if c.NameColumn != "" && c.NameColumn == c.AmountColumn {
		errors = append(errors, fmt.Sprintf("name and amount columns must differ, both are '%s'", c.NameColumn))
	}

	if c.ReportCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid report cache TTL %v: must not be negative", c.ReportCacheTTL))
	} else if c.ReportCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid report cache TTL %v: must be at most 24 hours", c.ReportCacheTTL))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blank items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
