// Package cli provides the initialization shared by the budgetviz commands
// and the terminal rendering of the report.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"budgetviz/internal/backend"
	"budgetviz/internal/config"
	applog "budgetviz/internal/log"
	"budgetviz/internal/services"
)

// SetupLogger initializes structured logging at the given level and sets it
// as the default logger. Logs go to w so stdout stays free for reports.
func SetupLogger(w io.Writer, level string) *applog.Logger {
	logger := applog.NewText(w, applog.ParseLevel(level), applog.ComponentApp)
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads the .env file and the environment, then
// validates the result.
func LoadAndValidateConfig() (*config.Config, error) {
	config.LoadEnvFile()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewReportService wires the configured backend into a report service.
func NewReportService(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*services.ReportService, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	reader, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bcfg.Type, err)
	}
	return services.NewReportService(reader, cfg.CleanOptions(), logger), nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String(), applog.FieldOperation, applog.OpShutdown)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
