package services

import (
	"context"
	"errors"
	"fmt"

	"budgetviz/internal/core"
	applog "budgetviz/internal/log"
	"budgetviz/internal/sheets"
)

// ReportService runs the contribution pipeline: load, validate, clean, aggregate.
type ReportService struct {
	reader sheets.TableReader
	opts   core.CleanOptions
	logger *applog.Logger
}

func NewReportService(reader sheets.TableReader, opts core.CleanOptions, logger *applog.Logger) *ReportService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ReportService{
		reader: reader,
		opts:   opts,
		logger: logger.WithComponent(applog.ComponentReport),
	}
}

// Source describes where contributions are read from.
func (s *ReportService) Source() string {
	if d, ok := s.reader.(sheets.Describer); ok {
		return d.Source()
	}
	return "unknown"
}

// Build produces a fresh report. Errors keep their type: *core.LoadError,
// *core.MissingColumnsError or core.ErrNoData.
func (s *ReportService) Build(ctx context.Context) (core.Report, error) {
	source := s.Source()

	tbl, err := s.reader.ReadTable(ctx)
	if err != nil {
		var le *core.LoadError
		if !errors.As(err, &le) {
			err = &core.LoadError{Source: source, Err: err}
		}
		s.logger.ErrorContext(ctx, "Failed to load contributions",
			applog.FieldSource, source, applog.FieldOperation, applog.OpLoad, applog.FieldError, err)
		return core.Report{}, err
	}
	s.logger.DebugContext(ctx, "Contributions sheet loaded",
		applog.FieldSource, source, "columns", tbl.Columns, applog.FieldRowsRead, tbl.Len())

	if err := core.ValidateColumns(tbl, s.opts); err != nil {
		s.logger.ErrorContext(ctx, "Expected columns missing",
			applog.FieldSource, source, applog.FieldOperation, applog.OpValidate, applog.FieldError, err)
		return core.Report{}, err
	}

	records, stats := core.Clean(tbl, s.opts)
	s.logger.DebugContext(ctx, "Contributions cleaned", applog.NewFields().
		WithOperation(applog.OpClean).
		WithCleanStats(stats.RowsRead, stats.Kept, stats.MissingName, stats.Excluded, stats.InvalidAmount).
		ToSlice()...)

	report, err := core.Aggregate(records)
	if err != nil {
		if errors.Is(err, core.ErrNoData) {
			s.logger.WarnContext(ctx, "No contribution left after cleaning",
				applog.FieldSource, source, applog.FieldRowsRead, stats.RowsRead, applog.FieldRowsKept, stats.Kept)
			return core.Report{Stats: core.ReportStats{CleanStats: stats}}, err
		}
		return core.Report{}, fmt.Errorf("aggregate contributions: %w", err)
	}
	report.Stats.CleanStats = stats

	if report.Stats.MergedRows > 0 {
		s.logger.DebugContext(ctx, "Duplicate contributor names merged",
			applog.FieldMergedRows, report.Stats.MergedRows, applog.FieldContributors, report.Stats.Contributors)
	}
	applog.NewStructuredLogger(s.logger).LogReportBuilt(ctx, source, applog.NewFields().
		WithCleanStats(stats.RowsRead, stats.Kept, stats.MissingName, stats.Excluded, stats.InvalidAmount))
	return report, nil
}
