package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"approvalcli/internal/config"
	apperrors "approvalcli/internal/errors"
	"approvalcli/pkg/contracts/domain"
)

// ReportExporter writes an AnalysisReport to the reports directory
type ReportExporter struct {
	paths  *config.Paths
	csv    *CSVWriter
	logger *slog.Logger
}

// NewReportExporter creates an exporter rooted at paths.ReportsDir
func NewReportExporter(paths *config.Paths, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		paths:  paths,
		csv:    NewCSVWriter(paths),
		logger: logger.With(slog.String("component", "exporter")),
	}
}

// Export writes the workbook plus the quarterly rate and factor score CSVs.
// It returns the paths of every file written.
func (e *ReportExporter) Export(ctx context.Context, report *domain.AnalysisReport) ([]string, error) {
	if report == nil {
		return nil, apperrors.NewOutputError("report is required", nil)
	}
	if err := e.paths.EnsureDirectories(); err != nil {
		return nil, apperrors.NewOutputError("failed to create output directories", err)
	}

	var written []string
	date := report.GeneratedAt.Format("20060102")

	workbook := e.paths.GetAnalysisWorkbookPath(report.GeneratedAt)
	if err := WriteWorkbook(workbook, report); err != nil {
		return written, apperrors.NewOutputError("failed to write workbook", err)
	}
	written = append(written, workbook)

	if len(report.QuarterlyRates) > 0 {
		path, err := e.writeSection(fmt.Sprintf("quarterly_rates_%s.csv", date), quarterlySection(report.QuarterlyRates))
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if report.Factors != nil {
		path, err := e.writeSection(fmt.Sprintf("factor_scores_%s.csv", date), scoresSection(report.Factors.Scores))
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	e.logger.InfoContext(ctx, "report exported",
		slog.String("run_id", report.RunID),
		slog.Int("files", len(written)),
		slog.String("dir", e.paths.ReportsDir))
	return written, nil
}

func (e *ReportExporter) writeSection(name string, s section) (string, error) {
	records := make([][]string, len(s.rows))
	for i, row := range s.rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = csvCell(v)
		}
		records[i] = rec
	}
	path, err := e.csv.WriteSimpleCSV(name, s.headers, records)
	if err != nil {
		return "", apperrors.NewOutputError("failed to write "+name, err)
	}
	return path, nil
}
