package exporter

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"approvalcli/internal/config"
	apperrors "approvalcli/internal/errors"
	"approvalcli/internal/shared/testutil"
)

func TestReportExporter_Export(t *testing.T) {
	paths := config.PathsFrom(t.TempDir())
	logger, handler := testutil.NewTestLogger(t)

	files, err := NewReportExporter(paths, logger).Export(context.Background(), sampleReport())
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, paths.GetReportPath("analysis_20211005.xlsx"), files[0])
	assert.Equal(t, paths.GetReportPath("quarterly_rates_20211005.csv"), files[1])
	assert.Equal(t, paths.GetReportPath("factor_scores_20211005.csv"), files[2])
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "report exported")

	_, records := readCSV(t, files[1])
	assert.Equal(t, [][]string{
		{"Quarter", "Approved", "Attempts", "Approval Rate"},
		{"2020Q4", "18", "20", "0.9000"},
		{"2021Q3", "10", "20", "0.5000"},
	}, records)

	_, records = readCSV(t, files[2])
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Period", "2", "0.2", "0.5", "0.1", "1"}, records[1])
}

func TestReportExporter_PartialReport(t *testing.T) {
	paths := config.PathsFrom(t.TempDir())
	report := sampleReport()
	report.QuarterlyRates = nil
	report.Factors = nil
	report.QueryErrors = map[string]string{"factors": "[MODEL_FIT] single class"}

	files, err := NewReportExporter(paths, nil).Export(context.Background(), report)
	require.NoError(t, err)
	require.Len(t, files, 1)

	f, err := excelize.OpenFile(files[0])
	require.NoError(t, err)
	defer f.Close()
	assert.NotContains(t, f.GetSheetList(), "Factor Scores")

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Error: factors", "[MODEL_FIT] single class"}, rows[len(rows)-1])
}

func TestReportExporter_NilReport(t *testing.T) {
	_, err := NewReportExporter(config.PathsFrom(t.TempDir()), nil).Export(context.Background(), nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeOutput))
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.xlsx")
	require.NoError(t, WriteWorkbook(path, sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"Summary", "Cleaning", "Quarterly Rates", "Customers",
		"Approved Amount", "Top Banks", "Factor Scores", "Model",
	}, f.GetSheetList())

	rows, err := f.GetRows("Top Banks")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Rank", "Issuing Bank", "Attempts", "Approved", "Approval Rate", "Best"}, rows[0])
	assert.Equal(t, "Bank B", rows[2][1])
	assert.Equal(t, "TRUE", rows[2][5])

	total, err := f.GetCellValue("Approved Amount", "B2")
	require.NoError(t, err)
	assert.Equal(t, "1149.99", total)

	model, err := f.GetRows("Model")
	require.NoError(t, err)
	assert.Equal(t, []string{"(intercept)", "0.1"}, model[1])
}
