package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "approvalcli/internal/errors"
	"approvalcli/pkg/contracts/domain"
)

// timestampLayouts are tried in order for timestamps stored as text
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"02-Jan-2006 15:04:05",
}

// Parser reads deposit attempts from an xlsx workbook
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser logging through logger
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseFile reads every deposit attempt of the workbook at filePath.
// When sheet is empty the first sheet carrying all required headers is used.
func (p *Parser) ParseFile(ctx context.Context, filePath, sheet string) ([]domain.RawTransaction, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, apperrors.NewMissingFileError(filePath, err)
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewMissingFileError(filePath, err)
	}
	defer f.Close()

	sheetName, rows, err := p.findSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "found deposit attempts sheet",
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	columns, err := mapColumns(sheetName, rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.RawTransaction, 0, len(rows)-1)
	skipped := 0
	for i := 1; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			skipped++
			continue
		}
		rec, err := parseRow(rows[i], i+1, columns)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	p.logger.InfoContext(ctx, "parsed deposit attempts",
		slog.Int("records", len(records)),
		slog.Int("empty_rows_skipped", skipped))

	return records, nil
}

// findSheet returns the rows of the requested sheet, or of the first sheet
// whose header row carries every required column
func (p *Parser) findSheet(f *excelize.File, sheet string) (string, [][]string, error) {
	opts := excelize.Options{RawCellValue: true}

	if sheet != "" {
		rows, err := f.GetRows(sheet, opts)
		if err != nil {
			return "", nil, apperrors.NewMalformedDataError(fmt.Sprintf("sheet %q not found", sheet), err)
		}
		if len(rows) == 0 {
			return "", nil, apperrors.NewMalformedDataError(fmt.Sprintf("sheet %q is empty", sheet), nil)
		}
		return sheet, rows, nil
	}

	var firstMissing []string
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, opts)
		if err != nil || len(rows) == 0 {
			continue
		}
		missing := missingColumns(rows[0])
		if len(missing) == 0 {
			return name, rows, nil
		}
		if firstMissing == nil {
			firstMissing = missing
		}
		p.logger.Debug("sheet skipped, headers missing",
			slog.String("sheet_name", name),
			slog.Any("missing", missing))
	}

	err := apperrors.NewMalformedDataError("no sheet carries the required headers", nil)
	if firstMissing != nil {
		err.WithContext("missing_columns", strings.Join(firstMissing, ", "))
	}
	return "", nil, err
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, col := range domain.RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// mapColumns maps each required header to its column index
func mapColumns(sheet string, header []string) (map[string]int, error) {
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, apperrors.NewMalformedDataError(
			fmt.Sprintf("missing column(s): %s", strings.Join(missing, ", ")), nil).
			WithContext("sheet", sheet)
	}

	columns := make(map[string]int, len(domain.RequiredColumns))
	for j, h := range header {
		name := strings.TrimSpace(h)
		if _, seen := columns[name]; !seen {
			columns[name] = j
		}
	}
	return columns, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, idx int) (string, bool) {
	if idx >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[idx])
	return v, v != ""
}

func textCell(row []string, idx int) domain.Optional[string] {
	if v, ok := cell(row, idx); ok {
		return domain.Some(v)
	}
	return domain.None[string]()
}

// parseRow converts one sheet row; rowNum is the 1-based sheet row
func parseRow(row []string, rowNum int, columns map[string]int) (domain.RawTransaction, error) {
	rec := domain.RawTransaction{
		Row:          rowNum,
		CustomerID:   textCell(row, columns[domain.ColumnCustomerID]),
		AmountText:   textCell(row, columns[domain.ColumnAmount]),
		IssuingBank:  textCell(row, columns[domain.ColumnIssuingBank]),
		CoWebsite:    textCell(row, columns[domain.ColumnCoWebsite]),
		ProcessingCo: textCell(row, columns[domain.ColumnProcessingCo]),
	}

	if v, ok := cell(row, columns[domain.ColumnTimestamp]); ok {
		ts, err := ParseTimestamp(v)
		if err != nil {
			return rec, apperrors.NewMalformedDataError(
				fmt.Sprintf("%s on row %d", domain.ColumnTimestamp, rowNum), err).
				WithContext("row", rowNum).
				WithContext("value", v)
		}
		rec.AttemptTimestamp = domain.Some(ts)
	}

	if v, ok := cell(row, columns[domain.ColumnApproved]); ok {
		flag, err := ParseApproval(v)
		if err != nil {
			return rec, apperrors.NewMalformedDataError(
				fmt.Sprintf("%s on row %d", domain.ColumnApproved, rowNum), err).
				WithContext("row", rowNum).
				WithContext("value", v)
		}
		rec.Approved = domain.Some(flag)
	}

	return rec, nil
}

// ParseTimestamp accepts an Excel serial date or text in one of the known layouts
func ParseTimestamp(v string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
}

// ParseApproval accepts 0/1, 0.0/1.0 and true/false
func ParseApproval(v string) (int, error) {
	switch strings.ToLower(v) {
	case "1", "1.0", "true":
		return 1, nil
	case "0", "0.0", "false":
		return 0, nil
	}
	return 0, fmt.Errorf("approval flag must be 0 or 1, got %q", v)
}
