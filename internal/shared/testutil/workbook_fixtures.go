package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// DepositHeader is the header row of a well-formed deposit attempts sheet
var DepositHeader = []string{
	"CustomerID",
	"Attempt Timestamp",
	"Amount",
	"Appr?",
	"Issuing Bank",
	"Co Website",
	"Processing Co",
}

// DepositRow is one sheet row; empty fields are written as empty cells
type DepositRow struct {
	CustomerID   string
	Timestamp    string
	Amount       string
	Approved     string
	IssuingBank  string
	CoWebsite    string
	ProcessingCo string
}

func (r DepositRow) cells() []interface{} {
	return []interface{}{r.CustomerID, r.Timestamp, r.Amount, r.Approved, r.IssuingBank, r.CoWebsite, r.ProcessingCo}
}

// WriteDepositWorkbook writes rows under DepositHeader into a new workbook in
// dir and returns its path
func WriteDepositWorkbook(t testing.TB, dir string, rows []DepositRow) string {
	t.Helper()

	cells := make([][]interface{}, len(rows))
	for i, r := range rows {
		cells[i] = r.cells()
	}
	path := filepath.Join(dir, "deposits.xlsx")
	WriteWorkbook(t, path, "Sheet1", DepositHeader, cells)
	return path
}

// WriteWorkbook writes a single-sheet workbook with the given header and rows
func WriteWorkbook(t testing.TB, path, sheet string, header []string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != f.GetSheetName(0) {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			t.Fatalf("failed to rename sheet: %v", err)
		}
	}

	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("failed to address row %d: %v", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write row %d: %v", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
}
