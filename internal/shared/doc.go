// Package shared holds helpers used by more than one package of the analyzer.
//
// The testutil subpackage provides:
//
//   - a buffered slog handler for asserting on log records
//   - workbook fixtures that write deposit attempt sheets with excelize
//
// Example usage:
//
//	func TestParse(t *testing.T) {
//	    path := testutil.WriteDepositWorkbook(t, t.TempDir(), rows)
//	    logger, handler := testutil.NewTestLogger(t)
//	    // ...
//	}
//
// Nothing in this package carries business logic.
package shared
