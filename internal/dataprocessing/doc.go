// Package dataprocessing loads, cleans and queries deposit attempts.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Parser: reads the xlsx workbook into raw transactions
// 2. Cleaner: fills absent issuing banks and parses amounts into an immutable Table
// 3. Analytics: the approval, customer, amount and bank ranking queries
//
// # Usage
//
//	raw, err := dataprocessing.NewParser(logger).ParseFile(ctx, "Recruiting Task Dataset.xlsx", "")
//	if err != nil {
//	    return err
//	}
//	table, summary, err := dataprocessing.NewCleaner(logger).Clean(ctx, raw)
//	rates, err := dataprocessing.QuarterlyApprovalRates(table)
//
// # Missing values
//
// Cells left empty in the sheet stay absent after cleaning, except the issuing
// bank which becomes "Other". Attempts without a timestamp never match a date
// filter, attempts without an amount never match an amount filter, and
// attempts without an approval flag are left out of approval rates entirely.
//
// # Error Handling
//
// Loader and cleaner failures are MISSING_FILE or MALFORMED_DATA application
// errors. Queries that require at least one row return EMPTY_RESULT.
package dataprocessing
