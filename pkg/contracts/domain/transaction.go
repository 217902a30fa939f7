package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sheet column headers of the deposit attempts workbook
const (
	ColumnCustomerID   = "CustomerID"
	ColumnTimestamp    = "Attempt Timestamp"
	ColumnAmount       = "Amount"
	ColumnApproved     = "Appr?"
	ColumnIssuingBank  = "Issuing Bank"
	ColumnCoWebsite    = "Co Website"
	ColumnProcessingCo = "Processing Co"
)

// RequiredColumns lists every header the loader expects
var RequiredColumns = []string{
	ColumnCustomerID,
	ColumnTimestamp,
	ColumnAmount,
	ColumnApproved,
	ColumnIssuingBank,
	ColumnCoWebsite,
	ColumnProcessingCo,
}

// OtherBank is the category assigned to attempts without an issuing bank
const OtherBank = "Other"

// RawTransaction is one deposit attempt exactly as read from the sheet
type RawTransaction struct {
	Row              int                 `json:"row"`
	CustomerID       Optional[string]    `json:"customer_id"`
	AttemptTimestamp Optional[time.Time] `json:"attempt_timestamp"`
	AmountText       Optional[string]    `json:"amount_text"`
	Approved         Optional[int]       `json:"approved"`
	IssuingBank      Optional[string]    `json:"issuing_bank"`
	CoWebsite        Optional[string]    `json:"co_website"`
	ProcessingCo     Optional[string]    `json:"processing_co"`
}

// Transaction is a cleaned deposit attempt
type Transaction struct {
	Row              int
	CustomerID       Optional[string]
	AttemptTimestamp Optional[time.Time]
	Amount           Optional[decimal.Decimal]
	Approved         Optional[int]
	IssuingBank      string
	CoWebsite        Optional[string]
	ProcessingCo     Optional[string]
}

// AmountFloat returns the amount as float64
func (t Transaction) AmountFloat() (float64, bool) {
	if !t.Amount.Valid {
		return 0, false
	}
	return t.Amount.Value.InexactFloat64(), true
}

// Quarter returns the calendar quarter of the attempt
func (t Transaction) Quarter() (Quarter, bool) {
	ts, ok := t.AttemptTimestamp.Get()
	if !ok {
		return Quarter{}, false
	}
	return QuarterOf(ts), true
}

// IsApproved reports whether the attempt is known to be approved.
// An absent flag is not approved.
func (t Transaction) IsApproved() bool {
	return t.Approved.Valid && t.Approved.Value == 1
}

// InMonth reports whether the attempt happened in the given month of year.
// Attempts without a timestamp are never in any month.
func (t Transaction) InMonth(month time.Month, year int) bool {
	ts, ok := t.AttemptTimestamp.Get()
	return ok && ts.Month() == month && ts.Year() == year
}

// InYear reports whether the attempt happened in the given year
func (t Transaction) InYear(year int) bool {
	ts, ok := t.AttemptTimestamp.Get()
	return ok && ts.Year() == year
}
