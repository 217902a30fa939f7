package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "approvalcli/internal/errors"
	"approvalcli/pkg/contracts/domain"
)

var amountReplacer = strings.NewReplacer("$", "", ",", "")

// CleanAmount strips currency symbols and thousands separators and parses the rest
func CleanAmount(text string) (decimal.Decimal, error) {
	stripped := strings.TrimSpace(amountReplacer.Replace(text))
	if stripped == "" {
		return decimal.Decimal{}, fmt.Errorf("amount %q has no digits", text)
	}
	d, err := decimal.NewFromString(stripped)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount %q is not numeric: %w", text, err)
	}
	return d, nil
}

// Cleaner turns raw sheet rows into an immutable table of transactions
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner logging through logger
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Clean fills absent issuing banks with "Other" and parses amounts.
// No other column is imputed. A non-numeric amount aborts cleaning.
func (c *Cleaner) Clean(ctx context.Context, raw []domain.RawTransaction) (*Table, domain.CleanSummary, error) {
	summary := domain.CleanSummary{
		Rows:          len(raw),
		MissingBefore: countMissingRaw(raw),
	}

	rows := make([]domain.Transaction, 0, len(raw))
	for _, r := range raw {
		tx := domain.Transaction{
			Row:              r.Row,
			CustomerID:       r.CustomerID,
			AttemptTimestamp: r.AttemptTimestamp,
			Approved:         r.Approved,
			IssuingBank:      r.IssuingBank.OrElse(domain.OtherBank),
			CoWebsite:        r.CoWebsite,
			ProcessingCo:     r.ProcessingCo,
		}

		if text, ok := r.AmountText.Get(); ok {
			amount, err := CleanAmount(text)
			if err != nil {
				return nil, summary, apperrors.NewMalformedDataError(
					fmt.Sprintf("%s on row %d", domain.ColumnAmount, r.Row), err).
					WithContext("row", r.Row).
					WithContext("value", text)
			}
			tx.Amount = domain.Some(amount)
		}

		rows = append(rows, tx)
	}

	table := NewTable(rows)
	summary.MissingAfter = countMissing(table)

	c.logger.InfoContext(ctx, "cleaned deposit attempts",
		slog.Int("rows", summary.Rows),
		slog.Int("banks_filled", summary.MissingBefore[domain.ColumnIssuingBank]),
		slog.Any("missing_after", summary.MissingAfter))

	return table, summary, nil
}

func countMissingRaw(raw []domain.RawTransaction) map[string]int {
	missing := newMissingCounts()
	for _, r := range raw {
		addMissing(missing, domain.ColumnCustomerID, r.CustomerID.Valid)
		addMissing(missing, domain.ColumnTimestamp, r.AttemptTimestamp.Valid)
		addMissing(missing, domain.ColumnAmount, r.AmountText.Valid)
		addMissing(missing, domain.ColumnApproved, r.Approved.Valid)
		addMissing(missing, domain.ColumnIssuingBank, r.IssuingBank.Valid)
		addMissing(missing, domain.ColumnCoWebsite, r.CoWebsite.Valid)
		addMissing(missing, domain.ColumnProcessingCo, r.ProcessingCo.Valid)
	}
	return missing
}

func countMissing(t *Table) map[string]int {
	missing := newMissingCounts()
	for _, tx := range t.All() {
		addMissing(missing, domain.ColumnCustomerID, tx.CustomerID.Valid)
		addMissing(missing, domain.ColumnTimestamp, tx.AttemptTimestamp.Valid)
		addMissing(missing, domain.ColumnAmount, tx.Amount.Valid)
		addMissing(missing, domain.ColumnApproved, tx.Approved.Valid)
		addMissing(missing, domain.ColumnIssuingBank, tx.IssuingBank != "")
		addMissing(missing, domain.ColumnCoWebsite, tx.CoWebsite.Valid)
		addMissing(missing, domain.ColumnProcessingCo, tx.ProcessingCo.Valid)
	}
	return missing
}

func newMissingCounts() map[string]int {
	missing := make(map[string]int, len(domain.RequiredColumns))
	for _, col := range domain.RequiredColumns {
		missing[col] = 0
	}
	return missing
}

func addMissing(missing map[string]int, column string, present bool) {
	if !present {
		missing[column]++
	}
}
