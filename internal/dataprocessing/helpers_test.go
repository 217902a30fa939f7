package dataprocessing

import (
	"time"

	"github.com/shopspring/decimal"

	"approvalcli/pkg/contracts/domain"
)

// attempt builds a fully populated transaction
func attempt(customer, ts, amount, bank string, approved int) domain.Transaction {
	at, err := time.Parse("2006-01-02", ts)
	if err != nil {
		panic(err)
	}
	return domain.Transaction{
		CustomerID:       domain.Some(customer),
		AttemptTimestamp: domain.Some(at),
		Amount:           domain.Some(decimal.RequireFromString(amount)),
		Approved:         domain.Some(approved),
		IssuingBank:      bank,
		CoWebsite:        domain.Some("site"),
		ProcessingCo:     domain.Some("proc"),
	}
}

// repeatBank appends n attempts for bank of which approved are approved
func repeatBank(rows []domain.Transaction, bank string, n, approved int) []domain.Transaction {
	for i := 0; i < n; i++ {
		flag := 0
		if i < approved {
			flag = 1
		}
		rows = append(rows, attempt("c", "2021-05-10", "200", bank, flag))
	}
	return rows
}
