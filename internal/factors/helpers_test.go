package factors

import (
	"time"

	"github.com/shopspring/decimal"

	"approvalcli/internal/dataprocessing"
	"approvalcli/pkg/contracts/domain"
)

var (
	q4y2020 = domain.Quarter{Year: 2020, Q: 4}
	q3y2021 = domain.Quarter{Year: 2021, Q: 3}
)

func deposit(ts, website, processor, bank, amount string, approved int) domain.Transaction {
	at, err := time.Parse("2006-01-02", ts)
	if err != nil {
		panic(err)
	}
	return domain.Transaction{
		CustomerID:       domain.Some("c"),
		AttemptTimestamp: domain.Some(at),
		Amount:           domain.Some(decimal.RequireFromString(amount)),
		Approved:         domain.Some(approved),
		IssuingBank:      bank,
		CoWebsite:        domain.Some(website),
		ProcessingCo:     domain.Some(processor),
	}
}

// fixtureTable holds six usable attempts across 2020Q4 and 2021Q3, one attempt
// in another quarter, one without a timestamp and one missing its processor
func fixtureTable() *dataprocessing.Table {
	noProcessor := deposit("2021-09-01", "site-a", "proc-1", "Bank A", "50", 1)
	noProcessor.ProcessingCo = domain.None[string]()
	noTimestamp := deposit("2021-09-01", "site-a", "proc-1", "Bank A", "50", 1)
	noTimestamp.AttemptTimestamp = domain.None[time.Time]()

	return dataprocessing.NewTable([]domain.Transaction{
		deposit("2020-11-02", "site-a", "proc-1", "Bank A", "50", 1),
		deposit("2020-11-03", "site-a", "proc-2", "Bank B", "50", 0),
		deposit("2020-12-04", "site-b", "proc-1", "Bank A", "100", 1),
		deposit("2021-01-15", "site-c", "proc-3", "Bank C", "10", 1),
		deposit("2021-07-05", "site-a", "proc-1", "Bank A", "100", 0),
		deposit("2021-08-06", "site-b", "proc-2", domain.OtherBank, "75", 0),
		deposit("2021-09-07", "site-b", "proc-1", "Bank B", "50.00", 1),
		noProcessor,
		noTimestamp,
	})
}
