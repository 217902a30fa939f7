package dataprocessing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	apperrors "approvalcli/internal/errors"
	"approvalcli/pkg/contracts/domain"
)

// MonthFilter selects the attempts of one calendar month
type MonthFilter struct {
	Month time.Month
	Year  int
}

// Matches reports whether tx happened in the filter's month
func (f MonthFilter) Matches(tx domain.Transaction) bool {
	return tx.InMonth(f.Month, f.Year)
}

// BankQuery parameterizes the top-bank approval question.
// Low is inclusive and High exclusive.
type BankQuery struct {
	Low  decimal.Decimal
	High decimal.Decimal
	Year int
	TopN int
}

type rateCounter struct {
	approved  int
	countable int
}

func (c *rateCounter) add(tx domain.Transaction) {
	if v, ok := tx.Approved.Get(); ok {
		c.countable++
		c.approved += v
	}
}

func (c rateCounter) rate() float64 {
	return float64(c.approved) / float64(c.countable)
}

// QuarterlyApprovalRates returns the approval rate of every quarter present in
// the table, in chronological order. Attempts without a timestamp are ignored
// and attempts without an approval flag are not counted.
func QuarterlyApprovalRates(t *Table) ([]domain.QuarterRate, error) {
	seen := make(map[domain.Quarter]bool)
	for _, tx := range t.All() {
		if q, ok := tx.Quarter(); ok {
			seen[q] = true
		}
	}
	if len(seen) == 0 {
		return nil, apperrors.NewEmptyResultError("quarterly approval rates")
	}

	quarters := make([]domain.Quarter, 0, len(seen))
	for q := range seen {
		quarters = append(quarters, q)
	}
	sort.Slice(quarters, func(i, j int) bool {
		return quarters[i].Before(quarters[j])
	})

	rates := make([]domain.QuarterRate, 0, len(quarters))
	for _, q := range quarters {
		rate, err := ApprovalRateForQuarter(t, q)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

// ApprovalRateForQuarter returns the approval rate of a single quarter
func ApprovalRateForQuarter(t *Table, q domain.Quarter) (domain.QuarterRate, error) {
	var c rateCounter
	for _, tx := range t.All() {
		if got, ok := tx.Quarter(); ok && got == q {
			c.add(tx)
		}
	}
	if c.countable == 0 {
		return domain.QuarterRate{}, apperrors.NewEmptyResultError("approval rate for " + q.String()).
			WithContext("quarter", q.String())
	}
	return domain.QuarterRate{
		Quarter:  q,
		Approved: c.approved,
		Attempts: c.countable,
		Rate:     c.rate(),
	}, nil
}

// CountCustomers counts the distinct customers and the attempts made in the
// given month for exactly amount. Attempts without a customer id count as
// attempts only.
func CountCustomers(t *Table, month MonthFilter, amount decimal.Decimal) domain.CustomerCount {
	result := domain.CustomerCount{
		Month:  month.Month,
		Year:   month.Year,
		Amount: amount,
	}

	customers := make(map[string]struct{})
	for _, tx := range t.All() {
		if !month.Matches(tx) {
			continue
		}
		a, ok := tx.Amount.Get()
		if !ok || !a.Equal(amount) {
			continue
		}
		result.TotalAttempts++
		if id, ok := tx.CustomerID.Get(); ok {
			customers[id] = struct{}{}
		}
	}
	result.DistinctCustomers = len(customers)
	return result
}

// ApprovedAmount sums the amounts of the approved attempts of the month
func ApprovedAmount(t *Table, month MonthFilter) domain.ApprovedSum {
	result := domain.ApprovedSum{
		Month: month.Month,
		Year:  month.Year,
		Total: decimal.Zero,
	}
	for _, tx := range t.All() {
		if !month.Matches(tx) || !tx.IsApproved() {
			continue
		}
		a, ok := tx.Amount.Get()
		if !ok {
			continue
		}
		result.Total = result.Total.Add(a)
		result.Attempts++
	}
	return result
}

// TopBankApproval ranks issuing banks by attempt count within the amount range
// and year, keeps the first TopN and returns the one with the highest approval
// rate. Equal counts keep first-encounter order and equal rates favour the
// higher ranked bank.
func TopBankApproval(t *Table, q BankQuery) (domain.BankRanking, error) {
	ranking := domain.BankRanking{
		Low:  q.Low,
		High: q.High,
		Year: q.Year,
		TopN: q.TopN,
	}

	type bankCount struct {
		bank     string
		attempts int
		counter  rateCounter
	}

	var order []*bankCount
	byBank := make(map[string]*bankCount)
	for _, tx := range t.All() {
		if !tx.InYear(q.Year) {
			continue
		}
		a, ok := tx.Amount.Get()
		if !ok || a.LessThan(q.Low) || !a.LessThan(q.High) {
			continue
		}
		bc, exists := byBank[tx.IssuingBank]
		if !exists {
			bc = &bankCount{bank: tx.IssuingBank}
			byBank[tx.IssuingBank] = bc
			order = append(order, bc)
		}
		bc.attempts++
		bc.counter.add(tx)
	}

	if len(order) == 0 {
		return ranking, apperrors.NewEmptyResultError("top bank approval")
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].attempts > order[j].attempts
	})
	if q.TopN > 0 && len(order) > q.TopN {
		order = order[:q.TopN]
	}

	found := false
	for _, bc := range order {
		br := domain.BankRate{
			Bank:     bc.bank,
			Attempts: bc.attempts,
			Approved: bc.counter.approved,
		}
		if bc.counter.countable > 0 {
			br.Rate = bc.counter.rate()
			if !found || br.Rate > ranking.Best.Rate {
				ranking.Best = br
				found = true
			}
		}
		ranking.Banks = append(ranking.Banks, br)
	}

	if !found {
		return ranking, apperrors.NewEmptyResultError("top bank approval")
	}
	return ranking, nil
}
