package exporter

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"approvalcli/pkg/contracts/domain"
)

// rate marks a 0..1 share so each output renders it its own way
type rate float64

// section is one tabular part of the report, shared by the console, CSV and
// workbook outputs. Cells hold string, int, bool, float64, rate or decimal.Decimal.
type section struct {
	name    string
	headers []string
	rows    [][]interface{}
}

// csvCell renders a cell for CSV output
func csvCell(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return formatInt(val)
	case bool:
		return formatBool(val)
	case rate:
		return strconv.FormatFloat(float64(val), 'f', 4, 64)
	case float64:
		return formatScore(val)
	case decimal.Decimal:
		return val.StringFixed(2)
	default:
		return fmt.Sprint(val)
	}
}

// consoleCell renders a cell for the terminal report
func consoleCell(v interface{}) string {
	switch val := v.(type) {
	case int:
		return formatCount(val)
	case rate:
		return formatPercent(float64(val))
	case decimal.Decimal:
		return formatMoney(val)
	default:
		return csvCell(v)
	}
}

// workbookCell converts a cell to a value excelize stores natively
func workbookCell(v interface{}) interface{} {
	switch val := v.(type) {
	case rate:
		return float64(val)
	case decimal.Decimal:
		return val.InexactFloat64()
	default:
		return v
	}
}

func monthLabel(month time.Month, year int) string {
	return fmt.Sprintf("%s %d", month, year)
}

func summarySection(r *domain.AnalysisReport) section {
	s := section{
		name:    "Summary",
		headers: []string{"Item", "Value"},
		rows: [][]interface{}{
			{"Run ID", r.RunID},
			{"Source", r.Source},
			{"Generated At", r.GeneratedAt.UTC().Format(time.RFC3339)},
			{"Rows", r.Clean.Rows},
		},
	}
	if r.Factors != nil {
		m := r.Factors.Model
		s.rows = append(s.rows,
			[]interface{}{"Periods", r.Factors.Earlier.String() + " vs " + r.Factors.Later.String()},
			[]interface{}{"Model Samples", m.Samples},
			[]interface{}{"Model Accuracy", rate(m.Accuracy)},
			[]interface{}{"Model Iterations", m.Iterations},
			[]interface{}{"Model Converged", m.Converged},
		)
	}
	for _, name := range sortedKeys(r.QueryErrors) {
		s.rows = append(s.rows, []interface{}{"Error: " + name, r.QueryErrors[name]})
	}
	return s
}

func cleaningSection(c domain.CleanSummary) section {
	s := section{
		name:    "Cleaning",
		headers: []string{"Column", "Missing Before", "Missing After"},
	}
	for _, col := range domain.RequiredColumns {
		s.rows = append(s.rows, []interface{}{col, c.MissingBefore[col], c.MissingAfter[col]})
	}
	return s
}

func quarterlySection(rates []domain.QuarterRate) section {
	s := section{
		name:    "Quarterly Rates",
		headers: []string{"Quarter", "Approved", "Attempts", "Approval Rate"},
	}
	for _, q := range rates {
		s.rows = append(s.rows, []interface{}{q.Quarter.String(), q.Approved, q.Attempts, rate(q.Rate)})
	}
	return s
}

func customersSection(c *domain.CustomerCount) section {
	return section{
		name:    "Customers",
		headers: []string{"Month", "Amount", "Distinct Customers", "Total Attempts"},
		rows: [][]interface{}{
			{monthLabel(c.Month, c.Year), c.Amount, c.DistinctCustomers, c.TotalAttempts},
		},
	}
}

func approvedSection(a *domain.ApprovedSum) section {
	return section{
		name:    "Approved Amount",
		headers: []string{"Month", "Approved Amount", "Approved Attempts"},
		rows: [][]interface{}{
			{monthLabel(a.Month, a.Year), a.Total, a.Attempts},
		},
	}
}

func banksSection(b *domain.BankRanking) section {
	s := section{
		name:    "Top Banks",
		headers: []string{"Rank", "Issuing Bank", "Attempts", "Approved", "Approval Rate", "Best"},
	}
	for i, br := range b.Banks {
		s.rows = append(s.rows, []interface{}{i + 1, br.Bank, br.Attempts, br.Approved, rate(br.Rate), br.Bank == b.Best.Bank})
	}
	return s
}

func scoresSection(scores []domain.FeatureScore) section {
	s := section{
		name:    "Factor Scores",
		headers: []string{"Feature", "F Statistic", "P Value", "F Score", "Mutual Info", "MI Score"},
	}
	for _, fs := range scores {
		s.rows = append(s.rows, []interface{}{fs.Feature, fs.FStatistic, fs.PValue, fs.FScore, fs.MutualInfo, fs.MIScore})
	}
	return s
}

func modelSection(m domain.ModelSummary) section {
	s := section{
		name:    "Model",
		headers: []string{"Feature", "Coefficient"},
		rows:    [][]interface{}{{"(intercept)", m.Intercept}},
	}
	for _, c := range m.Coefficients {
		s.rows = append(s.rows, []interface{}{c.Feature, c.Value})
	}
	return s
}

// reportSections returns every section the report has data for, in print order
func reportSections(r *domain.AnalysisReport) []section {
	sections := []section{summarySection(r), cleaningSection(r.Clean)}
	if len(r.QuarterlyRates) > 0 {
		sections = append(sections, quarterlySection(r.QuarterlyRates))
	}
	if r.Customers != nil {
		sections = append(sections, customersSection(r.Customers))
	}
	if r.ApprovedAmount != nil {
		sections = append(sections, approvedSection(r.ApprovedAmount))
	}
	if r.TopBanks != nil {
		sections = append(sections, banksSection(r.TopBanks))
	}
	if r.Factors != nil {
		sections = append(sections, scoresSection(r.Factors.Scores), modelSection(r.Factors.Model))
	}
	return sections
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
