package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuarterRate is the approval rate of one quarter
type QuarterRate struct {
	Quarter  Quarter `json:"quarter"`
	Approved int     `json:"approved"`
	Attempts int     `json:"attempts"`
	Rate     float64 `json:"rate"`
}

// CustomerCount answers how many customers attempted a given deposit
type CustomerCount struct {
	Month             time.Month      `json:"month"`
	Year              int             `json:"year"`
	Amount            decimal.Decimal `json:"amount"`
	DistinctCustomers int             `json:"distinct_customers"`
	TotalAttempts     int             `json:"total_attempts"`
}

// ApprovedSum is the approved deposit total for a month
type ApprovedSum struct {
	Month    time.Month      `json:"month"`
	Year     int             `json:"year"`
	Total    decimal.Decimal `json:"total"`
	Attempts int             `json:"attempts"`
}

// BankRate is one issuing bank's attempt count and approval rate within a ranking
type BankRate struct {
	Bank     string  `json:"bank"`
	Attempts int     `json:"attempts"`
	Approved int     `json:"approved"`
	Rate     float64 `json:"rate"`
}

// BankRanking is the answer to the top-bank approval question
type BankRanking struct {
	Low   decimal.Decimal `json:"low"`
	High  decimal.Decimal `json:"high"`
	Year  int             `json:"year"`
	TopN  int             `json:"top_n"`
	Banks []BankRate      `json:"banks"` // descending attempt count, stable
	Best  BankRate        `json:"best"`
}

// FeatureScore holds the univariate importance scores of one feature
type FeatureScore struct {
	Feature    string  `json:"feature"`
	FStatistic float64 `json:"f_statistic"`
	PValue     float64 `json:"p_value"`
	FScore     float64 `json:"f_score"` // normalized by the maximum F statistic
	MutualInfo float64 `json:"mutual_info"`
	MIScore    float64 `json:"mi_score"` // normalized by the maximum mutual information
}

// Coefficient is a fitted logistic regression weight
type Coefficient struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// ModelSummary is the outcome of the explanatory logistic regression
type ModelSummary struct {
	Accuracy     float64       `json:"accuracy"`
	Intercept    float64       `json:"intercept"`
	Coefficients []Coefficient `json:"coefficients"`
	Iterations   int           `json:"iterations"`
	Converged    bool          `json:"converged"`
	Samples      int           `json:"samples"`
}

// FactorAnalysis groups the causal-factor results for a pair of quarters
type FactorAnalysis struct {
	Earlier  Quarter        `json:"earlier"`
	Later    Quarter        `json:"later"`
	Samples  int            `json:"samples"`
	Excluded int            `json:"excluded"`
	Scores   []FeatureScore `json:"scores"`
	Model    ModelSummary   `json:"model"`
}

// CleanSummary reports missing values per column before and after cleaning
type CleanSummary struct {
	Rows          int            `json:"rows"`
	MissingBefore map[string]int `json:"missing_before"`
	MissingAfter  map[string]int `json:"missing_after"`
}

// AnalysisReport is everything a run produces.
// Failed independent queries leave their result nil and record the error.
type AnalysisReport struct {
	RunID          string            `json:"run_id"`
	Source         string            `json:"source"`
	GeneratedAt    time.Time         `json:"generated_at"`
	Clean          CleanSummary      `json:"clean"`
	QuarterlyRates []QuarterRate     `json:"quarterly_rates,omitempty"`
	Customers      *CustomerCount    `json:"customers,omitempty"`
	ApprovedAmount *ApprovedSum      `json:"approved_amount,omitempty"`
	TopBanks       *BankRanking      `json:"top_banks,omitempty"`
	Factors        *FactorAnalysis   `json:"factors,omitempty"`
	QueryErrors    map[string]string `json:"query_errors,omitempty"`
}

// Query names used as keys of AnalysisReport.QueryErrors
const (
	QueryQuarterlyRates = "quarterly_rates"
	QueryCustomers      = "customers"
	QueryApprovedAmount = "approved_amount"
	QueryTopBanks       = "top_banks"
	QueryFactors        = "factors"
)
