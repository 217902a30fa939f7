package exporter

import (
	"time"

	"github.com/shopspring/decimal"

	"approvalcli/pkg/contracts/domain"
)

func sampleReport() *domain.AnalysisReport {
	q4 := domain.Quarter{Year: 2020, Q: 4}
	q3 := domain.Quarter{Year: 2021, Q: 3}
	bankA := domain.BankRate{Bank: "Bank A", Attempts: 12, Approved: 6, Rate: 0.5}
	bankB := domain.BankRate{Bank: "Bank B", Attempts: 10, Approved: 9, Rate: 0.9}

	return &domain.AnalysisReport{
		RunID:       "run-1",
		Source:      "deposits.xlsx",
		GeneratedAt: time.Date(2021, time.October, 5, 12, 0, 0, 0, time.UTC),
		Clean: domain.CleanSummary{
			Rows:          40,
			MissingBefore: map[string]int{domain.ColumnIssuingBank: 3},
			MissingAfter:  map[string]int{domain.ColumnIssuingBank: 0},
		},
		QuarterlyRates: []domain.QuarterRate{
			{Quarter: q4, Approved: 18, Attempts: 20, Rate: 0.9},
			{Quarter: q3, Approved: 10, Attempts: 20, Rate: 0.5},
		},
		Customers: &domain.CustomerCount{
			Month:             time.September,
			Year:              2021,
			Amount:            decimal.NewFromInt(50),
			DistinctCustomers: 3,
			TotalAttempts:     5,
		},
		ApprovedAmount: &domain.ApprovedSum{
			Month:    time.September,
			Year:     2021,
			Total:    decimal.RequireFromString("1149.99"),
			Attempts: 2,
		},
		TopBanks: &domain.BankRanking{
			Low:   decimal.NewFromInt(150),
			High:  decimal.NewFromInt(1000),
			Year:  2021,
			TopN:  10,
			Banks: []domain.BankRate{bankA, bankB},
			Best:  bankB,
		},
		Factors: &domain.FactorAnalysis{
			Earlier: q4,
			Later:   q3,
			Samples: 40,
			Scores: []domain.FeatureScore{
				{Feature: "Period", FStatistic: 2, PValue: 0.2, FScore: 0.5, MutualInfo: 0.1, MIScore: 1},
				{Feature: "Amount", FStatistic: 4, PValue: 0.05, FScore: 1, MutualInfo: 0.05, MIScore: 0.5},
			},
			Model: domain.ModelSummary{
				Accuracy:     0.75,
				Intercept:    0.1,
				Coefficients: []domain.Coefficient{{Feature: "Period", Value: -0.8}, {Feature: "Amount", Value: 0.3}},
				Iterations:   6,
				Converged:    true,
				Samples:      40,
			},
		},
	}
}
