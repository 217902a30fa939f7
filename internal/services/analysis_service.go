package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"approvalcli/internal/config"
	"approvalcli/internal/dataprocessing"
	apperrors "approvalcli/internal/errors"
	"approvalcli/internal/factors"
	"approvalcli/internal/files"
	"approvalcli/internal/infrastructure"
	"approvalcli/pkg/contracts/domain"
)

// Pipeline stage names, used for spans, metrics and logs
const (
	StageLoad    = "load"
	StageClean   = "clean"
	StageQueries = "queries"
	StageEncode  = "encode"
	StageScore   = "score"
	StageFit     = "fit"
)

// AnalysisService runs the whole analysis for one workbook
type AnalysisService struct {
	cfg       config.AnalysisConfig
	sheet     string
	periods   factors.PeriodPair
	telemetry *infrastructure.OTelProviders
	metrics   *infrastructure.PipelineMetrics
	logger    *slog.Logger

	parser  *dataprocessing.Parser
	cleaner *dataprocessing.Cleaner
	encoder *factors.Encoder
	scorer  *factors.Scorer
	model   *factors.LogisticModel

	now func() time.Time
}

// NewAnalysisService creates the service. Telemetry and metrics may be nil.
// A nil config uses config.Default().
func NewAnalysisService(cfg *config.Config, telemetry *infrastructure.OTelProviders, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) (*AnalysisService, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	logger = infrastructure.WithComponent(logger, "analysis_service")

	earlier, later, err := cfg.Analysis.Periods()
	if err != nil {
		return nil, apperrors.NewConfigError("invalid analysis periods", err)
	}
	periods := factors.PeriodPair{Earlier: earlier, Later: later}
	if err := periods.Validate(); err != nil {
		return nil, err
	}

	a := cfg.Analysis
	return &AnalysisService{
		cfg:       a,
		sheet:     cfg.Input.Sheet,
		periods:   periods,
		telemetry: telemetry,
		metrics:   metrics,
		logger:    logger,
		parser:    dataprocessing.NewParser(logger),
		cleaner:   dataprocessing.NewCleaner(logger),
		encoder:   factors.NewEncoder(logger),
		scorer:    factors.NewScorer(logger, factors.ScorerConfig{Neighbors: a.Neighbors, Seed: a.Seed}),
		model: factors.NewLogisticModel(logger, factors.ModelConfig{
			C:             a.Regularization,
			MaxIterations: a.MaxIterations,
			Tolerance:     a.Tolerance,
			Seed:          a.Seed,
		}),
		now: time.Now,
	}, nil
}

// Run analyzes the workbook at path, or the newest workbook when path is a
// directory. Empty query results are recorded in
// the report's QueryErrors; any other error aborts the run and is returned.
func (s *AnalysisService) Run(ctx context.Context, path string) (*domain.AnalysisReport, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	report := &domain.AnalysisReport{
		RunID:       infrastructure.GetTraceID(ctx),
		Source:      path,
		GeneratedAt: s.now(),
		QueryErrors: make(map[string]string),
	}

	s.logger.InfoContext(ctx, "analysis started",
		slog.String("source", path),
		slog.String("periods", s.periods.String()))
	start := time.Now()

	var raw []domain.RawTransaction
	err := s.stage(ctx, StageLoad, func(ctx context.Context) (int, error) {
		workbook, err := files.ResolveInput(path)
		if err != nil {
			return 0, err
		}
		report.Source = workbook
		raw, err = s.parser.ParseFile(ctx, workbook, s.sheet)
		return len(raw), err
	})
	if err != nil {
		return nil, err
	}

	var table *dataprocessing.Table
	err = s.stage(ctx, StageClean, func(ctx context.Context) (int, error) {
		var err error
		table, report.Clean, err = s.cleaner.Clean(ctx, raw)
		return table.Len(), err
	})
	if err != nil {
		return nil, err
	}

	err = s.stage(ctx, StageQueries, func(ctx context.Context) (int, error) {
		return table.Len(), s.runQueries(ctx, table, report)
	})
	if err != nil {
		return nil, err
	}

	if err := s.runFactors(ctx, table, report); err != nil {
		return nil, err
	}

	if len(report.QueryErrors) == 0 {
		report.QueryErrors = nil
	}
	s.logger.InfoContext(ctx, "analysis complete",
		slog.Int("rows", report.Clean.Rows),
		slog.Int("failed_queries", len(report.QueryErrors)),
		slog.Duration("duration", time.Since(start)))
	return report, nil
}

// runQueries answers the four independent business questions
func (s *AnalysisService) runQueries(ctx context.Context, table *dataprocessing.Table, report *domain.AnalysisReport) error {
	rates, err := dataprocessing.QuarterlyApprovalRates(table)
	if err != nil {
		if err := s.recordQueryError(ctx, report, domain.QueryQuarterlyRates, err); err != nil {
			return err
		}
	} else {
		report.QuarterlyRates = rates
	}

	month := dataprocessing.MonthFilter{Month: time.Month(s.cfg.CustomerMonth), Year: s.cfg.CustomerYear}
	customers := dataprocessing.CountCustomers(table, month, decimal.NewFromFloat(s.cfg.CustomerAmount))
	report.Customers = &customers

	approved := dataprocessing.ApprovedAmount(table, month)
	report.ApprovedAmount = &approved

	ranking, err := dataprocessing.TopBankApproval(table, dataprocessing.BankQuery{
		Low:  decimal.NewFromFloat(s.cfg.BankLow),
		High: decimal.NewFromFloat(s.cfg.BankHigh),
		Year: s.cfg.BankYear,
		TopN: s.cfg.TopBanks,
	})
	if err != nil {
		if err := s.recordQueryError(ctx, report, domain.QueryTopBanks, err); err != nil {
			return err
		}
	} else {
		report.TopBanks = &ranking
	}
	return nil
}

// runFactors encodes the two periods, scores every feature and fits the
// explanatory model. Too few rows in the two periods only fails the factor query.
func (s *AnalysisService) runFactors(ctx context.Context, table *dataprocessing.Table, report *domain.AnalysisReport) error {
	var fm *factors.FeatureMatrix
	err := s.stage(ctx, StageEncode, func(ctx context.Context) (int, error) {
		var err error
		fm, err = s.encoder.Encode(ctx, table, s.periods)
		if err != nil {
			return 0, err
		}
		if fm.Excluded > 0 {
			infrastructure.AddSpanEvent(ctx, "rows excluded", map[string]interface{}{
				"excluded": fm.Excluded,
			})
		}
		return fm.Rows(), nil
	})
	if err != nil {
		return s.recordQueryError(ctx, report, domain.QueryFactors, err)
	}
	analysis := &domain.FactorAnalysis{
		Earlier:  s.periods.Earlier,
		Later:    s.periods.Later,
		Samples:  fm.Rows(),
		Excluded: fm.Excluded,
	}

	err = s.stage(ctx, StageScore, func(ctx context.Context) (int, error) {
		var err error
		analysis.Scores, err = s.scorer.Score(ctx, fm)
		return fm.Rows(), err
	})
	if err != nil {
		return s.recordQueryError(ctx, report, domain.QueryFactors, err)
	}

	err = s.stage(ctx, StageFit, func(ctx context.Context) (int, error) {
		var err error
		analysis.Model, err = s.model.Fit(ctx, fm)
		return analysis.Model.Samples, err
	})
	if err != nil {
		return err
	}

	report.Factors = analysis
	return nil
}

// stage runs fn inside a span and records its duration and row count
func (s *AnalysisService) stage(ctx context.Context, name string, fn func(context.Context) (int, error)) error {
	ctx, span := s.telemetry.StartStage(ctx, name)
	defer span.End()

	start := time.Now()
	rows, err := fn(ctx)
	duration := time.Since(start)
	infrastructure.RecordStage(ctx, s.metrics, name, duration, rows, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
			"error_type": string(apperrors.TypeOf(err)),
		})
		s.logger.DebugContext(ctx, "stage failed",
			slog.String("stage", name),
			slog.String("span_trace_id", infrastructure.TraceIDFromContext(ctx)),
			slog.String("error", err.Error()))
		return err
	}

	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{"rows": rows})
	s.logger.InfoContext(ctx, "stage complete",
		slog.String("stage", name),
		slog.String("span_trace_id", infrastructure.TraceIDFromContext(ctx)),
		slog.Int("rows", rows),
		slog.Duration("duration", duration))
	return nil
}

// recordQueryError keeps the run going for empty results and passes every
// other error through
func (s *AnalysisService) recordQueryError(ctx context.Context, report *domain.AnalysisReport, query string, err error) error {
	if apperrors.Fatal(err) {
		return err
	}
	report.QueryErrors[query] = err.Error()
	infrastructure.RecordQueryFailure(ctx, s.metrics, query, string(apperrors.TypeOf(err)))
	infrastructure.AddSpanEvent(ctx, "query failed", map[string]interface{}{
		"query":      query,
		"error_type": string(apperrors.TypeOf(err)),
	})
	infrastructure.WithError(s.logger, err).WarnContext(ctx, "query produced no result",
		slog.String("query", query))
	return nil
}
