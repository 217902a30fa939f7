package factors

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"approvalcli/internal/dataprocessing"
	apperrors "approvalcli/internal/errors"
	"approvalcli/pkg/contracts/domain"
)

// Encoder builds the feature matrix comparing two quarters
type Encoder struct {
	logger *slog.Logger
}

// NewEncoder creates an encoder logging through logger
func NewEncoder(logger *slog.Logger) *Encoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Encoder{logger: logger}
}

type encodedRow struct {
	flag    float64
	levels  []string
	outcome float64
}

// Encode restricts the table to the two quarters, frequency encodes the
// categorical columns and the amount, and adds a period interaction per
// encoded column. Rows missing the approval flag, the amount or an encoded
// category are excluded.
func (e *Encoder) Encode(ctx context.Context, t *dataprocessing.Table, periods PeriodPair) (*FeatureMatrix, error) {
	if err := periods.Validate(); err != nil {
		return nil, err
	}

	var rows []encodedRow
	inPeriods, excluded := 0, 0
	for _, tx := range t.All() {
		q, ok := tx.Quarter()
		if !ok {
			continue
		}
		flag, ok := periods.Flag(q)
		if !ok {
			continue
		}
		inPeriods++

		row, ok := encodeRow(tx, flag)
		if !ok {
			excluded++
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, apperrors.NewEmptyResultError("feature encoding for " + periods.String()).
			WithContext("periods", periods.String())
	}

	if excluded > 0 {
		e.logger.WarnContext(ctx, "rows with missing values excluded from factor analysis",
			slog.Int("excluded", excluded),
			slog.Int("in_periods", inPeriods))
	}

	frequencies := make(map[string]FrequencyMap, len(EncodedColumns))
	for j, col := range EncodedColumns {
		values := make([]string, len(rows))
		for i, r := range rows {
			values[i] = r.levels[j]
		}
		frequencies[col] = NewFrequencyMap(values)
		e.logger.DebugContext(ctx, "frequency map built",
			slog.String("column", col),
			slog.Int("levels", len(frequencies[col])),
			slog.Float64("total", frequencies[col].Sum()))
	}

	n := len(rows)
	flags := make([]float64, n)
	outcome := make([]float64, n)
	encoded := make([][]float64, len(EncodedColumns))
	interactions := make([][]float64, len(EncodedColumns))
	for j := range EncodedColumns {
		encoded[j] = make([]float64, n)
		interactions[j] = make([]float64, n)
	}

	for i, r := range rows {
		flags[i] = r.flag
		outcome[i] = r.outcome
		for j, col := range EncodedColumns {
			v := frequencies[col].Encode(r.levels[j])
			encoded[j][i] = v
			interactions[j][i] = r.flag * v
		}
	}

	columns := make([]series.Series, 0, 1+2*len(EncodedColumns))
	columns = append(columns, series.New(flags, series.Float, ColumnPeriod))
	for j, col := range EncodedColumns {
		columns = append(columns, series.New(encoded[j], series.Float, col))
	}
	for j, col := range EncodedColumns {
		columns = append(columns, series.New(interactions[j], series.Float, InteractionPrefix+col))
	}

	frame := dataframe.New(columns...)
	if frame.Err != nil {
		return nil, fmt.Errorf("build feature frame: %w", frame.Err)
	}

	e.logger.InfoContext(ctx, "encoded factor features",
		slog.String("periods", periods.String()),
		slog.Int("samples", n),
		slog.Int("features", frame.Ncol()))

	return &FeatureMatrix{
		Frame:       frame,
		Outcome:     outcome,
		Frequencies: frequencies,
		Periods:     periods,
		Excluded:    excluded,
	}, nil
}

// encodeRow extracts the levels of the encoded columns in EncodedColumns order
func encodeRow(tx domain.Transaction, flag float64) (encodedRow, bool) {
	approved, ok := tx.Approved.Get()
	if !ok {
		return encodedRow{}, false
	}
	amount, ok := tx.Amount.Get()
	if !ok {
		return encodedRow{}, false
	}
	website, ok := tx.CoWebsite.Get()
	if !ok {
		return encodedRow{}, false
	}
	processor, ok := tx.ProcessingCo.Get()
	if !ok {
		return encodedRow{}, false
	}

	return encodedRow{
		flag:    flag,
		levels:  []string{website, processor, tx.IssuingBank, amount.String()},
		outcome: float64(approved),
	}, true
}
