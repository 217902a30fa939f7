package factors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"approvalcli/internal/dataprocessing"
	apperrors "approvalcli/internal/errors"
	"approvalcli/internal/shared/testutil"
	"approvalcli/pkg/contracts/domain"
)

func TestEncoder_Encode(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	fm, err := NewEncoder(logger).Encode(context.Background(), fixtureTable(), PeriodPair{Earlier: q4y2020, Later: q3y2021})
	require.NoError(t, err)

	assert.Equal(t, FeatureColumns(), fm.Names())
	assert.Equal(t, []string{
		"Period", "Co Website", "Processing Co", "Issuing Bank", "Amount",
		"Period x Co Website", "Period x Processing Co", "Period x Issuing Bank", "Period x Amount",
	}, fm.Names())
	assert.Equal(t, 6, fm.Rows())
	assert.Equal(t, 1, fm.Excluded)
	assert.True(t, handler.ContainsAttr("excluded", int64(1)))

	assert.Equal(t, []float64{0, 0, 0, 1, 1, 1}, fm.Column(ColumnPeriod))
	assert.Equal(t, []float64{1, 0, 1, 0, 0, 1}, fm.Outcome)

	amount := fm.Column(domain.ColumnAmount)
	assert.InDelta(t, 0.5, amount[0], 1e-12)
	assert.InDelta(t, 2.0/6.0, amount[2], 1e-12)
	assert.InDelta(t, 1.0/6.0, amount[4], 1e-12)
	assert.InDelta(t, 0.5, amount[5], 1e-12, "50 and 50.00 are the same level")

	banks := fm.Column(domain.ColumnIssuingBank)
	assert.InDelta(t, 0.5, banks[0], 1e-12)
	assert.InDelta(t, 1.0/6.0, banks[4], 1e-12)

	period := fm.Column(ColumnPeriod)
	for _, col := range EncodedColumns {
		encoded := fm.Column(col)
		interaction := fm.Column(InteractionPrefix + col)
		for i := range encoded {
			assert.Equal(t, period[i]*encoded[i], interaction[i], "%s row %d", col, i)
		}
	}
}

func TestEncoder_FrequenciesSumToOne(t *testing.T) {
	fm, err := NewEncoder(nil).Encode(context.Background(), fixtureTable(), PeriodPair{Earlier: q4y2020, Later: q3y2021})
	require.NoError(t, err)

	require.Len(t, fm.Frequencies, len(EncodedColumns))
	for col, freq := range fm.Frequencies {
		assert.InDelta(t, 1.0, freq.Sum(), 1e-12, col)
	}
	assert.Equal(t, []string{"100", "50", "75"}, fm.Frequencies[domain.ColumnAmount].Levels())
	assert.InDelta(t, 4.0/6.0, fm.Frequencies[domain.ColumnProcessingCo].Encode("proc-1"), 1e-12)
	assert.Zero(t, fm.Frequencies[domain.ColumnProcessingCo].Encode("proc-3"))
}

func TestEncoder_Errors(t *testing.T) {
	tests := []struct {
		name     string
		table    *dataprocessing.Table
		periods  PeriodPair
		wantType apperrors.ErrorType
	}{
		{
			name:     "no rows in either quarter",
			table:    fixtureTable(),
			periods:  PeriodPair{Earlier: domain.Quarter{Year: 2019, Q: 1}, Later: domain.Quarter{Year: 2019, Q: 2}},
			wantType: apperrors.ErrTypeEmptyResult,
		},
		{
			name:     "empty table",
			table:    dataprocessing.NewTable(nil),
			periods:  PeriodPair{Earlier: q4y2020, Later: q3y2021},
			wantType: apperrors.ErrTypeEmptyResult,
		},
		{
			name:     "quarters out of order",
			table:    fixtureTable(),
			periods:  PeriodPair{Earlier: q3y2021, Later: q4y2020},
			wantType: apperrors.ErrTypeConfig,
		},
		{
			name:     "missing quarter",
			table:    fixtureTable(),
			periods:  PeriodPair{Later: q3y2021},
			wantType: apperrors.ErrTypeConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEncoder(nil).Encode(context.Background(), tt.table, tt.periods)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestNewFrequencyMap(t *testing.T) {
	freq := NewFrequencyMap([]string{"a", "b", "a", "c"})
	assert.Equal(t, FrequencyMap{"a": 0.5, "b": 0.25, "c": 0.25}, freq)
	assert.Equal(t, 1.0, freq.Sum())

	assert.Empty(t, NewFrequencyMap(nil))
}

func TestPeriodPair_Flag(t *testing.T) {
	pair := PeriodPair{Earlier: q4y2020, Later: q3y2021}

	flag, ok := pair.Flag(q3y2021)
	assert.True(t, ok)
	assert.Equal(t, 1.0, flag)

	flag, ok = pair.Flag(q4y2020)
	assert.True(t, ok)
	assert.Equal(t, 0.0, flag)

	_, ok = pair.Flag(domain.Quarter{Year: 2021, Q: 1})
	assert.False(t, ok)

	assert.Equal(t, "2020Q4 vs 2021Q3", pair.String())
}
