package factors

import (
	"context"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mathext"

	apperrors "approvalcli/internal/errors"
)

func TestFRegression(t *testing.T) {
	f, p := FRegression([]float64{1, 2, 3, 4}, []float64{0, 0, 1, 1})
	assert.InDelta(t, 8.0, f, 1e-9)
	assert.InDelta(t, 1-2/math.Sqrt(5), p, 1e-6)

	f, p = FRegression([]float64{3, 3, 3, 3}, []float64{0, 1, 0, 1})
	assert.Zero(t, f)
	assert.Equal(t, 1.0, p)

	f, p = FRegression([]float64{0, 1, 0, 1}, []float64{0, 1, 0, 1})
	assert.True(t, math.IsInf(f, 1) || f > 1e12, "got %v", f)
	assert.InDelta(t, 0, p, 1e-9)
}

func TestMutualInfo(t *testing.T) {
	t.Run("separated classes", func(t *testing.T) {
		c := make([]float64, 100)
		d := make([]int, 100)
		for i := 0; i < 50; i++ {
			c[i] = float64(i)
			c[50+i] = 1000 + float64(i)
			d[50+i] = 1
		}
		mi := MutualInfo(c, d, 3)
		assert.InDelta(t, mathext.Digamma(100)-mathext.Digamma(50), mi, 1e-9)
	})

	t.Run("interleaved classes", func(t *testing.T) {
		c := make([]float64, 100)
		d := make([]int, 100)
		for i := range c {
			c[i] = float64(i)
			d[i] = i % 2
		}
		assert.Zero(t, MutualInfo(c, d, 3))
	})

	t.Run("neighbour at the radius is not counted", func(t *testing.T) {
		// offsets that are exact in binary but lose the radius nudge when
		// subtracted from the sample value
		c := make([]float64, 40)
		d := make([]int, 40)
		for i := 0; i < 20; i++ {
			c[i] = 1e6 + 0.5*float64(i)
			c[20+i] = 2e6 + 0.5*float64(i)
			d[20+i] = 1
		}
		mi := MutualInfo(c, d, 3)
		assert.InDelta(t, mathext.Digamma(40)-mathext.Digamma(20), mi, 1e-9)
	})

	t.Run("singleton class is ignored", func(t *testing.T) {
		c := []float64{0, 1, 2, 3, 100}
		d := []int{0, 0, 0, 0, 1}
		assert.InDelta(t, 0, MutualInfo(c, d, 3), 1e-12)
	})
}

func TestNormalizeByMax(t *testing.T) {
	assert.Equal(t, []float64{0.5, 1, 0}, normalizeByMax([]float64{2, 4, 0}))
	assert.Equal(t, []float64{0, 0}, normalizeByMax([]float64{0, 0}))
	assert.Equal(t, []float64{1, 0}, normalizeByMax([]float64{math.Inf(1), 7}))
}

func TestScorer_Score(t *testing.T) {
	ctx := context.Background()
	fm, err := NewEncoder(nil).Encode(ctx, fixtureTable(), PeriodPair{Earlier: q4y2020, Later: q3y2021})
	require.NoError(t, err)

	scorer := NewScorer(nil, ScorerConfig{Seed: 42})
	scores, err := scorer.Score(ctx, fm)
	require.NoError(t, err)
	require.Len(t, scores, len(FeatureColumns()))

	var topF, topMI float64
	for i, s := range scores {
		assert.Equal(t, FeatureColumns()[i], s.Feature)
		assert.GreaterOrEqual(t, s.FScore, 0.0)
		assert.LessOrEqual(t, s.FScore, 1.0)
		assert.GreaterOrEqual(t, s.MIScore, 0.0)
		assert.LessOrEqual(t, s.MIScore, 1.0)
		assert.GreaterOrEqual(t, s.PValue, 0.0)
		assert.LessOrEqual(t, s.PValue, 1.0)
		topF = math.Max(topF, s.FScore)
		topMI = math.Max(topMI, s.MIScore)
	}
	assert.Equal(t, 1.0, topF)
	if topMI != 0 {
		assert.Equal(t, 1.0, topMI)
	}

	again, err := NewScorer(nil, ScorerConfig{Seed: 42}).Score(ctx, fm)
	require.NoError(t, err)
	assert.Equal(t, scores, again, "same seed gives identical scores")

	reencoded, err := NewEncoder(nil).Encode(ctx, fixtureTable(), PeriodPair{Earlier: q4y2020, Later: q3y2021})
	require.NoError(t, err)
	fromScratch, err := NewScorer(nil, ScorerConfig{Seed: 42}).Score(ctx, reencoded)
	require.NoError(t, err)
	assert.Equal(t, scores, fromScratch)
}

func TestScorer_Errors(t *testing.T) {
	small := &FeatureMatrix{
		Frame: dataframe.New(
			series.New([]float64{0, 1}, series.Float, ColumnPeriod),
		),
		Outcome: []float64{0, 1},
	}
	_, err := NewScorer(nil, ScorerConfig{}).Score(context.Background(), small)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeEmptyResult), "too few samples only fails the factor query")
	assert.False(t, apperrors.Fatal(err))

	nonFinite := &FeatureMatrix{
		Frame: dataframe.New(
			series.New([]float64{0, 1, math.NaN(), 1}, series.Float, ColumnPeriod),
		),
		Outcome: []float64{0, 1, 0, 1},
	}
	_, err = NewScorer(nil, ScorerConfig{}).Score(context.Background(), nonFinite)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeModelFit))

	_, err = NewScorer(nil, ScorerConfig{}).Score(context.Background(), nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeModelFit))
}
