package factors

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	apperrors "approvalcli/internal/errors"
	"approvalcli/pkg/contracts/domain"
)

// DefaultNeighbors is the neighbour count of the mutual information estimator
const DefaultNeighbors = 3

// MinScoringSamples is the smallest sample the F-test has degrees of freedom for
const MinScoringSamples = 3

// ScorerConfig holds the scorer parameters
type ScorerConfig struct {
	Neighbors int
	Seed      int64
}

// Scorer ranks features by F-test and mutual information against the outcome
type Scorer struct {
	logger    *slog.Logger
	neighbors int
	seed      int64
}

// NewScorer creates a scorer; a non-positive neighbour count uses DefaultNeighbors
func NewScorer(logger *slog.Logger, cfg ScorerConfig) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Neighbors <= 0 {
		cfg.Neighbors = DefaultNeighbors
	}
	return &Scorer{
		logger:    logger,
		neighbors: cfg.Neighbors,
		seed:      cfg.Seed,
	}
}

// Score computes both scores for every column of fm, in column order. Each
// score is also reported divided by its maximum over all columns.
func (s *Scorer) Score(ctx context.Context, fm *FeatureMatrix) ([]domain.FeatureScore, error) {
	if fm == nil {
		return nil, apperrors.NewModelFitError("no feature matrix to score", nil)
	}
	if rows := fm.Rows(); rows < MinScoringSamples {
		return nil, apperrors.NewEmptyResultError("factor scoring").
			WithContext("samples", rows).
			WithContext("required", MinScoringSamples)
	}
	x := fm.Dense()
	if err := validateDesign(x, fm.Outcome); err != nil {
		return nil, err
	}
	rows, cols := x.Dims()

	names := fm.Names()
	classes := fm.OutcomeClasses()
	jittered := scaleAndJitter(x, rand.New(rand.NewSource(s.seed)))

	fstats := make([]float64, cols)
	pvalues := make([]float64, cols)
	mis := make([]float64, cols)
	for j := 0; j < cols; j++ {
		fstats[j], pvalues[j] = FRegression(mat.Col(nil, j, x), fm.Outcome)
		mis[j] = MutualInfo(jittered[j], classes, s.neighbors)
	}

	fnorm := normalizeByMax(fstats)
	minorm := normalizeByMax(mis)

	scores := make([]domain.FeatureScore, cols)
	for j := range scores {
		scores[j] = domain.FeatureScore{
			Feature:    names[j],
			FStatistic: fstats[j],
			PValue:     pvalues[j],
			FScore:     fnorm[j],
			MutualInfo: mis[j],
			MIScore:    minorm[j],
		}
	}

	s.logger.InfoContext(ctx, "scored factor features",
		slog.Int("features", cols),
		slog.Int("samples", rows),
		slog.Int64("seed", s.seed))

	return scores, nil
}

// FRegression is the univariate linear regression F-test of y on x.
// A constant column scores F=0 with p=1.
func FRegression(x, y []float64) (f, p float64) {
	n := len(x)
	if n < 3 || isConstant(x) || isConstant(y) {
		return 0, 1
	}

	r := stat.Correlation(x, y, nil)
	r2 := r * r
	if r2 >= 1 {
		return math.Inf(1), 0
	}

	dof := float64(n - 2)
	f = r2 / (1 - r2) * dof
	p = distuv.F{D1: 1, D2: dof}.Survival(f)
	return f, p
}

func isConstant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

// scaleAndJitter returns the columns of x divided by their population standard
// deviation plus Gaussian noise of 1e-10 times max(1, mean |x|). The noise
// breaks ties between equal values for the neighbour search.
func scaleAndJitter(x *mat.Dense, rng *rand.Rand) [][]float64 {
	rows, cols := x.Dims()
	out := make([][]float64, cols)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, x)
		_, variance := stat.PopMeanVariance(col, nil)
		if sd := math.Sqrt(variance); sd > 0 {
			for i := range col {
				col[i] /= sd
			}
		}

		var meanAbs float64
		for _, v := range col {
			meanAbs += math.Abs(v)
		}
		amplitude := 1e-10 * math.Max(1, meanAbs/float64(rows))
		for i := range col {
			col[i] += amplitude * rng.NormFloat64()
		}
		out[j] = col
	}
	return out
}

// MutualInfo estimates the mutual information between a continuous variable
// and a discrete one with the k-nearest-neighbour estimator of Ross (2014).
// Samples whose class occurs once are ignored. The estimate is clipped at 0.
func MutualInfo(c []float64, d []int, k int) float64 {
	n := len(c)
	radius := make([]float64, n)
	labelCounts := make([]int, n)
	kAll := make([]int, n)

	byClass := make(map[int][]int)
	for i, label := range d {
		byClass[label] = append(byClass[label], i)
	}

	for _, idx := range byClass {
		count := len(idx)
		for _, i := range idx {
			labelCounts[i] = count
		}
		if count < 2 {
			continue
		}

		kc := min(k, count-1)
		values := make([]float64, count)
		for p, i := range idx {
			values[p] = c[i]
		}
		order := make([]int, count)
		for p := range order {
			order[p] = p
		}
		sort.Slice(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })
		sorted := make([]float64, count)
		for p, o := range order {
			sorted[p] = values[o]
		}

		for p, o := range order {
			i := idx[o]
			radius[i] = math.Nextafter(kthNeighborDistance(sorted, p, kc), 0)
			kAll[i] = kc
		}
	}

	var kept []float64
	var keptIdx []int
	for i := range c {
		if labelCounts[i] > 1 {
			kept = append(kept, c[i])
			keptIdx = append(keptIdx, i)
		}
	}
	m := len(kept)
	if m == 0 {
		return 0
	}

	sortedKept := append([]float64(nil), kept...)
	sort.Float64s(sortedKept)

	var sumK, sumLabel, sumM float64
	for _, i := range keptIdx {
		r := radius[i]
		// compare distances, not shifted bounds: c[i]-r can round r's nudge away
		lo := sort.Search(len(sortedKept), func(p int) bool { return c[i]-sortedKept[p] <= r })
		hi := sort.Search(len(sortedKept), func(p int) bool { return sortedKept[p]-c[i] > r })

		sumK += mathext.Digamma(float64(kAll[i]))
		sumLabel += mathext.Digamma(float64(labelCounts[i]))
		sumM += mathext.Digamma(float64(hi - lo))
	}

	fm := float64(m)
	mi := mathext.Digamma(fm) + sumK/fm - sumLabel/fm - sumM/fm
	return math.Max(0, mi)
}

// kthNeighborDistance returns the distance from sorted[p] to its k-th nearest
// other element
func kthNeighborDistance(sorted []float64, p, k int) float64 {
	left, right := p-1, p+1
	var dist float64
	for found := 0; found < k; found++ {
		switch {
		case left < 0:
			dist = sorted[right] - sorted[p]
			right++
		case right >= len(sorted):
			dist = sorted[p] - sorted[left]
			left--
		case sorted[p]-sorted[left] <= sorted[right]-sorted[p]:
			dist = sorted[p] - sorted[left]
			left--
		default:
			dist = sorted[right] - sorted[p]
			right++
		}
	}
	return dist
}

// normalizeByMax divides every value by the maximum. When the maximum is
// infinite, infinite entries become 1 and the rest 0. All-zero input stays zero.
func normalizeByMax(values []float64) []float64 {
	out := make([]float64, len(values))
	maxValue := 0.0
	for _, v := range values {
		maxValue = math.Max(maxValue, v)
	}
	if maxValue == 0 {
		return out
	}
	for i, v := range values {
		switch {
		case math.IsInf(maxValue, 1):
			if math.IsInf(v, 1) {
				out[i] = 1
			}
		default:
			out[i] = v / maxValue
		}
	}
	return out
}
