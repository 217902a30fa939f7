package factors

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"

	apperrors "approvalcli/internal/errors"
	"approvalcli/pkg/contracts/domain"
)

// Feature matrix column names
const (
	ColumnPeriod      = "Period"
	InteractionPrefix = "Period x "
)

// EncodedColumns are frequency encoded, in matrix order
var EncodedColumns = []string{
	domain.ColumnCoWebsite,
	domain.ColumnProcessingCo,
	domain.ColumnIssuingBank,
	domain.ColumnAmount,
}

// FeatureColumns returns the full column order of a feature matrix
func FeatureColumns() []string {
	cols := make([]string, 0, 1+2*len(EncodedColumns))
	cols = append(cols, ColumnPeriod)
	cols = append(cols, EncodedColumns...)
	for _, col := range EncodedColumns {
		cols = append(cols, InteractionPrefix+col)
	}
	return cols
}

// PeriodPair names the two quarters being compared
type PeriodPair struct {
	Earlier domain.Quarter
	Later   domain.Quarter
}

// Validate checks that both quarters are set and in chronological order
func (p PeriodPair) Validate() error {
	if p.Earlier.IsZero() || p.Later.IsZero() {
		return apperrors.NewConfigError("both quarters of the period pair are required", nil)
	}
	if !p.Earlier.Before(p.Later) {
		return apperrors.NewConfigError(
			fmt.Sprintf("earlier quarter %s must precede later quarter %s", p.Earlier, p.Later), nil)
	}
	return nil
}

// Flag returns 1 for the later quarter, 0 for the earlier one, and false for
// any other quarter
func (p PeriodPair) Flag(q domain.Quarter) (float64, bool) {
	switch q {
	case p.Later:
		return 1, true
	case p.Earlier:
		return 0, true
	}
	return 0, false
}

// String formats the pair as "2020Q4 vs 2021Q3"
func (p PeriodPair) String() string {
	return p.Earlier.String() + " vs " + p.Later.String()
}

// FrequencyMap maps each level of a column to its share of the rows
type FrequencyMap map[string]float64

// NewFrequencyMap counts the levels of values
func NewFrequencyMap(values []string) FrequencyMap {
	fm := make(FrequencyMap)
	if len(values) == 0 {
		return fm
	}
	for _, v := range values {
		fm[v]++
	}
	n := float64(len(values))
	for k := range fm {
		fm[k] /= n
	}
	return fm
}

// Encode returns the frequency of level v, 0 for an unseen level
func (m FrequencyMap) Encode(v string) float64 {
	return m[v]
}

// Levels returns the levels in lexical order
func (m FrequencyMap) Levels() []string {
	levels := make([]string, 0, len(m))
	for k := range m {
		levels = append(levels, k)
	}
	sort.Strings(levels)
	return levels
}

// Sum adds up the frequencies of every level
func (m FrequencyMap) Sum() float64 {
	var total float64
	for _, k := range m.Levels() {
		total += m[k]
	}
	return total
}

// FeatureMatrix is the numeric design matrix of the factor analysis
type FeatureMatrix struct {
	Frame       dataframe.DataFrame
	Outcome     []float64
	Frequencies map[string]FrequencyMap
	Periods     PeriodPair
	Excluded    int
}

// Names returns the column names in matrix order
func (fm *FeatureMatrix) Names() []string {
	return fm.Frame.Names()
}

// Rows returns the number of samples
func (fm *FeatureMatrix) Rows() int {
	return fm.Frame.Nrow()
}

// Column returns the values of the named column
func (fm *FeatureMatrix) Column(name string) []float64 {
	return fm.Frame.Col(name).Float()
}

// Dense copies the frame into a row-major gonum matrix
func (fm *FeatureMatrix) Dense() *mat.Dense {
	names := fm.Names()
	rows := fm.Rows()
	if rows == 0 || len(names) == 0 {
		return nil
	}
	m := mat.NewDense(rows, len(names), nil)
	for j, name := range names {
		m.SetCol(j, fm.Column(name))
	}
	return m
}

// OutcomeClasses returns the outcome as class labels
func (fm *FeatureMatrix) OutcomeClasses() []int {
	classes := make([]int, len(fm.Outcome))
	for i, y := range fm.Outcome {
		classes[i] = int(y)
	}
	return classes
}
