package factors

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	apperrors "approvalcli/internal/errors"
	"approvalcli/pkg/contracts/domain"
)

// Model fitting defaults
const (
	DefaultC             = 1.0
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-8

	maxStepHalvings = 40
)

// ModelConfig holds the logistic regression parameters.
// C is the inverse L2 regularization strength.
type ModelConfig struct {
	C             float64
	MaxIterations int
	Tolerance     float64
	Seed          int64
}

// LogisticModel is a binary logistic regression with an L2 penalty on the
// weights and an unpenalized intercept
type LogisticModel struct {
	logger *slog.Logger
	cfg    ModelConfig

	Intercept float64
	Weights   []float64
}

// NewLogisticModel creates an unfitted model; zero config fields take defaults
func NewLogisticModel(logger *slog.Logger, cfg ModelConfig) *LogisticModel {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.C <= 0 {
		cfg.C = DefaultC
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}
	return &LogisticModel{logger: logger, cfg: cfg}
}

// Fit fits the model on the feature matrix and reports in-sample accuracy and
// one coefficient per column
func (m *LogisticModel) Fit(ctx context.Context, fm *FeatureMatrix) (domain.ModelSummary, error) {
	if fm == nil {
		return domain.ModelSummary{}, apperrors.NewModelFitError("no feature matrix to fit", nil)
	}
	summary, err := m.FitArrays(fm.Dense(), fm.Outcome, fm.Names())
	if err != nil {
		return summary, err
	}

	m.logger.InfoContext(ctx, "fitted logistic regression",
		slog.Int("samples", summary.Samples),
		slog.Int("iterations", summary.Iterations),
		slog.Bool("converged", summary.Converged),
		slog.Float64("accuracy", summary.Accuracy))
	if !summary.Converged {
		m.logger.WarnContext(ctx, "logistic regression stopped before converging",
			slog.Int("max_iterations", m.cfg.MaxIterations))
	}
	return summary, nil
}

// FitArrays fits the model on x with outcomes y by Newton's method with step
// halving. names label the columns of x.
func (m *LogisticModel) FitArrays(x *mat.Dense, y []float64, names []string) (domain.ModelSummary, error) {
	if err := validateDesign(x, y); err != nil {
		return domain.ModelSummary{}, err
	}
	rows, cols := x.Dims()
	if len(names) != cols {
		return domain.ModelSummary{}, apperrors.NewModelFitError(
			fmt.Sprintf("%d column names for %d columns", len(names), cols), nil)
	}
	if neg, pos := countClasses(y); neg == 0 || pos == 0 {
		return domain.ModelSummary{}, apperrors.NewModelFitError("outcome has a single class", nil).
			WithContext("approved", pos).
			WithContext("declined", neg)
	}

	// Augmented design with a leading column of ones for the intercept
	dim := cols + 1
	xa := mat.NewDense(rows, dim, nil)
	for i := 0; i < rows; i++ {
		xa.Set(i, 0, 1)
		for j := 0; j < cols; j++ {
			xa.Set(i, j+1, x.At(i, j))
		}
	}

	rng := rand.New(rand.NewSource(m.cfg.Seed))
	theta := mat.NewVecDense(dim, nil)
	for j := 1; j < dim; j++ {
		theta.SetVec(j, rng.NormFloat64()*0.01)
	}

	obj := m.objective(xa, y, theta)
	converged := false
	iterations := 0

	for iterations < m.cfg.MaxIterations {
		iterations++

		grad, hess := m.gradientHessian(xa, y, theta)

		var chol mat.Cholesky
		if ok := chol.Factorize(hess); !ok {
			return domain.ModelSummary{}, apperrors.NewModelFitError("hessian is not positive definite", nil).
				WithContext("iteration", iterations)
		}
		step := mat.NewVecDense(dim, nil)
		if err := chol.SolveVecTo(step, grad); err != nil {
			return domain.ModelSummary{}, apperrors.NewModelFitError("newton step failed", err).
				WithContext("iteration", iterations)
		}

		t := 1.0
		next := mat.NewVecDense(dim, nil)
		nextObj := math.Inf(1)
		for h := 0; h < maxStepHalvings; h++ {
			next.AddScaledVec(theta, -t, step)
			nextObj = m.objective(xa, y, next)
			if nextObj <= obj {
				break
			}
			t /= 2
		}
		if math.IsNaN(nextObj) || math.IsInf(nextObj, 0) {
			return domain.ModelSummary{}, apperrors.NewModelFitError("objective is not finite", nil).
				WithContext("iteration", iterations)
		}

		if nextObj > obj {
			// no descent along the Newton direction at machine precision
			converged = true
			break
		}

		change := t * floats.Norm(step.RawVector().Data, math.Inf(1))
		improvement := obj - nextObj
		theta.CopyVec(next)
		obj = nextObj

		if change <= m.cfg.Tolerance || improvement <= m.cfg.Tolerance*math.Max(1, math.Abs(obj)) {
			converged = true
			break
		}
	}

	m.Intercept = theta.AtVec(0)
	m.Weights = make([]float64, cols)
	for j := range m.Weights {
		m.Weights[j] = theta.AtVec(j + 1)
	}

	summary := domain.ModelSummary{
		Accuracy:     Accuracy(y, m.Predict(x)),
		Intercept:    m.Intercept,
		Coefficients: make([]domain.Coefficient, cols),
		Iterations:   iterations,
		Converged:    converged,
		Samples:      rows,
	}
	for j, name := range names {
		summary.Coefficients[j] = domain.Coefficient{Feature: name, Value: m.Weights[j]}
	}
	return summary, nil
}

// objective is 0.5*|w|^2 + C * sum of log losses
func (m *LogisticModel) objective(xa *mat.Dense, y []float64, theta *mat.VecDense) float64 {
	var z mat.VecDense
	z.MulVec(xa, theta)

	var loss float64
	for i, yi := range y {
		zi := z.AtVec(i)
		loss += softplus(zi) - yi*zi
	}

	var penalty float64
	for j := 1; j < theta.Len(); j++ {
		w := theta.AtVec(j)
		penalty += w * w
	}
	return 0.5*penalty + m.cfg.C*loss
}

// gradientHessian returns the gradient and Hessian of the objective at theta
func (m *LogisticModel) gradientHessian(xa *mat.Dense, y []float64, theta *mat.VecDense) (*mat.VecDense, *mat.SymDense) {
	rows, dim := xa.Dims()

	var z mat.VecDense
	z.MulVec(xa, theta)

	residual := mat.NewVecDense(rows, nil)
	weighted := mat.NewDense(rows, dim, nil)
	for i := 0; i < rows; i++ {
		p := sigmoid(z.AtVec(i))
		residual.SetVec(i, p-y[i])
		w := math.Sqrt(p * (1 - p))
		for j := 0; j < dim; j++ {
			weighted.Set(i, j, w*xa.At(i, j))
		}
	}

	grad := mat.NewVecDense(dim, nil)
	grad.MulVec(xa.T(), residual)
	grad.ScaleVec(m.cfg.C, grad)

	hess := mat.NewSymDense(dim, nil)
	hess.SymOuterK(m.cfg.C, weighted.T())
	for j := 1; j < dim; j++ {
		grad.SetVec(j, grad.AtVec(j)+theta.AtVec(j))
		hess.SetSym(j, j, hess.At(j, j)+1)
	}
	// keeps the intercept block invertible when every probability saturates
	hess.SetSym(0, 0, hess.At(0, 0)+1e-10)

	return grad, hess
}

// PredictProba returns P(approved) for every row of x
func (m *LogisticModel) PredictProba(x *mat.Dense) []float64 {
	rows, cols := x.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		z := m.Intercept
		for j := 0; j < cols; j++ {
			z += m.Weights[j] * x.At(i, j)
		}
		out[i] = sigmoid(z)
	}
	return out
}

// Predict returns class labels at a 0.5 probability threshold
func (m *LogisticModel) Predict(x *mat.Dense) []float64 {
	proba := m.PredictProba(x)
	out := make([]float64, len(proba))
	for i, p := range proba {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

// Accuracy is the share of predictions equal to the truth
func Accuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus is log(1 + exp(z)) without overflow
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}
