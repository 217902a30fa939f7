package factors

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	apperrors "approvalcli/internal/errors"
)

// validateDesign checks that x and y are usable by the scorer and the model:
// matching non-zero lengths, finite values and a binary outcome
func validateDesign(x *mat.Dense, y []float64) error {
	if x == nil || len(y) == 0 {
		return apperrors.NewModelFitError("no samples to fit", nil)
	}
	rows, cols := x.Dims()
	if rows != len(y) {
		return apperrors.NewModelFitError(
			fmt.Sprintf("feature rows (%d) and outcomes (%d) differ", rows, len(y)), nil)
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := x.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return apperrors.NewModelFitError(
					fmt.Sprintf("non-finite feature value at row %d column %d", i, j), nil).
					WithContext("row", i).
					WithContext("column", j)
			}
		}
	}

	for i, v := range y {
		if v != 0 && v != 1 {
			return apperrors.NewModelFitError(
				fmt.Sprintf("outcome at row %d is %v, want 0 or 1", i, v), nil).
				WithContext("row", i)
		}
	}
	return nil
}

// countClasses returns the number of negative and positive outcomes
func countClasses(y []float64) (negative, positive int) {
	for _, v := range y {
		if v == 1 {
			positive++
		} else {
			negative++
		}
	}
	return negative, positive
}
