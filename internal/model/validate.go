package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"housingml/internal/errors"
)

// validateTrainingInput checks the container kinds and shapes of a training
// call before any fitting work happens.
func validateTrainingInput(X *mat.Dense, y []float64) error {
	if X == nil {
		return errors.NewTypeMismatch("features must be a dense matrix, got nil")
	}
	if y == nil {
		return errors.NewTypeMismatch("target must be a float64 vector, got nil")
	}

	rows, cols := X.Dims()
	if rows != len(y) {
		return errors.NewShapeMismatch(rows, len(y))
	}
	if rows == 0 || cols == 0 {
		return fmt.Errorf("cannot train on an empty feature matrix (%dx%d)", rows, cols)
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := X.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("feature matrix contains non-finite value at (%d, %d); run missing-value handling first", i, j)
			}
		}
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("target contains non-finite value at row %d", i)
		}
	}

	return nil
}

// validatePredictInput checks a prediction matrix against the fitted width
func validatePredictInput(X *mat.Dense, wantCols int) error {
	if X == nil {
		return errors.NewTypeMismatch("features must be a dense matrix, got nil")
	}
	rows, cols := X.Dims()
	if cols != wantCols {
		return fmt.Errorf("prediction input has %d columns, model was fitted on %d", cols, wantCols)
	}
	if rows == 0 {
		return fmt.Errorf("prediction input has no rows")
	}
	return nil
}
