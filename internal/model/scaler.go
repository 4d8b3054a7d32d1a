package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes each feature column to zero mean and unit
// variance. Columns with zero variance pass through unscaled.
type StandardScaler struct {
	mean []float64
	std  []float64
}

// NewStandardScaler creates an unfitted scaler
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit learns the per-column mean and standard deviation of X
func (s *StandardScaler) Fit(X *mat.Dense) error {
	if X == nil {
		return fmt.Errorf("scaler fit requires a matrix, got nil")
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("scaler fit requires a non-empty matrix (%dx%d)", rows, cols)
	}

	s.mean = make([]float64, cols)
	s.std = make([]float64, cols)

	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, X)
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || rows == 1 {
			std = 1
		}
		s.mean[j] = mean
		s.std[j] = std
	}

	return nil
}

// Transform returns a new matrix with the fitted scaling applied
func (s *StandardScaler) Transform(X *mat.Dense) (*mat.Dense, error) {
	if s.mean == nil {
		return nil, fmt.Errorf("scaler is not fitted")
	}
	if X == nil {
		return nil, fmt.Errorf("scaler transform requires a matrix, got nil")
	}
	rows, cols := X.Dims()
	if cols != len(s.mean) {
		return nil, fmt.Errorf("scaler fitted on %d columns, input has %d", len(s.mean), cols)
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (X.At(i, j)-s.mean[j])/s.std[j])
		}
	}
	return out, nil
}

// FitTransform fits the scaler and transforms X in one call
func (s *StandardScaler) FitTransform(X *mat.Dense) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
