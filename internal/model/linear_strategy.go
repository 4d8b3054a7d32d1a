package model

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"
)

// LinearRegressionStrategy builds a pipeline of feature standardization
// followed by an ordinary-least-squares regressor. It exists as the simplest
// alternative strategy plugging into the same train interface.
type LinearRegressionStrategy struct{}

// NewLinearRegressionStrategy creates the strategy
func NewLinearRegressionStrategy() *LinearRegressionStrategy {
	return &LinearRegressionStrategy{}
}

// Name implements Strategy
func (s *LinearRegressionStrategy) Name() string {
	return "linear_regression"
}

// Train implements Strategy
func (s *LinearRegressionStrategy) Train(X *mat.Dense, y []float64) (FittedModel, error) {
	if err := validateTrainingInput(X, y); err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	slog.Info("training model",
		slog.String("strategy", s.Name()),
		slog.Int("rows", rows),
		slog.Int("features", cols))

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		return nil, err
	}

	reg, err := fitLeastSquares(scaled, y)
	if err != nil {
		return nil, err
	}

	return &Pipeline{scaler: scaler, regressor: reg}, nil
}

// linearModel is a fitted least-squares regressor with intercept
type linearModel struct {
	intercept   float64
	weights     []float64
	numFeatures int
}

// fitLeastSquares solves the normal equations via QR on the augmented matrix
func fitLeastSquares(X *mat.Dense, y []float64) (*linearModel, error) {
	rows, cols := X.Dims()
	if rows <= cols {
		return nil, fmt.Errorf("least squares requires more rows (%d) than features (%d)", rows, cols)
	}

	// Augment with an intercept column of ones
	aug := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		aug.Set(i, 0, 1)
		for j := 0; j < cols; j++ {
			aug.Set(i, j+1, X.At(i, j))
		}
	}

	var qr mat.QR
	qr.Factorize(aug)

	var coef mat.Dense
	if err := qr.SolveTo(&coef, false, mat.NewDense(rows, 1, append([]float64(nil), y...))); err != nil {
		return nil, fmt.Errorf("least squares solve failed: %w", err)
	}

	m := &linearModel{
		intercept:   coef.At(0, 0),
		weights:     make([]float64, cols),
		numFeatures: cols,
	}
	for j := 0; j < cols; j++ {
		m.weights[j] = coef.At(j+1, 0)
	}
	return m, nil
}

// Predict implements FittedModel
func (m *linearModel) Predict(X *mat.Dense) ([]float64, error) {
	if err := validatePredictInput(X, m.numFeatures); err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		v := m.intercept
		for j := 0; j < cols; j++ {
			v += m.weights[j] * X.At(i, j)
		}
		out[i] = v
	}
	return out, nil
}
