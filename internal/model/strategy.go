package model

import (
	"gonum.org/v1/gonum/mat"
)

// FittedModel is a trained artifact capable of predicting targets for new
// feature rows.
type FittedModel interface {
	// Predict returns one prediction per row of X
	Predict(X *mat.Dense) ([]float64, error)
}

// Strategy encapsulates one way of building and training a model
type Strategy interface {
	// Name identifies the strategy in logs and reports
	Name() string

	// Train fits a new model on the given features and aligned target vector
	Train(X *mat.Dense, y []float64) (FittedModel, error)
}
