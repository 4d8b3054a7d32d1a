package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Pipeline is a fitted two-stage artifact: a standard scaler followed by a
// regressor. Prediction input flows through the same scaling the training
// data saw.
type Pipeline struct {
	scaler    *StandardScaler
	regressor FittedModel
}

// Predict implements FittedModel
func (p *Pipeline) Predict(X *mat.Dense) ([]float64, error) {
	scaled, err := p.scaler.Transform(X)
	if err != nil {
		return nil, fmt.Errorf("pipeline scaling failed: %w", err)
	}
	return p.regressor.Predict(scaled)
}
