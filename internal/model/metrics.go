package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Evaluation holds regression quality metrics on a held-out split
type Evaluation struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
	Rows int     `json:"rows"`
}

// Evaluate computes regression metrics for a fitted model on features X and
// observed targets y.
func Evaluate(m FittedModel, X *mat.Dense, y []float64) (*Evaluation, error) {
	rows, _ := X.Dims()
	if rows != len(y) {
		return nil, fmt.Errorf("evaluation input has %d rows but %d targets", rows, len(y))
	}
	if rows == 0 {
		return nil, fmt.Errorf("evaluation requires at least one row")
	}

	pred, err := m.Predict(X)
	if err != nil {
		return nil, fmt.Errorf("evaluation prediction failed: %w", err)
	}

	var sse, sae float64
	for i := range y {
		diff := pred[i] - y[i]
		sse += diff * diff
		sae += math.Abs(diff)
	}

	mean := stat.Mean(y, nil)
	var sst float64
	for _, v := range y {
		d := v - mean
		sst += d * d
	}

	mse := sse / float64(len(y))
	r2 := math.NaN()
	if sst > 0 {
		r2 = 1 - sse/sst
	}

	return &Evaluation{
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		MAE:  sae / float64(len(y)),
		R2:   r2,
		Rows: rows,
	}, nil
}
