package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// constantModel always predicts the same value
type constantModel struct {
	value float64
}

func (m *constantModel) Predict(X *mat.Dense) ([]float64, error) {
	rows, _ := X.Dims()
	out := make([]float64, rows)
	for i := range out {
		out[i] = m.value
	}
	return out, nil
}

func TestEvaluatePerfectPrediction(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := []float64{5, 5, 5}

	eval, err := Evaluate(&constantModel{value: 5}, X, y)
	require.NoError(t, err)

	assert.Zero(t, eval.MSE)
	assert.Zero(t, eval.RMSE)
	assert.Zero(t, eval.MAE)
	// SST is zero for a constant target, so R2 is undefined
	assert.True(t, math.IsNaN(eval.R2))
	assert.Equal(t, 3, eval.Rows)
}

func TestEvaluateKnownValues(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := []float64{2, 4, 6, 8}

	// Predicting the mean gives R2 == 0
	eval, err := Evaluate(&constantModel{value: 5}, X, y)
	require.NoError(t, err)

	assert.InDelta(t, 5.0, eval.MSE, 1e-9)   // (9+1+1+9)/4
	assert.InDelta(t, 2.0, eval.MAE, 1e-9)   // (3+1+1+3)/4
	assert.InDelta(t, math.Sqrt(5), eval.RMSE, 1e-9)
	assert.InDelta(t, 0.0, eval.R2, 1e-9)
}

func TestEvaluateErrors(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})

	_, err := Evaluate(&constantModel{}, X, []float64{1})
	assert.Error(t, err)

	empty := mat.NewDense(1, 1, []float64{1})
	_, err = Evaluate(&constantModel{}, empty, nil)
	assert.Error(t, err)
}
