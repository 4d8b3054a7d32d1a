package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLinearRegressionRecoversCoefficients(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	n := 200
	X := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := rng.Float64() * 10
		b := rng.Float64() * 10
		X.Set(i, 0, a)
		X.Set(i, 1, b)
		y[i] = 4 + 2*a - 3*b
	}

	fitted, err := NewLinearRegressionStrategy().Train(X, y)
	require.NoError(t, err)

	eval, err := Evaluate(fitted, X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, eval.R2, 1e-6)
	assert.InDelta(t, 0, eval.RMSE, 1e-6)
}

func TestLinearRegressionValidatesShapes(t *testing.T) {
	_, err := NewLinearRegressionStrategy().Train(mat.NewDense(3, 1, []float64{1, 2, 3}), []float64{1, 2})
	assert.Error(t, err)
}

func TestLinearRegressionUnderdetermined(t *testing.T) {
	// Fewer rows than features cannot be solved
	_, err := NewLinearRegressionStrategy().Train(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}), []float64{1, 2})
	assert.Error(t, err)
}
