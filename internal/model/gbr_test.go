package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"housingml/internal/errors"
)

// syntheticData builds a noisy nonlinear regression problem
func syntheticData(n int, seed int64) (*mat.Dense, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := rng.Float64() * 10
		b := rng.Float64() * 10
		X.Set(i, 0, a)
		X.Set(i, 1, b)
		y[i] = 3*a + a*b + 0.1*rng.NormFloat64()
	}
	return X, y
}

func TestGradientBoostingLearnsSignal(t *testing.T) {
	X, y := syntheticData(500, 1)

	strategy := NewGradientBoostingStrategy(BoostingParams{
		Iterations:     50,
		LearningRate:   0.2,
		MaxDepth:       4,
		MaxBins:        64,
		MinSamplesLeaf: 5,
	})

	fitted, err := strategy.Train(X, y)
	require.NoError(t, err)

	eval, err := Evaluate(fitted, X, y)
	require.NoError(t, err)

	// Must beat the mean-only baseline by a wide margin on training data
	assert.Greater(t, eval.R2, 0.9, "R2 = %v", eval.R2)
}

func TestGradientBoostingGeneralizes(t *testing.T) {
	XTrain, yTrain := syntheticData(800, 2)
	XTest, yTest := syntheticData(200, 3)

	fitted, err := NewGradientBoostingStrategy(BoostingParams{
		Iterations:     80,
		LearningRate:   0.1,
		MaxDepth:       4,
		MaxBins:        64,
		MinSamplesLeaf: 10,
	}).Train(XTrain, yTrain)
	require.NoError(t, err)

	eval, err := Evaluate(fitted, XTest, yTest)
	require.NoError(t, err)
	assert.Greater(t, eval.R2, 0.8, "held-out R2 = %v", eval.R2)
}

func TestGradientBoostingDeterministic(t *testing.T) {
	X, y := syntheticData(200, 4)
	strategy := NewGradientBoostingStrategy(BoostingParams{Iterations: 10, MaxBins: 32})

	a, err := strategy.Train(X, y)
	require.NoError(t, err)
	b, err := strategy.Train(X, y)
	require.NoError(t, err)

	predA, err := a.Predict(X)
	require.NoError(t, err)
	predB, err := b.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, predA, predB)
}

func TestTrainValidatesInput(t *testing.T) {
	strategy := NewGradientBoostingStrategy(DefaultBoostingParams())

	t.Run("nil features", func(t *testing.T) {
		_, err := strategy.Train(nil, []float64{1})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeTypeMismatch))
	})

	t.Run("nil target", func(t *testing.T) {
		_, err := strategy.Train(mat.NewDense(1, 1, []float64{1}), nil)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeTypeMismatch))
	})

	t.Run("row mismatch", func(t *testing.T) {
		_, err := strategy.Train(mat.NewDense(2, 1, []float64{1, 2}), []float64{1})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeShapeMismatch))
	})

	t.Run("NaN features", func(t *testing.T) {
		_, err := strategy.Train(mat.NewDense(2, 1, []float64{1, math.NaN()}), []float64{1, 2})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-finite")
	})
}

func TestPredictValidatesWidth(t *testing.T) {
	X, y := syntheticData(100, 5)
	fitted, err := NewGradientBoostingStrategy(BoostingParams{Iterations: 5, MaxBins: 16}).Train(X, y)
	require.NoError(t, err)

	_, err = fitted.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
	assert.Error(t, err)

	_, err = fitted.Predict(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeTypeMismatch))
}

func TestBinnerRoundTrip(t *testing.T) {
	columns := [][]float64{{1, 2, 3, 4, 5, 6, 7, 8}}
	b := fitBinner(columns, 4)

	require.Equal(t, 1, len(b.edges))
	assert.LessOrEqual(t, b.binCount(0), 4)

	// Bins are monotone in the value
	prev := -1
	for _, v := range columns[0] {
		bin := b.bin(0, v)
		assert.GreaterOrEqual(t, bin, prev)
		prev = bin
	}
}

func TestBinnerConstantColumn(t *testing.T) {
	b := fitBinner([][]float64{{5, 5, 5, 5}}, 8)
	assert.Equal(t, 1, b.binCount(0))
	assert.Equal(t, 0, b.bin(0, 5))
	assert.Equal(t, 0, b.bin(0, 100))
}

func TestBinnerSmallCardinality(t *testing.T) {
	// Two distinct values get exactly two bins split at the midpoint
	b := fitBinner([][]float64{{0, 0, 1, 1}}, 255)
	assert.Equal(t, 2, b.binCount(0))
	assert.Equal(t, 0, b.bin(0, 0))
	assert.Equal(t, 0, b.bin(0, 0.4))
	assert.Equal(t, 1, b.bin(0, 0.6))
	assert.Equal(t, 1, b.bin(0, 1))
}
