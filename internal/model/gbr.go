package model

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// BoostingParams are the hyperparameters of the histogram gradient boosting
// regressor. Zero values are replaced by the defaults.
type BoostingParams struct {
	Iterations     int
	LearningRate   float64
	MaxDepth       int
	MaxBins        int
	MinSamplesLeaf int
}

// DefaultBoostingParams returns the default hyperparameters
func DefaultBoostingParams() BoostingParams {
	return BoostingParams{
		Iterations:     100,
		LearningRate:   0.1,
		MaxDepth:       6,
		MaxBins:        255,
		MinSamplesLeaf: 20,
	}
}

// withDefaults fills zero fields from the defaults
func (p BoostingParams) withDefaults() BoostingParams {
	def := DefaultBoostingParams()
	if p.Iterations <= 0 {
		p.Iterations = def.Iterations
	}
	if p.LearningRate <= 0 {
		p.LearningRate = def.LearningRate
	}
	if p.MaxDepth <= 0 {
		p.MaxDepth = def.MaxDepth
	}
	if p.MaxBins <= 1 {
		p.MaxBins = def.MaxBins
	}
	if p.MinSamplesLeaf <= 0 {
		p.MinSamplesLeaf = def.MinSamplesLeaf
	}
	return p
}

// histGradientBoosting fits an additive ensemble of regression trees on
// histogram-binned features, minimizing squared error.
type histGradientBoosting struct {
	params BoostingParams
}

// boostedEnsemble is the fitted artifact produced by histGradientBoosting
type boostedEnsemble struct {
	baseScore    float64
	learningRate float64
	trees        []*regressionTree
	binner       *binner
	numFeatures  int
}

// fit trains the ensemble on column-major features and target y
func (g *histGradientBoosting) fit(X *mat.Dense, y []float64) *boostedEnsemble {
	rows, cols := X.Dims()

	columns := make([][]float64, cols)
	for j := 0; j < cols; j++ {
		columns[j] = make([]float64, rows)
		mat.Col(columns[j], j, X)
	}

	b := fitBinner(columns, g.params.MaxBins)
	binned := b.binMatrix(columns)

	ensemble := &boostedEnsemble{
		baseScore:    stat.Mean(y, nil),
		learningRate: g.params.LearningRate,
		binner:       b,
		numFeatures:  cols,
	}

	pred := make([]float64, rows)
	for i := range pred {
		pred[i] = ensemble.baseScore
	}

	residual := make([]float64, rows)
	samples := make([]int, rows)

	for iter := 0; iter < g.params.Iterations; iter++ {
		for i := range residual {
			residual[i] = y[i] - pred[i]
			samples[i] = i
		}

		tree := growTree(binned, b, residual, samples, g.params)
		ensemble.trees = append(ensemble.trees, tree)

		for i := 0; i < rows; i++ {
			pred[i] += g.params.LearningRate * tree.predictBinnedRow(binned, i)
		}
	}

	return ensemble
}

// Predict implements FittedModel
func (e *boostedEnsemble) Predict(X *mat.Dense) ([]float64, error) {
	if err := validatePredictInput(X, e.numFeatures); err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	out := make([]float64, rows)
	row := make([]int, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			row[j] = e.binner.bin(j, X.At(i, j))
		}
		score := e.baseScore
		for _, tree := range e.trees {
			score += e.learningRate * tree.predictBins(row)
		}
		out[i] = score
	}
	return out, nil
}
