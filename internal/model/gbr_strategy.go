package model

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"
)

// GradientBoostingStrategy builds a pipeline of feature standardization
// followed by a histogram gradient boosting regressor.
type GradientBoostingStrategy struct {
	Params BoostingParams
}

// NewGradientBoostingStrategy creates the strategy with the given
// hyperparameters; zero fields fall back to defaults.
func NewGradientBoostingStrategy(params BoostingParams) *GradientBoostingStrategy {
	return &GradientBoostingStrategy{Params: params.withDefaults()}
}

// Name implements Strategy
func (s *GradientBoostingStrategy) Name() string {
	return "hist_gradient_boosting"
}

// Train implements Strategy. Each call fits a fresh scaler and ensemble and
// returns an independent artifact.
func (s *GradientBoostingStrategy) Train(X *mat.Dense, y []float64) (FittedModel, error) {
	if err := validateTrainingInput(X, y); err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	slog.Info("training model",
		slog.String("strategy", s.Name()),
		slog.Int("rows", rows),
		slog.Int("features", cols),
		slog.Int("iterations", s.Params.Iterations))

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		return nil, err
	}

	booster := &histGradientBoosting{params: s.Params.withDefaults()}
	ensemble := booster.fit(scaled, y)

	slog.Info("model training completed",
		slog.String("strategy", s.Name()),
		slog.Int("trees", len(ensemble.trees)))

	return &Pipeline{scaler: scaler, regressor: ensemble}, nil
}
