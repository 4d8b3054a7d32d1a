package model

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"
)

// Builder holds the current model-building strategy and delegates training
// calls to it. A Builder is owned by a single caller; it is not safe for
// concurrent use.
type Builder struct {
	strategy Strategy
}

// NewBuilder creates a builder with an initial strategy
func NewBuilder(strategy Strategy) *Builder {
	return &Builder{strategy: strategy}
}

// SetStrategy replaces the current strategy
func (b *Builder) SetStrategy(strategy Strategy) {
	slog.Info("switching model building strategy",
		slog.String("strategy", strategyName(strategy)))
	b.strategy = strategy
}

// Strategy returns the current strategy
func (b *Builder) Strategy() Strategy {
	return b.strategy
}

// Build trains a model using the current strategy
func (b *Builder) Build(X *mat.Dense, y []float64) (FittedModel, error) {
	if b.strategy == nil {
		return nil, fmt.Errorf("no model building strategy set")
	}

	slog.Info("building model", slog.String("strategy", b.strategy.Name()))
	return b.strategy.Train(X, y)
}

func strategyName(s Strategy) string {
	if s == nil {
		return "none"
	}
	return s.Name()
}
