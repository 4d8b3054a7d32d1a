// Package model implements model-building strategies behind a uniform train
// interface, plus the Builder that delegates to the currently selected
// strategy.
//
// A strategy is stateless: each Train call validates its inputs, fits a fresh
// scaler+regressor pipeline, and returns an independent fitted artifact that
// holds no reference to the training data.
package model
