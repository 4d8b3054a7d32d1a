package preprocess

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"housingml/internal/dataset"
)

// Splitter shuffles rows deterministically and separates a held-out test
// fraction, yielding numeric feature matrices and target vectors.
type Splitter struct {
	TargetColumn string
	TestFraction float64
	Seed         int64
}

// NewSplitter creates a splitter for the given target column
func NewSplitter(target string, testFraction float64, seed int64) *Splitter {
	return &Splitter{TargetColumn: target, TestFraction: testFraction, Seed: seed}
}

// Split holds the outcome of a train/test split
type Split struct {
	XTrain       *mat.Dense
	XTest        *mat.Dense
	YTrain       []float64
	YTest        []float64
	FeatureNames []string
}

// Apply splits the table into train and test portions. The shuffle is seeded,
// so the same table and seed always produce the same split.
func (s *Splitter) Apply(ctx context.Context, table *dataset.Table) (*Split, error) {
	n := table.NumRows()
	if n < 2 {
		return nil, fmt.Errorf("cannot split table with %d rows", n)
	}
	if s.TestFraction <= 0 || s.TestFraction >= 1 {
		return nil, fmt.Errorf("test fraction %v out of range (0, 1)", s.TestFraction)
	}

	testSize := int(float64(n) * s.TestFraction)
	if testSize == 0 {
		testSize = 1
	}
	if testSize == n {
		testSize = n - 1
	}

	indices := rand.New(rand.NewSource(s.Seed)).Perm(n)
	testIdx := indices[:testSize]
	trainIdx := indices[testSize:]

	trainTable, err := table.SelectRows(trainIdx)
	if err != nil {
		return nil, err
	}
	testTable, err := table.SelectRows(testIdx)
	if err != nil {
		return nil, err
	}

	xTrain, yTrain, features, err := trainTable.FeatureMatrix(s.TargetColumn)
	if err != nil {
		return nil, fmt.Errorf("building training matrices: %w", err)
	}

	// Use the training schema for the test side so both matrices share columns
	xTest, err := testTable.Matrix(features)
	if err != nil {
		return nil, fmt.Errorf("building test matrices: %w", err)
	}
	yTest, present, err := testTable.ColumnFloats(s.TargetColumn)
	if err != nil {
		return nil, err
	}
	for i, ok := range present {
		if !ok {
			return nil, fmt.Errorf("target column %s has missing value in test row %d", s.TargetColumn, i)
		}
	}

	slog.InfoContext(ctx, "train/test split complete",
		slog.Int("train_rows", len(trainIdx)),
		slog.Int("test_rows", len(testIdx)),
		slog.Int("features", len(features)))

	return &Split{
		XTrain:       xTrain,
		XTest:        xTest,
		YTrain:       yTrain,
		YTest:        yTest,
		FeatureNames: features,
	}, nil
}
