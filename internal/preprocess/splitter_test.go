package preprocess

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housingml/internal/dataset"
)

func splitterFixture(t *testing.T, rows int) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable([]string{"size", "age", "district", "price"})
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		require.NoError(t, table.AppendRow([]string{
			fmt.Sprintf("%d", 1000+i),
			fmt.Sprintf("%d", 5+i%40),
			fmt.Sprintf("d%d", i%4),
			fmt.Sprintf("%d", 100000+500*i),
		}))
	}
	return table
}

func TestSplitterSizes(t *testing.T) {
	table := splitterFixture(t, 100)

	split, err := NewSplitter("price", 0.2, 42).Apply(context.Background(), table)
	require.NoError(t, err)

	trainRows, trainCols := split.XTrain.Dims()
	testRows, testCols := split.XTest.Dims()

	assert.Equal(t, 80, trainRows)
	assert.Equal(t, 20, testRows)
	assert.Equal(t, trainCols, testCols)
	assert.Len(t, split.YTrain, 80)
	assert.Len(t, split.YTest, 20)
	// The non-numeric district column is excluded from features
	assert.Equal(t, []string{"size", "age"}, split.FeatureNames)
}

func TestSplitterDeterministic(t *testing.T) {
	table := splitterFixture(t, 50)

	a, err := NewSplitter("price", 0.2, 7).Apply(context.Background(), table)
	require.NoError(t, err)
	b, err := NewSplitter("price", 0.2, 7).Apply(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, a.YTest, b.YTest)
	assert.Equal(t, a.YTrain, b.YTrain)
}

func TestSplitterSeedChangesSplit(t *testing.T) {
	table := splitterFixture(t, 50)

	a, err := NewSplitter("price", 0.2, 1).Apply(context.Background(), table)
	require.NoError(t, err)
	b, err := NewSplitter("price", 0.2, 2).Apply(context.Background(), table)
	require.NoError(t, err)

	assert.NotEqual(t, a.YTest, b.YTest)
}

func TestSplitterCoversAllRows(t *testing.T) {
	table := splitterFixture(t, 30)

	split, err := NewSplitter("price", 0.2, 3).Apply(context.Background(), table)
	require.NoError(t, err)

	seen := make(map[float64]int)
	for _, y := range append(append([]float64(nil), split.YTrain...), split.YTest...) {
		seen[y]++
	}
	assert.Len(t, seen, 30)
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
}

func TestSplitterErrors(t *testing.T) {
	tests := []struct {
		name     string
		rows     int
		fraction float64
		target   string
	}{
		{name: "too few rows", rows: 1, fraction: 0.2, target: "price"},
		{name: "fraction too high", rows: 10, fraction: 1.0, target: "price"},
		{name: "fraction zero", rows: 10, fraction: 0, target: "price"},
		{name: "unknown target", rows: 10, fraction: 0.2, target: "missing"},
		{name: "non-numeric target", rows: 10, fraction: 0.2, target: "district"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := splitterFixture(t, tt.rows)
			_, err := NewSplitter(tt.target, tt.fraction, 42).Apply(context.Background(), table)
			assert.Error(t, err)
		})
	}
}

func TestSplitterTinyTableStillSplits(t *testing.T) {
	table := splitterFixture(t, 3)

	split, err := NewSplitter("price", 0.1, 42).Apply(context.Background(), table)
	require.NoError(t, err)

	// Fractional test size rounds to zero but at least one row is held out
	assert.Len(t, split.YTest, 1)
	assert.Len(t, split.YTrain, 2)
}
