package preprocess

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housingml/internal/dataset"
)

func buildTable(t *testing.T, columns []string, rows [][]string) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable(columns)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, table.AppendRow(row))
	}
	return table
}

func TestOutlierDetectorDropsExtremeRows(t *testing.T) {
	// Values clustered around 100 with one far outlier
	rows := [][]string{
		{"100", "a"}, {"101", "b"}, {"99", "c"}, {"102", "d"},
		{"98", "e"}, {"100", "f"}, {"101", "g"},
		{"100000", "h"}, // outlier
	}
	table := buildTable(t, []string{"value", "label"}, rows)

	out, err := NewOutlierDetector(1.5).Apply(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, 7, out.NumRows())
	for i := 0; i < out.NumRows(); i++ {
		v, _ := out.Value(i, "value")
		assert.NotEqual(t, "100000", v)
	}
}

func TestOutlierDetectorKeepsUniformData(t *testing.T) {
	var rows [][]string
	for i := 0; i < 20; i++ {
		rows = append(rows, []string{fmt.Sprintf("%d", 50+i%3)})
	}
	table := buildTable(t, []string{"value"}, rows)

	out, err := NewOutlierDetector(1.5).Apply(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, 20, out.NumRows())
}

func TestOutlierDetectorIgnoresMissingCells(t *testing.T) {
	rows := [][]string{
		{"100"}, {"101"}, {"99"}, {"NA"}, {"100"}, {"102"}, {"98"},
	}
	table := buildTable(t, []string{"value"}, rows)

	out, err := NewOutlierDetector(1.5).Apply(context.Background(), table)
	require.NoError(t, err)
	// The NA row survives: missing cells are never extreme
	assert.Equal(t, 7, out.NumRows())
}

func TestOutlierDetectorNonNumericColumnsUntouched(t *testing.T) {
	rows := [][]string{
		{"CollgCr"}, {"Veenker"}, {"Crawfor"},
	}
	table := buildTable(t, []string{"neighborhood"}, rows)

	out, err := NewOutlierDetector(1.5).Apply(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, 3, out.NumRows())
}

func TestOutlierDetectorEmptyTable(t *testing.T) {
	table := buildTable(t, []string{"value"}, nil)

	out, err := NewOutlierDetector(1.5).Apply(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, 0, out.NumRows())
}
