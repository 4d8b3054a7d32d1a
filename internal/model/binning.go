package model

import (
	"sort"
)

// binner maps raw feature values to histogram bin indices. Bin edges are
// derived from the quantiles of the training data, so dense value regions get
// finer bins.
type binner struct {
	// edges[j] holds the sorted cut points of feature j; a value v falls in
	// bin i where i is the number of edges <= v.
	edges [][]float64
}

// fitBinner computes per-feature bin edges from column-major training data
func fitBinner(columns [][]float64, maxBins int) *binner {
	b := &binner{edges: make([][]float64, len(columns))}
	for j, col := range columns {
		b.edges[j] = computeEdges(col, maxBins)
	}
	return b
}

// computeEdges returns up to maxBins-1 distinct cut points for one feature
func computeEdges(values []float64, maxBins int) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	// Distinct values only; tiny cardinality gets one bin per value. The
	// quantile path below still reads sorted, so distinct must not share its
	// backing array.
	distinct := make([]float64, 0, len(sorted))
	for i, v := range sorted {
		if i == 0 || v != distinct[len(distinct)-1] {
			distinct = append(distinct, v)
		}
	}
	if len(distinct) <= 1 {
		return nil
	}

	if len(distinct) <= maxBins {
		edges := make([]float64, 0, len(distinct)-1)
		for i := 1; i < len(distinct); i++ {
			edges = append(edges, (distinct[i-1]+distinct[i])/2)
		}
		return edges
	}

	// Quantile-spaced cut points over the full (non-distinct) distribution
	edges := make([]float64, 0, maxBins-1)
	n := len(sorted)
	for k := 1; k < maxBins; k++ {
		pos := float64(k) * float64(n-1) / float64(maxBins)
		edge := sorted[int(pos)]
		if len(edges) == 0 || edge > edges[len(edges)-1] {
			edges = append(edges, edge)
		}
	}
	return edges
}

// bin returns the bin index of value v for feature j
func (b *binner) bin(j int, v float64) int {
	edges := b.edges[j]
	// First index with edges[i] > v
	return sort.Search(len(edges), func(i int) bool { return edges[i] > v })
}

// binCount returns the number of bins for feature j
func (b *binner) binCount(j int) int {
	return len(b.edges[j]) + 1
}

// binMatrix converts column-major raw data to column-major bin indices
func (b *binner) binMatrix(columns [][]float64) [][]int {
	binned := make([][]int, len(columns))
	for j, col := range columns {
		binned[j] = make([]int, len(col))
		for i, v := range col {
			binned[j][i] = b.bin(j, v)
		}
	}
	return binned
}
