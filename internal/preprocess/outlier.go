package preprocess

import (
	"context"
	"fmt"
	"log/slog"

	"housingml/internal/dataset"
)

// OutlierDetector removes rows containing extreme numeric values.
// A cell is extreme when it falls outside the IQR fence
// [Q1 - fence*IQR, Q3 + fence*IQR] of its column.
type OutlierDetector struct {
	Fence float64
}

// NewOutlierDetector creates a detector with the given IQR fence multiplier
func NewOutlierDetector(fence float64) *OutlierDetector {
	return &OutlierDetector{Fence: fence}
}

// Apply returns a new table without the rows that contain at least one
// extreme value in any numeric column. Missing cells are never extreme.
func (d *OutlierDetector) Apply(ctx context.Context, table *dataset.Table) (*dataset.Table, error) {
	if table.NumRows() == 0 {
		return table, nil
	}

	type columnFence struct {
		values  []float64
		present []bool
		lower   float64
		upper   float64
	}

	var fences []columnFence
	for _, name := range table.NumericColumns() {
		values, present, err := table.ColumnFloats(name)
		if err != nil {
			return nil, fmt.Errorf("outlier detection on column %s: %w", name, err)
		}

		var observed []float64
		for i, ok := range present {
			if ok {
				observed = append(observed, values[i])
			}
		}
		if len(observed) == 0 {
			continue
		}

		q1 := quantile(observed, 0.25)
		q3 := quantile(observed, 0.75)
		iqr := q3 - q1
		fences = append(fences, columnFence{
			values:  values,
			present: present,
			lower:   q1 - d.Fence*iqr,
			upper:   q3 + d.Fence*iqr,
		})
	}

	var kept []int
	for i := 0; i < table.NumRows(); i++ {
		extreme := false
		for _, f := range fences {
			if f.present[i] && (f.values[i] < f.lower || f.values[i] > f.upper) {
				extreme = true
				break
			}
		}
		if !extreme {
			kept = append(kept, i)
		}
	}

	out, err := table.SelectRows(kept)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "outlier removal complete",
		slog.Int("rows_in", table.NumRows()),
		slog.Int("rows_out", out.NumRows()),
		slog.Int("rows_dropped", table.NumRows()-out.NumRows()))

	return out, nil
}
