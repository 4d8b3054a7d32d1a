package preprocess

import (
	"context"
	"fmt"
	"log/slog"

	"housingml/internal/dataset"
)

// MissingValueHandler drops columns dominated by missing values and imputes
// the remaining numeric gaps with the column median.
type MissingValueHandler struct {
	// ColumnDropThreshold is the missing-cell ratio above which a column is
	// dropped instead of imputed.
	ColumnDropThreshold float64
}

// NewMissingValueHandler creates a handler with the given drop threshold
func NewMissingValueHandler(threshold float64) *MissingValueHandler {
	return &MissingValueHandler{ColumnDropThreshold: threshold}
}

// Apply returns a new table with heavily-missing columns removed and numeric
// missing cells replaced by the column median. Non-numeric columns keep their
// missing cells untouched; the matrix builder excludes them anyway.
func (h *MissingValueHandler) Apply(ctx context.Context, table *dataset.Table) (*dataset.Table, error) {
	var dropped []string
	for _, name := range table.Columns() {
		ratio, err := table.MissingRatio(name)
		if err != nil {
			return nil, fmt.Errorf("missing-value handling on column %s: %w", name, err)
		}
		if ratio > h.ColumnDropThreshold {
			dropped = append(dropped, name)
		}
	}

	out := table
	if len(dropped) > 0 {
		var err error
		out, err = table.DropColumns(dropped...)
		if err != nil {
			return nil, err
		}
	} else {
		out = table.Clone()
	}

	imputed := 0
	for _, name := range out.NumericColumns() {
		values, present, err := out.ColumnFloats(name)
		if err != nil {
			return nil, err
		}

		var observed []float64
		hasMissing := false
		for i, ok := range present {
			if ok {
				observed = append(observed, values[i])
			} else {
				hasMissing = true
			}
		}
		if !hasMissing || len(observed) == 0 {
			continue
		}

		med := median(observed)
		cell := dataset.FormatNumeric(med)
		for i, ok := range present {
			if !ok {
				if err := out.SetValue(i, name, cell); err != nil {
					return nil, err
				}
				imputed++
			}
		}
	}

	slog.InfoContext(ctx, "missing-value handling complete",
		slog.Int("columns_dropped", len(dropped)),
		slog.Int("cells_imputed", imputed))

	return out, nil
}
