package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix builds a dense matrix from the named numeric columns, in the given
// order. Missing cells become NaN.
func (t *Table) Matrix(columns []string) (*mat.Dense, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("matrix requires at least one column")
	}
	if len(t.rows) == 0 {
		return nil, fmt.Errorf("matrix requires at least one row")
	}

	data := make([]float64, len(t.rows)*len(columns))
	for j, name := range columns {
		values, present, err := t.ColumnFloats(name)
		if err != nil {
			return nil, err
		}
		for i := range values {
			if present[i] {
				data[i*len(columns)+j] = values[i]
			} else {
				data[i*len(columns)+j] = math.NaN()
			}
		}
	}

	return mat.NewDense(len(t.rows), len(columns), data), nil
}

// FeatureMatrix separates the target column from the numeric feature columns,
// returning the feature matrix, the target vector, and the feature names.
// Non-numeric columns are excluded from the features.
func (t *Table) FeatureMatrix(target string) (X *mat.Dense, y []float64, features []string, err error) {
	if !t.HasColumn(target) {
		return nil, nil, nil, fmt.Errorf("target column %s not in table", target)
	}
	if !t.IsNumericColumn(target) {
		return nil, nil, nil, fmt.Errorf("target column %s is not numeric", target)
	}

	for _, name := range t.NumericColumns() {
		if name != target {
			features = append(features, name)
		}
	}
	if len(features) == 0 {
		return nil, nil, nil, fmt.Errorf("no numeric feature columns besides target %s", target)
	}

	X, err = t.Matrix(features)
	if err != nil {
		return nil, nil, nil, err
	}

	values, present, err := t.ColumnFloats(target)
	if err != nil {
		return nil, nil, nil, err
	}
	for i, ok := range present {
		if !ok {
			return nil, nil, nil, fmt.Errorf("target column %s has missing value at row %d", target, i)
		}
	}

	return X, values, features, nil
}
