package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// IsMissing reports whether a raw cell value represents a missing observation.
// The Ames dataset encodes missing values as "NA"; other common tokens are
// accepted for robustness.
func IsMissing(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "na", "n/a", "null", "nan":
		return true
	}
	return false
}

// ParseNumeric parses a cell as a float64, tolerating surrounding whitespace
// and thousands separators.
func ParseNumeric(cell string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	return strconv.ParseFloat(cleaned, 64)
}

// FormatNumeric renders a float for storage in a table cell
func FormatNumeric(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// MissingRatio returns the fraction of missing cells in the named column
func (t *Table) MissingRatio(name string) (float64, error) {
	col, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("unknown column: %s", name)
	}
	if len(t.rows) == 0 {
		return 0, nil
	}

	missing := 0
	for _, row := range t.rows {
		if IsMissing(row[col]) {
			missing++
		}
	}
	return float64(missing) / float64(len(t.rows)), nil
}

// IsNumericColumn reports whether every non-missing cell in the column parses
// as a number and at least one such cell exists.
func (t *Table) IsNumericColumn(name string) bool {
	col, ok := t.index[name]
	if !ok {
		return false
	}

	seen := false
	for _, row := range t.rows {
		cell := row[col]
		if IsMissing(cell) {
			continue
		}
		if _, err := ParseNumeric(cell); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

// NumericColumns returns the names of all numeric columns in schema order
func (t *Table) NumericColumns() []string {
	var numeric []string
	for _, name := range t.columns {
		if t.IsNumericColumn(name) {
			numeric = append(numeric, name)
		}
	}
	return numeric
}

// ColumnFloats returns the parsed values of a numeric column together with a
// presence mask. Missing cells yield present[i] == false and values[i] == 0.
func (t *Table) ColumnFloats(name string) (values []float64, present []bool, err error) {
	col, ok := t.index[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown column: %s", name)
	}

	values = make([]float64, len(t.rows))
	present = make([]bool, len(t.rows))
	for i, row := range t.rows {
		cell := row[col]
		if IsMissing(cell) {
			continue
		}
		v, err := ParseNumeric(cell)
		if err != nil {
			return nil, nil, fmt.Errorf("column %s row %d: %w", name, i, err)
		}
		values[i] = v
		present[i] = true
	}
	return values, present, nil
}
