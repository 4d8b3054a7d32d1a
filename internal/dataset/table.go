package dataset

import (
	"fmt"
)

// Table is an in-memory tabular dataset with named columns and ordered rows
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewTable creates an empty table with the given column names
func NewTable(columns []string) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("table requires at least one column")
	}

	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, exists := index[name]; exists {
			return nil, fmt.Errorf("duplicate column name: %s", name)
		}
		index[name] = i
	}

	return &Table{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    make([][]string, 0),
	}, nil
}

// Columns returns the ordered column names
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumCols returns the number of columns
func (t *Table) NumCols() int {
	return len(t.columns)
}

// HasColumn reports whether the table has a column with the given name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of a column
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// AppendRow adds a row to the table
func (t *Table) AppendRow(cells []string) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.columns))
	}
	t.rows = append(t.rows, append([]string(nil), cells...))
	return nil
}

// Row returns the cells of row i
func (t *Table) Row(i int) []string {
	return append([]string(nil), t.rows[i]...)
}

// Value returns the cell at the given row and column
func (t *Table) Value(row int, column string) (string, bool) {
	col, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return "", false
	}
	return t.rows[row][col], true
}

// SetValue overwrites the cell at the given row and column
func (t *Table) SetValue(row int, column string, value string) error {
	col, ok := t.index[column]
	if !ok {
		return fmt.Errorf("unknown column: %s", column)
	}
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	t.rows[row][col] = value
	return nil
}

// SelectRows returns a new table containing only the rows at the given indices,
// in the given order. The schema is preserved.
func (t *Table) SelectRows(indices []int) (*Table, error) {
	out, err := NewTable(t.columns)
	if err != nil {
		return nil, err
	}
	for _, i := range indices {
		if i < 0 || i >= len(t.rows) {
			return nil, fmt.Errorf("row index %d out of range", i)
		}
		out.rows = append(out.rows, append([]string(nil), t.rows[i]...))
	}
	return out, nil
}

// DropColumns returns a new table without the named columns.
// Unknown names are ignored.
func (t *Table) DropColumns(names ...string) (*Table, error) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}

	var kept []string
	var keptIdx []int
	for i, name := range t.columns {
		if !drop[name] {
			kept = append(kept, name)
			keptIdx = append(keptIdx, i)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("dropping %d columns would leave an empty table", len(names))
	}

	out, err := NewTable(kept)
	if err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		cells := make([]string, len(keptIdx))
		for j, idx := range keptIdx {
			cells[j] = row[idx]
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out, _ := NewTable(t.columns)
	for _, row := range t.rows {
		out.rows = append(out.rows, append([]string(nil), row...))
	}
	return out
}
