// Package table provides the in-memory tabular data model the pipeline
// operates on: ordered named columns over rows of tri-state cells
// (missing, text, or numeric).
package table

import (
	"fmt"
)

// Table is a row-major table with ordered, uniquely named columns.
// Components treat tables they did not produce as immutable; mutating
// operations return a new table.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Cell
}

// New creates an empty table with the given column names.
// Names must be non-empty and unique.
func New(columns ...string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, exists := index[name]; exists {
			return nil, fmt.Errorf("duplicate column name: %s", name)
		}
		index[name] = i
	}
	return &Table{
		columns: append([]string(nil), columns...),
		index:   index,
	}, nil
}

// MustNew is New but panics on error. Intended for tests and literals
// with known-good schemas.
func MustNew(columns ...string) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// AppendRow adds a row. The number of cells must match the schema.
func (t *Table) AppendRow(cells ...Cell) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.columns))
	}
	t.rows = append(t.rows, append([]Cell(nil), cells...))
	return nil
}

// MustAppendRow is AppendRow but panics on arity mismatch.
func (t *Table) MustAppendRow(cells ...Cell) {
	if err := t.AppendRow(cells...); err != nil {
		panic(err)
	}
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Cell {
	return append([]Cell(nil), t.rows[i]...)
}

// Cell returns the cell at row i in the named column.
func (t *Table) Cell(i int, name string) (Cell, bool) {
	j, ok := t.index[name]
	if !ok || i < 0 || i >= len(t.rows) {
		return Missing(), false
	}
	return t.rows[i][j], true
}

// Column returns a copy of the named column's cells, or nil if absent.
func (t *Table) Column(name string) []Cell {
	j, ok := t.index[name]
	if !ok {
		return nil
	}
	out := make([]Cell, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[j]
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := MustNew(t.columns...)
	out.rows = make([][]Cell, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = append([]Cell(nil), row...)
	}
	return out
}

// Intersect returns, in the order given, the names that exist in this
// table's schema. Callers that take column-name lists use this so that
// absent names are silently skipped rather than treated as errors.
func (t *Table) Intersect(names []string) []string {
	var out []string
	for _, name := range names {
		if t.HasColumn(name) {
			out = append(out, name)
		}
	}
	return out
}

// DropColumns returns a new table without the named columns. Names not
// present are ignored; remaining column order is preserved.
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, name := range t.Intersect(names) {
		drop[name] = true
	}

	var kept []string
	var keptIdx []int
	for j, name := range t.columns {
		if !drop[name] {
			kept = append(kept, name)
			keptIdx = append(keptIdx, j)
		}
	}

	out := MustNew(kept...)
	out.rows = make([][]Cell, len(t.rows))
	for i, row := range t.rows {
		cells := make([]Cell, len(keptIdx))
		for k, j := range keptIdx {
			cells[k] = row[j]
		}
		out.rows[i] = cells
	}
	return out
}

// SetColumn replaces the named column's cells. The replacement must have
// exactly one cell per row.
func (t *Table) SetColumn(name string, cells []Cell) error {
	j, ok := t.index[name]
	if !ok {
		return fmt.Errorf("no such column: %s", name)
	}
	if len(cells) != len(t.rows) {
		return fmt.Errorf("column %s: got %d cells, table has %d rows", name, len(cells), len(t.rows))
	}
	for i := range t.rows {
		t.rows[i][j] = cells[i]
	}
	return nil
}

// Records renders the table as string rows in column order, with missing
// cells rendered as empty strings. Used by exporters.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rec := make([]string, len(row))
		for j, c := range row {
			rec[j] = c.String()
		}
		out[i] = rec
	}
	return out
}
