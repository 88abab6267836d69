package qc

import (
	"surveyqc/internal/table"
)

// Column names introduced by the reshape and consumed by the joins.
const (
	NameColumn  = "Name"
	ValueColumn = "Value"
)

// Prune returns the response table without the given columns. Names not
// present are ignored.
func Prune(t *table.Table, drop []string) *table.Table {
	return t.DropColumns(drop...)
}

// Reshape converts a wide response table to long form: one output row
// per (input row, value column) pair with a non-missing cell. Key fields
// are restricted to those actually present; every non-key column is a
// value column. Key-field cells are copied verbatim.
func Reshape(t *table.Table, keyFields []string) (*table.Table, error) {
	keys := t.Intersect(keyFields)
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}

	var valueCols []string
	for _, name := range t.Columns() {
		if !keySet[name] {
			valueCols = append(valueCols, name)
		}
	}

	out, err := table.New(append(append([]string(nil), keys...), NameColumn, ValueColumn)...)
	if err != nil {
		return nil, NewSchemaError("reshape", "key fields collide with Name/Value columns", err)
	}

	keyIdx := make([]int, len(keys))
	for i, k := range keys {
		keyIdx[i], _ = t.ColumnIndex(k)
	}
	valIdx := make([]int, len(valueCols))
	for i, v := range valueCols {
		valIdx[i], _ = t.ColumnIndex(v)
	}

	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		for k, j := range valIdx {
			if row[j].IsMissing() {
				continue
			}
			cells := make([]table.Cell, 0, len(keys)+2)
			for _, ki := range keyIdx {
				cells = append(cells, row[ki])
			}
			cells = append(cells, table.Text(valueCols[k]), row[j])
			out.MustAppendRow(cells...)
		}
	}
	return out, nil
}
