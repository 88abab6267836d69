package qc

import (
	"surveyqc/internal/table"
)

// Suffixes applied to right-side columns whose names collide with the
// left side's schema.
const (
	ReconSuffix     = "_recon"
	NumericalSuffix = "_num"
)

// JoinRecon performs the metadata enrichment: an inner join of the
// long-form table against the recon table on the Name column. Both sides
// are expected to be pre-cleansed. Long-form rows without a matching
// recon Name are dropped; multiple matches fan out.
func JoinRecon(long, recon *table.Table) (*table.Table, error) {
	return join(long, recon, NameColumn, ReconSuffix, true)
}

// JoinNumerical performs the numeric enrichment: a left join against the
// numerical recon table on the Value column. Every left row survives;
// unmatched rows carry missing cells in the numeric columns.
func JoinNumerical(joined, numerical *table.Table) (*table.Table, error) {
	return join(joined, numerical, ValueColumn, NumericalSuffix, false)
}

// join merges right into left on string equality of the key column,
// which both sides must have. The key appears once in the output, from
// the left side. Right-side columns colliding with left names are
// renamed with the suffix before the merge, so collisions are
// deterministic. Missing keys never match.
func join(left, right *table.Table, key, suffix string, inner bool) (*table.Table, error) {
	if _, ok := left.ColumnIndex(key); !ok {
		return nil, NewMissingInputError("join", "left table has no "+key+" column")
	}
	rightKeyIdx, ok := right.ColumnIndex(key)
	if !ok {
		return nil, NewMissingInputError("join", "right table has no "+key+" column")
	}

	leftNames := make(map[string]bool, left.NumColumns())
	for _, name := range left.Columns() {
		leftNames[name] = true
	}

	// Right-side payload columns, renamed where they collide.
	var payloadNames []string
	var payloadIdx []int
	for j, name := range right.Columns() {
		if j == rightKeyIdx {
			continue
		}
		if leftNames[name] {
			name += suffix
		}
		payloadNames = append(payloadNames, name)
		payloadIdx = append(payloadIdx, j)
	}

	out, err := table.New(append(left.Columns(), payloadNames...)...)
	if err != nil {
		return nil, NewSchemaError("join", "column rename produced a duplicate name", err)
	}

	// Index the right side by key text.
	matches := make(map[string][]int, right.NumRows())
	for i := 0; i < right.NumRows(); i++ {
		c, _ := right.Cell(i, key)
		if c.IsMissing() {
			continue
		}
		matches[c.String()] = append(matches[c.String()], i)
	}

	for i := 0; i < left.NumRows(); i++ {
		leftRow := left.Row(i)
		keyCell, _ := left.Cell(i, key)

		var rightRows []int
		if !keyCell.IsMissing() {
			rightRows = matches[keyCell.String()]
		}

		if len(rightRows) == 0 {
			if inner {
				continue
			}
			cells := leftRow
			for range payloadIdx {
				cells = append(cells, table.Missing())
			}
			out.MustAppendRow(cells...)
			continue
		}

		for _, ri := range rightRows {
			rightRow := right.Row(ri)
			cells := append([]table.Cell(nil), leftRow...)
			for _, j := range payloadIdx {
				cells = append(cells, rightRow[j])
			}
			out.MustAppendRow(cells...)
		}
	}
	return out, nil
}
