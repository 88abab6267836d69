package qc

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"surveyqc/internal/table"
)

// CleanseCell normalizes a single cell for join matching:
//   - missing cells pass through untouched
//   - present cells are converted to their string representation
//   - the text is NFKC-folded, trimmed, and internal whitespace runs are
//     collapsed to a single ASCII space
//   - if upper is set, the result is upper-cased
//
// The result of cleansing a present cell is always a text cell.
func CleanseCell(c table.Cell, upper bool) table.Cell {
	if c.IsMissing() {
		return c
	}
	s := norm.NFKC.String(c.String())
	// Fields splits on any run of Unicode whitespace, which trims and
	// collapses in one pass.
	s = strings.Join(strings.Fields(s), " ")
	if upper {
		s = strings.ToUpper(s)
	}
	return table.Text(s)
}

// CleanseColumn cleanses every cell of a column, preserving length and
// index alignment.
func CleanseColumn(cells []table.Cell, upper bool) []table.Cell {
	out := make([]table.Cell, len(cells))
	for i, c := range cells {
		out[i] = CleanseCell(c, upper)
	}
	return out
}

// CleanseTable returns a copy of t with the named columns cleansed.
// Names not present in the table are silently skipped.
func CleanseTable(t *table.Table, columns []string, upper bool) *table.Table {
	out := t.Clone()
	for _, name := range out.Intersect(columns) {
		// SetColumn cannot fail here: the name came from the schema and
		// CleanseColumn preserves length.
		_ = out.SetColumn(name, CleanseColumn(out.Column(name), upper))
	}
	return out
}
