package table

import "strconv"

// CellKind identifies what a cell holds. Missing is a first-class state,
// never encoded as a sentinel string.
type CellKind int

const (
	KindMissing CellKind = iota
	KindText
	KindNumber
)

// Cell is a single value in a table: missing, text, or numeric.
// The zero value is a missing cell.
type Cell struct {
	kind CellKind
	text string
	num  float64
}

// Missing returns a missing cell.
func Missing() Cell {
	return Cell{kind: KindMissing}
}

// Text returns a text cell holding s.
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Number returns a numeric cell holding f.
func Number(f float64) Cell {
	return Cell{kind: KindNumber, num: f}
}

// Kind returns the cell's kind.
func (c Cell) Kind() CellKind {
	return c.kind
}

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool {
	return c.kind == KindMissing
}

// Number returns the numeric value and whether the cell is numeric.
func (c Cell) Number() (float64, bool) {
	return c.num, c.kind == KindNumber
}

// String returns the cell's string representation. Numbers use the
// shortest representation that round-trips; missing cells render empty.
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Equal reports whether two cells hold the same kind and value.
func (c Cell) Equal(other Cell) bool {
	if c.kind != other.kind {
		return false
	}
	switch c.kind {
	case KindText:
		return c.text == other.text
	case KindNumber:
		return c.num == other.num
	default:
		return true
	}
}
