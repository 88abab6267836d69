package qc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyqc/internal/table"
)

func TestCleanseCell(t *testing.T) {
	tests := []struct {
		name  string
		cell  table.Cell
		upper bool
		want  table.Cell
	}{
		{
			name:  "trims and collapses whitespace",
			cell:  table.Text("  hello   there\tworld "),
			upper: false,
			want:  table.Text("hello there world"),
		},
		{
			name:  "upper cases when folding",
			cell:  table.Text(" yes "),
			upper: true,
			want:  table.Text("YES"),
		},
		{
			name:  "missing stays missing",
			cell:  table.Missing(),
			upper: true,
			want:  table.Missing(),
		},
		{
			name:  "number becomes its text representation",
			cell:  table.Number(1.5),
			upper: true,
			want:  table.Text("1.5"),
		},
		{
			name:  "whitespace only collapses to empty text",
			cell:  table.Text("   \t "),
			upper: true,
			want:  table.Text(""),
		},
		{
			name:  "non-breaking space is folded",
			cell:  table.Text("a\u00a0b"),
			upper: true,
			want:  table.Text("A B"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanseCell(tt.cell, tt.upper)
			assert.True(t, tt.want.Equal(got), "got %#v", got)
		})
	}
}

func TestCleanseCell_Idempotent(t *testing.T) {
	cells := []table.Cell{
		table.Text("  Some   Answer "),
		table.Text("ALREADY CLEAN"),
		table.Number(42),
		table.Missing(),
	}
	for _, upper := range []bool{true, false} {
		for _, c := range cells {
			once := CleanseCell(c, upper)
			twice := CleanseCell(once, upper)
			assert.True(t, once.Equal(twice), "cleanse not idempotent for %#v", c)
		}
	}
}

func TestCleanseColumn_PreservesMissing(t *testing.T) {
	in := []table.Cell{
		table.Text(" a "),
		table.Missing(),
		table.Number(3),
		table.Missing(),
	}

	out := CleanseColumn(in, true)

	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].IsMissing(), out[i].IsMissing(), "index %d", i)
	}
}

func TestCleanseTable(t *testing.T) {
	tbl := table.MustNew("Name", "Question Text", "Code")
	tbl.MustAppendRow(table.Text(" q1 "), table.Text("  What   is it? "), table.Number(7))

	t.Run("cleanses only named columns, skips absent", func(t *testing.T) {
		got := CleanseTable(tbl, []string{"Name", "No Such Column"}, true)

		c, _ := got.Cell(0, "Name")
		assert.Equal(t, "Q1", c.String())

		c, _ = got.Cell(0, "Question Text")
		assert.Equal(t, "  What   is it? ", c.String(), "unnamed column untouched")

		c, _ = got.Cell(0, "Code")
		assert.True(t, c.Equal(table.Number(7)))
	})

	t.Run("input table is untouched", func(t *testing.T) {
		_ = CleanseTable(tbl, []string{"Name"}, true)
		c, _ := tbl.Cell(0, "Name")
		assert.Equal(t, " q1 ", c.String())
	})
}
