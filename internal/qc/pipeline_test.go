package qc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyqc/internal/table"
)

func buildInputs() Inputs {
	responses := table.MustNew("Respondent", "Q1", "Q2")
	responses.MustAppendRow(table.Text("r1 "), table.Text(" yes "), table.Missing())

	recon := table.MustNew("Name", "Section")
	recon.MustAppendRow(table.Text("Q1"), table.Text("A"))

	numerical := table.MustNew("Value", "Code")
	numerical.MustAppendRow(table.Text("YES"), table.Number(1))

	return Inputs{Responses: responses, Recon: recon, Numerical: numerical}
}

func TestBuilder_Build(t *testing.T) {
	ctx := context.Background()
	builder := NewBuilder(nil)

	t.Run("end to end single row", func(t *testing.T) {
		opts := DefaultOptions()
		opts.KeyFields = []string{"Respondent"}

		got, err := builder.Build(ctx, buildInputs(), opts)
		require.NoError(t, err)

		require.Equal(t, 1, got.NumRows())
		assert.Equal(t, []string{"Respondent", "Name", "Value", "Section", "Code"}, got.Columns())

		c, _ := got.Cell(0, "Respondent")
		assert.Equal(t, "R1", c.String())
		c, _ = got.Cell(0, "Name")
		assert.Equal(t, "Q1", c.String())
		c, _ = got.Cell(0, "Value")
		assert.Equal(t, "YES", c.String())
		c, _ = got.Cell(0, "Section")
		assert.Equal(t, "A", c.String())
		c, _ = got.Cell(0, "Code")
		assert.True(t, c.Equal(table.Number(1)))
	})

	t.Run("question missing from recon is dropped", func(t *testing.T) {
		in := buildInputs()
		responses := table.MustNew("Respondent", "Q1", "Q9")
		responses.MustAppendRow(table.Text("r1"), table.Text("yes"), table.Text("other"))
		in.Responses = responses

		opts := DefaultOptions()
		opts.KeyFields = []string{"Respondent"}

		got, err := builder.Build(ctx, in, opts)
		require.NoError(t, err)

		require.Equal(t, 1, got.NumRows())
		c, _ := got.Cell(0, "Name")
		assert.Equal(t, "Q1", c.String())
	})

	t.Run("value missing from numerical keeps row with missing code", func(t *testing.T) {
		in := buildInputs()
		in.Numerical = table.MustNew("Value", "Code")

		opts := DefaultOptions()
		opts.KeyFields = []string{"Respondent"}

		got, err := builder.Build(ctx, in, opts)
		require.NoError(t, err)

		require.Equal(t, 1, got.NumRows())
		c, _ := got.Cell(0, "Code")
		assert.True(t, c.IsMissing())
	})

	t.Run("drop list is applied before reshape", func(t *testing.T) {
		in := buildInputs()
		responses := table.MustNew("Respondent", "Status", "Q1")
		responses.MustAppendRow(table.Text("r1"), table.Text("complete"), table.Text("yes"))
		in.Responses = responses
		in.Recon.MustAppendRow(table.Text("STATUS"), table.Text("X"))

		opts := DefaultOptions()
		opts.KeyFields = []string{"Respondent"}
		opts.DropFromResponses = []string{"Status", "Not A Column"}

		got, err := builder.Build(ctx, in, opts)
		require.NoError(t, err)

		require.Equal(t, 1, got.NumRows())
		c, _ := got.Cell(0, "Name")
		assert.Equal(t, "Q1", c.String(), "Status must not survive as a question")
	})

	t.Run("case fold off preserves case", func(t *testing.T) {
		in := buildInputs()
		recon := table.MustNew("Name", "Section")
		recon.MustAppendRow(table.Text("Q1"), table.Text("A"))
		in.Recon = recon
		numerical := table.MustNew("Value", "Code")
		numerical.MustAppendRow(table.Text("yes"), table.Number(1))
		in.Numerical = numerical

		opts := DefaultOptions()
		opts.KeyFields = []string{"Respondent"}
		opts.CaseFold = false

		got, err := builder.Build(ctx, in, opts)
		require.NoError(t, err)

		require.Equal(t, 1, got.NumRows())
		c, _ := got.Cell(0, "Value")
		assert.Equal(t, "yes", c.String())
		c, _ = got.Cell(0, "Code")
		assert.True(t, c.Equal(table.Number(1)))
	})

	t.Run("empty inputs produce an empty result, not an error", func(t *testing.T) {
		in := Inputs{
			Responses: table.MustNew("Respondent", "Q1"),
			Recon:     table.MustNew("Name", "Section"),
			Numerical: table.MustNew("Value", "Code"),
		}

		got, err := builder.Build(ctx, in, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, 0, got.NumRows())
	})

	t.Run("missing inputs error", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*Inputs)
		}{
			{name: "nil responses", mutate: func(in *Inputs) { in.Responses = nil }},
			{name: "nil recon", mutate: func(in *Inputs) { in.Recon = nil }},
			{name: "nil numerical", mutate: func(in *Inputs) { in.Numerical = nil }},
			{name: "recon without Name", mutate: func(in *Inputs) { in.Recon = table.MustNew("Section") }},
			{name: "numerical without Value", mutate: func(in *Inputs) { in.Numerical = table.MustNew("Code") }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				in := buildInputs()
				tt.mutate(&in)
				_, err := builder.Build(ctx, in, DefaultOptions())
				require.Error(t, err)
				assert.Equal(t, ErrKindMissingInput, KindOf(err))
			})
		}
	})

	t.Run("input tables are never mutated", func(t *testing.T) {
		in := buildInputs()
		opts := DefaultOptions()
		opts.KeyFields = []string{"Respondent"}

		_, err := builder.Build(ctx, in, opts)
		require.NoError(t, err)

		c, _ := in.Responses.Cell(0, "Respondent")
		assert.Equal(t, "r1 ", c.String())
		c, _ = in.Recon.Cell(0, "Name")
		assert.Equal(t, "Q1", c.String())
		c, _ = in.Numerical.Cell(0, "Value")
		assert.Equal(t, "YES", c.String())
	})
}
