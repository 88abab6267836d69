package qc

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"surveyqc/internal/table"
)

// DefaultKeyFields are the response columns treated as row identity when
// the caller does not configure their own.
func DefaultKeyFields() []string {
	return []string{"Respondent", "End time (GMT)", "Panel"}
}

// DefaultReconCleanseColumns are the recon sheet's free-text columns
// cleansed before the metadata join. Only Name participates in a join
// key; the rest are passenger columns normalized for readability.
func DefaultReconCleanseColumns() []string {
	return []string{
		"Name",
		"Question number",
		"Section",
		"Question Text",
		"Answer Option",
		"Loop Variable",
		"Matrix Dimension",
		"Double Loop Var1",
		"Double Loop Var2",
	}
}

// Options configures a QC build.
type Options struct {
	// KeyFields are the response columns carried through the reshape as
	// row identity. Configured names absent from the table are dropped
	// from the key set, not treated as errors.
	KeyFields []string `validate:"omitempty,dive,required"`
	// DropFromResponses are columns removed from the response table
	// before reshaping. Absent names are ignored.
	DropFromResponses []string `validate:"omitempty,dive,required"`
	// ReconCleanseColumns are the recon columns cleansed before the
	// metadata join.
	ReconCleanseColumns []string `validate:"omitempty,dive,required"`
	// CaseFold upper-cases cleansed text. On by default.
	CaseFold bool
}

// DefaultOptions returns the standard build configuration.
func DefaultOptions() Options {
	return Options{
		KeyFields:           DefaultKeyFields(),
		ReconCleanseColumns: DefaultReconCleanseColumns(),
		CaseFold:            true,
	}
}

// withDefaults fills unset option fields from DefaultOptions. CaseFold
// is deliberately not defaulted here; callers that want folding off set
// it explicitly via DefaultOptions or config.
func (o Options) withDefaults() Options {
	if o.KeyFields == nil {
		o.KeyFields = DefaultKeyFields()
	}
	if o.ReconCleanseColumns == nil {
		o.ReconCleanseColumns = DefaultReconCleanseColumns()
	}
	return o
}

// Inputs are the three source tables of one build.
type Inputs struct {
	Responses *table.Table
	Recon     *table.Table
	Numerical *table.Table
}

// Builder runs the QC reconciliation pipeline. It holds no state across
// builds; every run owns its intermediate tables exclusively.
type Builder struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewBuilder creates a pipeline builder. A nil logger falls back to the
// default slog logger.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		logger:   logger.With(slog.String("component", "qc_builder")),
		validate: validator.New(),
	}
}

// Build runs the full pipeline: prune and reshape the responses, cleanse
// the join keys on every side, then enrich first with recon metadata
// (inner join on Name) and then with numeric codes (left join on Value).
// On failure no partial output is returned.
func (b *Builder) Build(ctx context.Context, in Inputs, opts Options) (*table.Table, error) {
	runID := uuid.New().String()
	logger := b.logger.With(slog.String("run_id", runID))

	opts = opts.withDefaults()
	if err := b.validate.Struct(opts); err != nil {
		return nil, NewSchemaError("options", "invalid build options", err)
	}

	if in.Responses == nil {
		return nil, NewMissingInputError("input", "responses table is required")
	}
	if in.Recon == nil {
		return nil, NewMissingInputError("input", "recon table is required")
	}
	if !in.Recon.HasColumn(NameColumn) {
		return nil, NewMissingInputError("input", "recon table has no Name column")
	}
	if in.Numerical == nil {
		return nil, NewMissingInputError("input", "numerical recon table is required")
	}
	if !in.Numerical.HasColumn(ValueColumn) {
		return nil, NewMissingInputError("input", "numerical recon table has no Value column")
	}

	logger.InfoContext(ctx, "starting QC build",
		slog.Int("response_rows", in.Responses.NumRows()),
		slog.Int("recon_rows", in.Recon.NumRows()),
		slog.Int("numerical_rows", in.Numerical.NumRows()),
		slog.Bool("case_fold", opts.CaseFold),
	)

	pruned := Prune(in.Responses, opts.DropFromResponses)

	long, err := Reshape(pruned, opts.KeyFields)
	if err != nil {
		return nil, WrapError(err, "reshape", "failed to reshape responses")
	}
	logger.DebugContext(ctx, "reshaped responses",
		slog.Int("long_rows", long.NumRows()),
		slog.Int("value_columns", pruned.NumColumns()-len(pruned.Intersect(opts.KeyFields))),
	)

	// Normalize the join keys on both sides before each join.
	long = CleanseTable(long, append(pruned.Intersect(opts.KeyFields), NameColumn), opts.CaseFold)
	recon := CleanseTable(in.Recon, opts.ReconCleanseColumns, opts.CaseFold)

	joined, err := JoinRecon(long, recon)
	if err != nil {
		return nil, WrapError(err, "join_recon", "metadata enrichment failed")
	}
	logger.DebugContext(ctx, "joined recon metadata",
		slog.Int("long_rows", long.NumRows()),
		slog.Int("matched_rows", joined.NumRows()),
	)

	joined = CleanseTable(joined, []string{ValueColumn}, opts.CaseFold)
	numerical := CleanseTable(in.Numerical, []string{ValueColumn}, opts.CaseFold)

	out, err := JoinNumerical(joined, numerical)
	if err != nil {
		return nil, WrapError(err, "join_numerical", "numeric enrichment failed")
	}

	logger.InfoContext(ctx, "QC build complete",
		slog.Int("output_rows", out.NumRows()),
		slog.Int("output_columns", out.NumColumns()),
	)
	return out, nil
}
