package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"surveyqc/internal/config"
	"surveyqc/internal/infrastructure"
	"surveyqc/internal/qc"
	"surveyqc/internal/xlsxio"
)

func main() {
	responses := flag.String("responses", "", "path to the responses workbook (.xlsx)")
	recon := flag.String("recon", "", "path to the recon workbook (.xlsm/.xlsx)")
	numerical := flag.String("numerical", "", "path to the numerical recon workbook (.xlsx)")
	out := flag.String("out", "QC.xlsx", "output path (.xlsx, or .csv for CSV export)")
	responsesSheet := flag.String("responses-sheet", "", "responses sheet name (defaults from config)")
	reconSheet := flag.String("recon-sheet", "", "recon sheet name (defaults from config)")
	numericalSheet := flag.String("numerical-sheet", "", "numerical recon sheet name (defaults from config)")
	keyFields := flag.String("key-fields", "", "comma-separated key fields (defaults from config)")
	dropCols := flag.String("drop", "", "comma-separated columns to drop from responses")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if *responses == "" || *recon == "" || *numerical == "" {
		logger.Error("all three input workbooks are required: -responses, -recon, -numerical")
		flag.Usage()
		os.Exit(2)
	}

	opts := qc.Options{
		KeyFields:         cfg.Pipeline.KeyFields,
		DropFromResponses: cfg.Pipeline.DropFromResponses,
		CaseFold:          cfg.Pipeline.CaseFold,
	}
	if *keyFields != "" {
		opts.KeyFields = splitList(*keyFields)
	}
	if *dropCols != "" {
		opts.DropFromResponses = splitList(*dropCols)
	}

	ctx := infrastructure.EnsureTraceID(context.Background())

	in, err := xlsxio.ReadInputs(ctx, xlsxio.Sources{
		Responses: xlsxio.Source{Path: *responses, Sheet: sheetOr(*responsesSheet, cfg.Pipeline.ResponsesSheet)},
		Recon:     xlsxio.Source{Path: *recon, Sheet: sheetOr(*reconSheet, cfg.Pipeline.ReconSheet)},
		Numerical: xlsxio.Source{Path: *numerical, Sheet: sheetOr(*numericalSheet, cfg.Pipeline.NumericalSheet)},
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to read inputs", "error", err)
		os.Exit(1)
	}

	builder := qc.NewBuilder(logger)
	result, err := builder.Build(ctx, in, opts)
	if err != nil {
		logger.ErrorContext(ctx, "QC build failed", "error", err)
		os.Exit(1)
	}

	if strings.HasSuffix(strings.ToLower(*out), ".csv") {
		err = xlsxio.WriteCSVFile(*out, result, xlsxio.CSVOptions{BOM: true})
	} else {
		err = xlsxio.WriteTableFile(*out, cfg.Pipeline.OutputSheet, result)
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to write output", "error", err, "path", *out)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "QC output written",
		"path", *out,
		"rows", result.NumRows(),
		"columns", result.NumColumns(),
	)
}

func sheetOr(flagValue, configured string) string {
	if flagValue != "" {
		return flagValue
	}
	return configured
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
