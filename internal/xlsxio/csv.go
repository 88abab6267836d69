package xlsxio

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"surveyqc/internal/qc"
	"surveyqc/internal/table"
)

// CSVOptions configures CSV export behavior.
type CSVOptions struct {
	// BOM prefixes the file with a UTF-8 BOM so Excel recognizes the
	// encoding.
	BOM bool
}

// WriteCSVFile writes a table to a CSV file, header first, missing cells
// rendered as empty fields.
func WriteCSVFile(path string, t *table.Table, opts CSVOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return qc.NewEncodingError(fmt.Errorf("failed to create directory: %w", err))
	}

	file, err := os.Create(path)
	if err != nil {
		return qc.NewEncodingError(fmt.Errorf("failed to create file: %w", err))
	}
	defer file.Close()

	if opts.BOM {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return qc.NewEncodingError(fmt.Errorf("failed to write BOM: %w", err))
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(t.Columns()); err != nil {
		return qc.NewEncodingError(fmt.Errorf("failed to write header: %w", err))
	}
	for i, record := range t.Records() {
		if err := writer.Write(record); err != nil {
			return qc.NewEncodingError(fmt.Errorf("failed to write record %d: %w", i, err))
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return qc.NewEncodingError(err)
	}

	slog.Info("wrote CSV file",
		slog.String("path", path),
		slog.Int("record_count", t.NumRows()))
	return nil
}
