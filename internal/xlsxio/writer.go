package xlsxio

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"surveyqc/internal/qc"
	"surveyqc/internal/table"
)

// DefaultOutputSheet is the sheet name used for generated workbooks.
const DefaultOutputSheet = "Sheet1"

// WriteTableBytes encodes a table as a single-sheet xlsx workbook and
// returns the serialized bytes. Failures are reported as encoding
// errors; no partial output is returned.
func WriteTableBytes(sheet string, t *table.Table) ([]byte, error) {
	f, err := buildWorkbook(sheet, t)
	if err != nil {
		return nil, qc.NewEncodingError(err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, qc.NewEncodingError(err)
	}
	return buf.Bytes(), nil
}

// WriteTableFile writes a table as a single-sheet xlsx workbook at path.
func WriteTableFile(path, sheet string, t *table.Table) error {
	f, err := buildWorkbook(sheet, t)
	if err != nil {
		return qc.NewEncodingError(err)
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return qc.NewEncodingError(fmt.Errorf("failed to save %s: %w", path, err))
	}
	slog.Info("wrote workbook",
		slog.String("path", path),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumColumns()))
	return nil
}

func buildWorkbook(sheet string, t *table.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if sheet != DefaultOutputSheet {
		if err := f.SetSheetName(DefaultOutputSheet, sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	header := make([]interface{}, t.NumColumns())
	for i, name := range t.Columns() {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		values := make([]interface{}, len(row))
		for j, c := range row {
			switch {
			case c.IsMissing():
				values[j] = nil
			default:
				if n, ok := c.Number(); ok {
					values[j] = n
				} else {
					values[j] = c.String()
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	return f, nil
}
