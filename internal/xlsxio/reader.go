package xlsxio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"surveyqc/internal/qc"
	"surveyqc/internal/table"
)

// Source identifies one input workbook and the sheet to read from it.
type Source struct {
	Path  string
	Sheet string
}

// Sources are the three workbooks of one QC build.
type Sources struct {
	Responses Source
	Recon     Source
	Numerical Source
}

// ReadSheetFile reads the named sheet of the workbook at path.
func ReadSheetFile(path, sheet string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return readSheet(f, sheet)
}

// ReadSheet reads the named sheet from an xlsx byte stream.
func ReadSheet(r io.Reader, sheet string) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return readSheet(f, sheet)
}

// readSheet converts a sheet to a table. The first row is the header;
// subsequent rows become data rows padded with missing cells where the
// sheet row is shorter than the header.
func readSheet(f *excelize.File, sheet string) (*table.Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}

	header := rows[0]
	// Drop trailing unnamed header cells; formatting artifacts in hand-
	// maintained sheets often leave them behind.
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	t, err := table.New(columns...)
	if err != nil {
		return nil, fmt.Errorf("sheet %q has an invalid header: %w", sheet, err)
	}

	for _, row := range rows[1:] {
		cells := make([]table.Cell, len(columns))
		for j := range columns {
			if j < len(row) {
				cells[j] = parseCell(row[j])
			} else {
				cells[j] = table.Missing()
			}
		}
		t.MustAppendRow(cells...)
	}

	slog.Debug("read sheet",
		slog.String("sheet", sheet),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumColumns()))
	return t, nil
}

// parseCell maps a sheet cell string to a table cell. Empty cells are
// missing; numeric-looking cells become numbers; everything else is
// text, verbatim.
func parseCell(s string) table.Cell {
	if s == "" {
		return table.Missing()
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return table.Number(f)
	}
	return table.Text(s)
}

// ReadInputs reads the three input workbooks concurrently and returns
// them as pipeline inputs. The first failure aborts the other reads.
func ReadInputs(ctx context.Context, src Sources) (qc.Inputs, error) {
	var in qc.Inputs

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := ReadSheetFile(src.Responses.Path, src.Responses.Sheet)
		if err != nil {
			return fmt.Errorf("responses: %w", err)
		}
		in.Responses = t
		return nil
	})
	g.Go(func() error {
		t, err := ReadSheetFile(src.Recon.Path, src.Recon.Sheet)
		if err != nil {
			return fmt.Errorf("recon: %w", err)
		}
		in.Recon = t
		return nil
	})
	g.Go(func() error {
		t, err := ReadSheetFile(src.Numerical.Path, src.Numerical.Sheet)
		if err != nil {
			return fmt.Errorf("numerical recon: %w", err)
		}
		in.Numerical = t
		return nil
	})

	if err := g.Wait(); err != nil {
		return qc.Inputs{}, qc.WrapError(err, "input", "failed to read input workbooks")
	}
	return in, nil
}
