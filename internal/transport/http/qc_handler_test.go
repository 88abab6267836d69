package http

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"surveyqc/internal/config"
	"surveyqc/internal/qc"
	"surveyqc/internal/table"
	"surveyqc/internal/xlsxio"
)

func workbookBytes(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func newTestHandler(t *testing.T) *QCHandler {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := config.Default().Pipeline
	return NewQCHandler(qc.NewBuilder(logger), cfg, 10<<20, logger)
}

type uploadPart struct {
	field string
	data  []byte
}

func multipartRequest(t *testing.T, files []uploadPart, values map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.field+".xlsx")
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	for k, v := range values {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/qc", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func defaultUploads(t *testing.T) []uploadPart {
	t.Helper()
	return []uploadPart{
		{field: "responses", data: workbookBytes(t, "Sheet1", [][]interface{}{
			{"Respondent", "Q1", "Q2"},
			{"r1 ", " yes ", nil},
		})},
		{field: "recon", data: workbookBytes(t, "Master Recon", [][]interface{}{
			{"Name", "Section"},
			{"Q1", "A"},
		})},
		{field: "numerical", data: workbookBytes(t, "Sheet1", [][]interface{}{
			{"Value", "Code"},
			{"YES", 1.0},
		})},
	}
}

func TestQCHandler_BuildQC(t *testing.T) {
	handler := newTestHandler(t)

	t.Run("happy path returns the QC workbook", func(t *testing.T) {
		req := multipartRequest(t, defaultUploads(t), map[string]string{
			"key_fields": "Respondent",
		})
		rec := httptest.NewRecorder()

		handler.BuildQC(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "QC.xlsx")

		got, err := xlsxio.ReadSheet(bytes.NewReader(rec.Body.Bytes()), "Sheet1")
		require.NoError(t, err)
		assert.Equal(t, []string{"Respondent", "Name", "Value", "Section", "Code"}, got.Columns())
		require.Equal(t, 1, got.NumRows())

		c, _ := got.Cell(0, "Value")
		assert.Equal(t, "YES", c.String())
		c, _ = got.Cell(0, "Code")
		assert.True(t, c.Equal(table.Number(1)))
	})

	t.Run("missing file part is a validation error", func(t *testing.T) {
		uploads := defaultUploads(t)[:2]
		req := multipartRequest(t, uploads, nil)
		rec := httptest.NewRecorder()

		handler.BuildQC(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	})

	t.Run("recon without Name column maps to missing input", func(t *testing.T) {
		uploads := defaultUploads(t)
		uploads[1] = uploadPart{field: "recon", data: workbookBytes(t, "Master Recon", [][]interface{}{
			{"Section"},
			{"A"},
		})}
		req := multipartRequest(t, uploads, map[string]string{"key_fields": "Respondent"})
		rec := httptest.NewRecorder()

		handler.BuildQC(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "MISSING_REQUIRED_INPUT")
	})

	t.Run("unknown sheet name is reported", func(t *testing.T) {
		req := multipartRequest(t, defaultUploads(t), map[string]string{
			"responses_sheet": "No Such Sheet",
		})
		rec := httptest.NewRecorder()

		handler.BuildQC(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "UNREADABLE_WORKBOOK")
	})

	t.Run("output filename must be an xlsx name", func(t *testing.T) {
		req := multipartRequest(t, defaultUploads(t), map[string]string{
			"output_filename": "qc.exe",
		})
		rec := httptest.NewRecorder()

		handler.BuildQC(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	})

	t.Run("non-multipart body is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/qc", bytes.NewBufferString("plain"))
		rec := httptest.NewRecorder()

		handler.BuildQC(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
	})
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler("1.0.0")
	rec := httptest.NewRecorder()

	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
	assert.Contains(t, rec.Body.String(), "1.0.0")
}
