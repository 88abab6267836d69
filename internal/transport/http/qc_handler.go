package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"surveyqc/internal/config"
	apierrors "surveyqc/internal/errors"
	"surveyqc/internal/qc"
	"surveyqc/internal/table"
	"surveyqc/internal/xlsxio"
)

// xlsxContentType is the media type of the generated workbook.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// QCHandler accepts the three input workbooks as a multipart upload,
// runs the reconciliation pipeline, and responds with the QC workbook.
type QCHandler struct {
	builder  *qc.Builder
	cfg      config.PipelineConfig
	maxBytes int64
	logger   *slog.Logger
	validate *validator.Validate
}

// NewQCHandler creates a new QC handler.
func NewQCHandler(builder *qc.Builder, cfg config.PipelineConfig, maxBytes int64, logger *slog.Logger) *QCHandler {
	return &QCHandler{
		builder:  builder,
		cfg:      cfg,
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", "qc_handler")),
		validate: validator.New(),
	}
}

// Routes returns the QC routes.
func (h *QCHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.BuildQC)
	return r
}

// buildRequest carries the per-request overrides of the pipeline
// configuration, parsed from multipart form values.
type buildRequest struct {
	ResponsesSheet string `validate:"required"`
	ReconSheet     string `validate:"required"`
	NumericalSheet string `validate:"required"`
	OutputFilename string `validate:"required,endswith=.xlsx"`
	Options        qc.Options
}

// BuildQC handles POST /api/qc. The request is a multipart form with
// three file parts (responses, recon, numerical) and optional value
// parts overriding the configured sheet names, key fields, drop list,
// case folding, and output filename.
func (h *QCHandler) BuildQC(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		apierrors.WriteError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse multipart form", err.Error()))
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := h.parseRequest(r)
	if err := h.validate.Struct(req); err != nil {
		apierrors.WriteError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest, "VALIDATION_FAILED", "Invalid build parameters", err.Error()))
		return
	}

	responses, apiErr := h.readUpload(r, "responses", req.ResponsesSheet)
	if apiErr != nil {
		apierrors.WriteError(w, r, apiErr)
		return
	}
	recon, apiErr := h.readUpload(r, "recon", req.ReconSheet)
	if apiErr != nil {
		apierrors.WriteError(w, r, apiErr)
		return
	}
	numerical, apiErr := h.readUpload(r, "numerical", req.NumericalSheet)
	if apiErr != nil {
		apierrors.WriteError(w, r, apiErr)
		return
	}

	h.logger.InfoContext(ctx, "running QC build",
		slog.Int("response_rows", responses.NumRows()),
		slog.Int("recon_rows", recon.NumRows()),
		slog.Int("numerical_rows", numerical.NumRows()),
	)

	out, err := h.builder.Build(ctx, qc.Inputs{
		Responses: responses,
		Recon:     recon,
		Numerical: numerical,
	}, req.Options)
	if err != nil {
		h.logger.ErrorContext(ctx, "QC build failed", slog.String("error", err.Error()))
		apierrors.WriteError(w, r, apierrors.FromPipelineError(err))
		return
	}

	data, err := xlsxio.WriteTableBytes(h.cfg.OutputSheet, out)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encode QC workbook", slog.String("error", err.Error()))
		apierrors.WriteError(w, r, apierrors.FromPipelineError(err))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+req.OutputFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// parseRequest builds the request from form values, falling back to the
// configured pipeline defaults for anything the client leaves out.
func (h *QCHandler) parseRequest(r *http.Request) buildRequest {
	req := buildRequest{
		ResponsesSheet: formValueOr(r, "responses_sheet", h.cfg.ResponsesSheet),
		ReconSheet:     formValueOr(r, "recon_sheet", h.cfg.ReconSheet),
		NumericalSheet: formValueOr(r, "numerical_sheet", h.cfg.NumericalSheet),
		OutputFilename: formValueOr(r, "output_filename", "QC.xlsx"),
		Options: qc.Options{
			KeyFields:         append([]string(nil), h.cfg.KeyFields...),
			DropFromResponses: append([]string(nil), h.cfg.DropFromResponses...),
			CaseFold:          h.cfg.CaseFold,
		},
	}

	if v := r.FormValue("key_fields"); v != "" {
		req.Options.KeyFields = splitList(v, ",")
	}
	if v := r.FormValue("drop_from_responses"); v != "" {
		req.Options.DropFromResponses = splitList(v, "\n")
	}
	if v := r.FormValue("case_fold"); v != "" {
		if fold, err := strconv.ParseBool(v); err == nil {
			req.Options.CaseFold = fold
		}
	}
	return req
}

// readUpload opens the named file part and reads its sheet into a table.
func (h *QCHandler) readUpload(r *http.Request, field, sheet string) (*table.Table, *apierrors.APIError) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, apierrors.ErrValidation(field, "file is required")
	}
	defer file.Close()

	t, err := xlsxio.ReadSheet(file, sheet)
	if err != nil {
		return nil, apierrors.NewWithDetails(
			http.StatusBadRequest, "UNREADABLE_WORKBOOK",
			"Failed to read sheet \""+sheet+"\" from the "+field+" workbook", err.Error())
	}
	return t, nil
}

func formValueOr(r *http.Request, key, fallback string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return fallback
}

// splitList splits a separated form value into trimmed, non-empty items.
func splitList(v, sep string) []string {
	var out []string
	for _, item := range strings.Split(v, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
