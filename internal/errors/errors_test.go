package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"surveyqc/internal/qc"
)

func TestFromPipelineError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing input maps to 400",
			err:        qc.NewMissingInputError("input", "recon table is required"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "MISSING_REQUIRED_INPUT",
		},
		{
			name:       "schema maps to 422",
			err:        qc.NewSchemaError("reshape", "bad key fields", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "SCHEMA_MISMATCH",
		},
		{
			name:       "encoding maps to 500",
			err:        qc.NewEncodingError(errors.New("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "ENCODING_FAILED",
		},
		{
			name:       "execution maps to 500",
			err:        qc.WrapError(errors.New("boom"), "join_recon", "failed"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "PIPELINE_FAILED",
		},
		{
			name:       "foreign error maps to 500",
			err:        errors.New("something else"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromPipelineError(tt.err)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.ErrorCode)
		})
	}
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("responses", "file is required")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
	assert.NotNil(t, err.Details)
}
