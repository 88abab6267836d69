package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"surveyqc/internal/config"
)

func newTestApp() *App {
	cfg := config.Default()
	cfg.Security.RateLimit.Enabled = false
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return New(cfg, logger)
}

func TestApp_HealthRoute(t *testing.T) {
	a := newTestApp()

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestApp_QCRouteRejectsEmptyPost(t *testing.T) {
	a := newTestApp()

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/qc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApp_UnknownRoute(t *testing.T) {
	a := newTestApp()

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
