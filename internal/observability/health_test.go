package observability_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/bundlescope/internal/observability"
)

func TestHealthHandler_AlwaysOK(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	observability.HealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyHandler_AllChecksPass(t *testing.T) {
	t.Parallel()

	handler := observability.ReadyHandler(func(_ context.Context) error { return nil })

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyHandler_FailingCheck(t *testing.T) {
	t.Parallel()

	handler := observability.ReadyHandler(func(_ context.Context) error { return errors.New("not ready") })

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestPrometheusHandler_ServesScrape(t *testing.T) {
	t.Parallel()

	handler, meter, handlerErr := observability.PrometheusHandler()
	assert.NoError(t, handlerErr)
	assert.NotNil(t, meter)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
