package observability_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/bundlescope/internal/observability"
)

func recordingTracer(t *testing.T) (trace.Tracer, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	return tp.Tracer("test"), recorder
}

func newREDMetrics(t *testing.T) *observability.REDMetrics {
	t.Helper()

	metrics, metricsErr := observability.NewREDMetrics(noopmetric.NewMeterProvider().Meter("test"))
	require.NoError(t, metricsErr)

	return metrics
}

func TestHTTPMiddleware_CreatesServerSpan(t *testing.T) {
	t.Parallel()

	tracer, recorder := recordingTracer(t)

	handler := observability.HTTPMiddleware(tracer, newREDMetrics(t), http.HandlerFunc(
		func(rw http.ResponseWriter, _ *http.Request) {
			rw.WriteHeader(http.StatusOK)
		},
	))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/reports", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
}

func TestHTTPMiddleware_ServerErrorMarksSpan(t *testing.T) {
	t.Parallel()

	tracer, recorder := recordingTracer(t)

	handler := observability.HTTPMiddleware(tracer, nil, http.HandlerFunc(
		func(rw http.ResponseWriter, _ *http.Request) {
			http.Error(rw, "boom", http.StatusInternalServerError)
		},
	))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "Internal Server Error", spans[0].Status().Description)
}

func TestHTTPMiddleware_ImplicitOKStatus(t *testing.T) {
	t.Parallel()

	tracer, recorder := recordingTracer(t)

	handler := observability.HTTPMiddleware(tracer, nil, http.HandlerFunc(
		func(rw http.ResponseWriter, _ *http.Request) {
			// No explicit WriteHeader; first Write implies 200.
			_, writeErr := rw.Write([]byte("ok"))
			assert.NoError(t, writeErr)
		},
	))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestREDMetrics_RecordDoesNotPanic(t *testing.T) {
	t.Parallel()

	metrics := newREDMetrics(t)

	done := metrics.TrackInflight(context.Background(), "GET /")
	metrics.RecordRequest(context.Background(), "GET /", "200", 25*time.Millisecond)
	metrics.RecordRequest(context.Background(), "GET /", "error", time.Second)
	done()
}
