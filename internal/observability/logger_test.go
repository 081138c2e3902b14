package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Sumatoshi-tech/bundlescope/internal/observability"
)

func newBufferLogger(buf *bytes.Buffer, cfg observability.Config) *slog.Logger {
	inner := slog.NewJSONHandler(buf, nil)

	return slog.New(observability.NewTracingHandler(inner, cfg))
}

func TestTracingHandler_ServiceIdentity(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newBufferLogger(&buf, observability.Config{
		ServiceName: "bundlescope",
		Environment: "dev",
		Mode:        observability.ModeServe,
	})

	logger.Info("hello")

	out := buf.String()
	assert.Contains(t, out, `"service":"bundlescope"`)
	assert.Contains(t, out, `"env":"dev"`)
	assert.Contains(t, out, `"mode":"serve"`)
}

func TestTracingHandler_DefaultServiceName(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newBufferLogger(&buf, observability.Config{Mode: observability.ModeCLI})

	logger.Info("hello")

	out := buf.String()
	assert.Contains(t, out, `"service":"bundlescope"`)
	assert.NotContains(t, out, `"env":`)
}

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newBufferLogger(&buf, observability.DefaultConfig())

	tp := sdktrace.NewTracerProvider()
	defer func() { require.NoError(t, tp.Shutdown(context.Background())) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.InfoContext(ctx, "traced")

	out := buf.String()
	assert.Contains(t, out, `"trace_id":"`+span.SpanContext().TraceID().String()+`"`)
	assert.Contains(t, out, `"span_id":"`+span.SpanContext().SpanID().String()+`"`)
}

func TestTracingHandler_NoSpan_NoTraceAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newBufferLogger(&buf, observability.DefaultConfig())

	logger.Info("plain")

	assert.NotContains(t, buf.String(), "trace_id")
}

func TestTracingHandler_GroupKeepsIdentityTopLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newBufferLogger(&buf, observability.Config{
		ServiceName: "bundlescope",
		Mode:        observability.ModeMCP,
	})

	logger.WithGroup("request").Info("grouped", "path", "/api/reports")

	out := buf.String()
	assert.Contains(t, out, `"service":"bundlescope"`)
	assert.Contains(t, out, `"mode":"mcp"`)
	assert.Contains(t, out, `"request":{"path":"/api/reports"}`)
}
