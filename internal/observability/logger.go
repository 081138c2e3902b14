package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// TracingHandler decorates an [slog.Handler] with span correlation: records
// logged inside an active span carry trace_id and span_id. The service
// identity (service, mode, env) is attached once at construction, before
// any WithGroup call, so those keys stay at the record's top level.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner with span correlation and the service
// identity taken from cfg. An empty ServiceName falls back to the default.
func NewTracingHandler(inner slog.Handler, cfg Config) *TracingHandler {
	service := cfg.ServiceName
	if service == "" {
		service = defaultServiceName
	}

	identity := []slog.Attr{
		slog.String("service", service),
		slog.String("mode", string(cfg.Mode)),
	}

	if cfg.Environment != "" {
		identity = append(identity, slog.String("env", cfg.Environment))
	}

	return &TracingHandler{inner: inner.WithAttrs(identity)}
}

// Enabled reports whether the wrapped handler records at this level.
func (h *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle stamps the record with the ambient span context, when one exists,
// then delegates to the wrapped handler.
func (h *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	handleErr := h.inner.Handle(ctx, record)
	if handleErr != nil {
		return fmt.Errorf("emit log record: %w", handleErr)
	}

	return nil
}

// WithAttrs wraps the inner handler's derived handler.
func (h *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup wraps the inner handler's derived handler.
func (h *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: h.inner.WithGroup(name)}
}
