package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bundlescope/internal/observability"
)

func TestInit_NoEndpoint_NoopProviders(t *testing.T) {
	cfg := observability.DefaultConfig()

	providers, initErr := observability.Init(cfg)
	require.NoError(t, initErr)

	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)
	require.NotNil(t, providers.Logger)
	require.NotNil(t, providers.Shutdown)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_NoopTracerProducesInvalidSpans(t *testing.T) {
	providers, initErr := observability.Init(observability.DefaultConfig())
	require.NoError(t, initErr)

	_, span := providers.Tracer.Start(context.Background(), "op")
	defer span.End()

	assert.False(t, span.SpanContext().IsValid())
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()

	assert.Equal(t, "bundlescope", cfg.ServiceName)
	assert.Equal(t, observability.ModeCLI, cfg.Mode)
	assert.Empty(t, cfg.OTLPEndpoint)
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, observability.ParseOTLPHeaders(""))
	assert.Nil(t, observability.ParseOTLPHeaders("no-equals-sign"))

	headers := observability.ParseOTLPHeaders("x-token=abc, x-team = infra")
	require.NotNil(t, headers)
	assert.Equal(t, "abc", headers["x-token"])
	assert.Equal(t, "infra", headers["x-team"])
}
