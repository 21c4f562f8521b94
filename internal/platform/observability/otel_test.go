package observability

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitExportsMetricsToRegistry(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	registry := prometheus.NewRegistry()

	instruments, shutdown, err := Init(context.Background(), Options{
		ServiceName: "test",
		Environment: "test",
		LogOutput:   io.Discard,
		Registry:    registry,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })
	assert.Same(t, registry, instruments.Registry)

	counter, err := instruments.Meter("test").Int64Counter("routing.service.routes_optimized")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "routing_service_routes_optimized") {
			continue
		}
		found = true
		require.NotEmpty(t, mf.GetMetric())
		assert.Equal(t, 3.0, mf.GetMetric()[0].GetCounter().GetValue())
	}
	assert.True(t, found, "service counter not exported")
}

func TestInitCreatesRegistryWhenMissing(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	instruments, shutdown, err := Init(context.Background(), Options{ServiceName: "test", LogOutput: io.Discard})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })
	assert.NotNil(t, instruments.Registry)
}
