package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubeops-ai/kubeops/internal/instrumentation"
)

func newTestProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()

	p, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{
		Enabled:         true,
		ServiceName:     "kubeops-test",
		MetricsExporter: "prometheus",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p
}

func TestNewMetricsServer(t *testing.T) {
	t.Run("requires enabled provider", func(t *testing.T) {
		_, err := NewMetricsServer(MetricsServerConfig{Addr: ":9090"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "instrumentation provider")
	})

	t.Run("defaults addr", func(t *testing.T) {
		m, err := NewMetricsServer(MetricsServerConfig{Provider: newTestProvider(t)})
		require.NoError(t, err)
		assert.Equal(t, DefaultMetricsAddr, m.Addr())
	})

	t.Run("custom addr", func(t *testing.T) {
		m, err := NewMetricsServer(MetricsServerConfig{Addr: ":9191", Provider: newTestProvider(t)})
		require.NoError(t, err)
		assert.Equal(t, ":9191", m.Addr())
	})
}
