package prompts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubeops-ai/kubeops/internal/registry"
)

func newRegistry() *registry.PromptRegistry {
	reg := registry.NewPromptRegistry()
	Register(reg)
	return reg
}

func TestRegisterAddsAllWorkflows(t *testing.T) {
	reg := newRegistry()

	names := make([]string, 0, reg.Len())
	for _, desc := range reg.List() {
		names = append(names, desc.Name)
	}
	assert.Equal(t, []string{
		"troubleshoot-pod",
		"diagnose-cluster-health",
		"analyze-resource-usage",
		"plan-rollout",
	}, names)
}

func TestTroubleshootPod(t *testing.T) {
	reg := newRegistry()

	result, err := reg.Render(context.Background(), "troubleshoot-pod", map[string]string{
		"namespace": "prod",
		"pod":       "web-0",
	})

	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, result.Description, "prod/web-0")
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "user", result.Messages[0].Role)
	assert.Contains(t, result.Messages[0].Text, "kubernetes_describe")
	assert.Contains(t, result.Messages[0].Text, "kubernetes_logs")
	assert.Contains(t, result.Messages[0].Text, "namespace=prod")
}

func TestTroubleshootPodMissingArg(t *testing.T) {
	reg := newRegistry()

	result, err := reg.Render(context.Background(), "troubleshoot-pod", map[string]string{
		"namespace": "prod",
	})

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Messages[0].Text, "pod")
}

func TestDiagnoseClusterHealth(t *testing.T) {
	reg := newRegistry()

	result, err := reg.Render(context.Background(), "diagnose-cluster-health", nil)

	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, result.Messages[0].Text, "cluster_health")
	assert.Contains(t, result.Messages[0].Text, "kube-system")
}

func TestAnalyzeResourceUsage(t *testing.T) {
	t.Run("scoped to a namespace", func(t *testing.T) {
		reg := newRegistry()

		result, err := reg.Render(context.Background(), "analyze-resource-usage", map[string]string{
			"namespace": "prod",
		})

		require.NoError(t, err)
		assert.Contains(t, result.Description, `"prod"`)
		assert.Contains(t, result.Messages[0].Text, "namespace=prod")
	})

	t.Run("namespace optional", func(t *testing.T) {
		reg := newRegistry()

		result, err := reg.Render(context.Background(), "analyze-resource-usage", nil)

		require.NoError(t, err)
		require.False(t, result.IsError)
		assert.Contains(t, result.Description, "all namespaces")
	})
}

func TestPlanRollout(t *testing.T) {
	reg := newRegistry()

	result, err := reg.Render(context.Background(), "plan-rollout", map[string]string{
		"deployment": "web",
	})

	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, result.Description, "default/web")
	assert.Contains(t, result.Messages[0].Text, "rollback")
}
