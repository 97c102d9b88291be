package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubeops-ai/kubeops/internal/k8s"
)

type stubClient struct {
	k8s.Client

	probeErr error
}

func (s *stubClient) ServerVersion(context.Context) (string, error) { return "v1.30.2", nil }

func (s *stubClient) ListNamespaces(context.Context, int64) ([]string, error) {
	if s.probeErr != nil {
		return nil, s.probeErr
	}
	return []string{"default"}, nil
}

func (s *stubClient) CurrentContext() string   { return "staging" }
func (s *stubClient) CurrentNamespace() string { return "default" }
func (s *stubClient) CredentialSource() string { return "kubeconfig-path" }

func newTestServerContext(t *testing.T, opts ...Option) *ServerContext {
	t.Helper()

	opts = append([]Option{WithK8sClient(&stubClient{})}, opts...)
	sc, err := NewServerContext(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(sc.Shutdown)
	return sc
}

func TestNewServerContextRequiresClient(t *testing.T) {
	_, err := NewServerContext(context.Background())
	assert.ErrorIs(t, err, ErrMissingK8sClient)

	_, err = NewServerContext(context.Background(), WithK8sClient(nil))
	assert.ErrorIs(t, err, ErrMissingK8sClient)
}

func TestNewServerContextBuildsSurfaces(t *testing.T) {
	sc := newTestServerContext(t)
	d := sc.Dispatcher()
	require.NotNil(t, d)

	toolNames := make(map[string]bool)
	for _, desc := range d.ListTools() {
		toolNames[desc.Name] = true
	}
	for _, name := range []string{
		"kubernetes_get", "kubernetes_list", "kubernetes_describe",
		"kubernetes_delete", "kubernetes_scale", "kubernetes_manifest",
		"kubernetes_logs", "kubernetes_top",
		"list_contexts", "get_current_context", "switch_context", "set_namespace",
		"cluster_info", "cluster_version", "cluster_health", "api_resources",
		"kubectl",
	} {
		assert.True(t, toolNames[name], "tool %s not registered", name)
	}

	schemes := make(map[string]bool)
	for _, desc := range d.ListEntities() {
		schemes[desc.Scheme] = true
	}
	for _, scheme := range []string{
		"k8s-pod", "k8s-deployment", "k8s-service", "k8s-configmap",
		"k8s-namespace", "k8s-node", "k8s-manifest",
	} {
		assert.True(t, schemes[scheme], "entity scheme %s not registered", scheme)
	}
	assert.False(t, schemes["k8s-secret"])

	assert.Len(t, d.ListPrompts(), 4)
}

func TestNewServerContextAppliesOptions(t *testing.T) {
	sc := newTestServerContext(t,
		WithVersion("1.2.3"),
		WithNonDestructiveMode(false),
		WithDryRun(true),
		WithAllowedOperations([]string{"scale"}),
	)

	assert.Equal(t, "1.2.3", sc.Config().Version)
	assert.False(t, sc.Config().NonDestructiveMode)
	assert.True(t, sc.Config().DryRun)
	assert.Equal(t, []string{"scale"}, sc.Config().AllowedOperations)
}

func TestServerContextShutdown(t *testing.T) {
	sc := newTestServerContext(t)
	assert.False(t, sc.IsShutdown())

	sc.Shutdown()
	sc.Shutdown()

	assert.True(t, sc.IsShutdown())
	assert.ErrorIs(t, sc.Context().Err(), context.Canceled)
}
