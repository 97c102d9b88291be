package contexttools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
	"github.com/kubeops-ai/kubeops/internal/k8s"
	"github.com/kubeops-ai/kubeops/internal/registry"
	"github.com/kubeops-ai/kubeops/internal/tools"
)

type stubClient struct {
	k8s.Client

	contexts       []k8s.ContextInfo
	switchedTo     string
	namespaceSetTo string
}

func (s *stubClient) ListContexts(context.Context) ([]k8s.ContextInfo, error) {
	return s.contexts, nil
}

func (s *stubClient) CurrentContext() string   { return "staging" }
func (s *stubClient) CurrentNamespace() string { return "default" }

func (s *stubClient) SwitchContext(_ context.Context, name string) error {
	if name == "nonexistent" {
		return &errdefs.NotFoundError{Kind: "context", Name: name}
	}
	s.switchedTo = name
	return nil
}

func (s *stubClient) SetNamespace(_ context.Context, namespace string) error {
	s.namespaceSetTo = namespace
	return nil
}

func newRegistry(client *stubClient) *registry.ToolRegistry {
	reg := registry.NewToolRegistry()
	Register(reg, &tools.Deps{Client: client})
	return reg
}

func TestListContexts(t *testing.T) {
	client := &stubClient{contexts: []k8s.ContextInfo{
		{Name: "prod", Cluster: "prod-cluster", Current: false},
		{Name: "staging", Cluster: "staging-cluster", Current: true},
	}}
	reg := newRegistry(client)

	env, err := reg.Invoke(context.Background(), "list_contexts", nil)

	require.NoError(t, err)
	require.False(t, env.IsError)
	assert.Contains(t, env.Content[0].Text, `"name": "prod"`)
	assert.Contains(t, env.Content[0].Text, `"current": true`)
}

func TestGetCurrentContext(t *testing.T) {
	reg := newRegistry(&stubClient{})

	env, err := reg.Invoke(context.Background(), "get_current_context", nil)

	require.NoError(t, err)
	require.False(t, env.IsError)
	assert.Contains(t, env.Content[0].Text, `"context": "staging"`)
	assert.Contains(t, env.Content[0].Text, `"namespace": "default"`)
}

func TestSwitchContext(t *testing.T) {
	client := &stubClient{}
	reg := newRegistry(client)

	env, err := reg.Invoke(context.Background(), "switch_context", map[string]any{
		"context": "prod",
	})

	require.NoError(t, err)
	require.False(t, env.IsError)
	assert.Contains(t, env.Content[0].Text, `switched to context "prod"`)
	assert.Equal(t, "prod", client.switchedTo)
}

func TestSwitchContextUnknown(t *testing.T) {
	reg := newRegistry(&stubClient{})

	env, err := reg.Invoke(context.Background(), "switch_context", map[string]any{
		"context": "nonexistent",
	})

	require.NoError(t, err)
	assert.True(t, env.IsError)
	assert.Contains(t, env.Content[0].Text, "nonexistent")
}

func TestSetNamespace(t *testing.T) {
	client := &stubClient{}
	reg := newRegistry(client)

	env, err := reg.Invoke(context.Background(), "set_namespace", map[string]any{
		"namespace": "prod",
	})

	require.NoError(t, err)
	require.False(t, env.IsError)
	assert.Equal(t, "prod", client.namespaceSetTo)
}
