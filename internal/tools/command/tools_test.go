package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubeops-ai/kubeops/internal/command"
	"github.com/kubeops-ai/kubeops/internal/k8s"
	"github.com/kubeops-ai/kubeops/internal/registry"
	"github.com/kubeops-ai/kubeops/internal/tools"
)

type stubClient struct {
	k8s.Client

	deleted []string
}

func (s *stubClient) ServerVersion(context.Context) (string, error) { return "v1.30.2", nil }

func (s *stubClient) Delete(_ context.Context, namespace, resourceType, name string) error {
	s.deleted = append(s.deleted, resourceType+"/"+name)
	return nil
}

func newRegistry(client *stubClient, safety tools.SafetyConfig) *registry.ToolRegistry {
	reg := registry.NewToolRegistry()
	Register(reg, &tools.Deps{
		Client:     client,
		Translator: command.NewTranslator(client, nil),
		Safety:     safety,
	})
	return reg
}

func TestKubectlVersion(t *testing.T) {
	reg := newRegistry(&stubClient{}, tools.SafetyConfig{})

	env, err := reg.Invoke(context.Background(), "kubectl", map[string]any{
		"verb": "version",
	})

	require.NoError(t, err)
	require.False(t, env.IsError)
	assert.Contains(t, env.Content[0].Text, "v1.30.2")
}

func TestKubectlRejectsUnknownVerb(t *testing.T) {
	reg := newRegistry(&stubClient{}, tools.SafetyConfig{})

	env, err := reg.Invoke(context.Background(), "kubectl", map[string]any{
		"verb": "apply",
	})

	require.NoError(t, err)
	assert.True(t, env.IsError)
}

func TestKubectlDelete(t *testing.T) {
	client := &stubClient{}
	reg := newRegistry(client, tools.SafetyConfig{})

	env, err := reg.Invoke(context.Background(), "kubectl", map[string]any{
		"verb": "delete",
		"args": []any{"pods", "web-0"},
	})

	require.NoError(t, err)
	require.False(t, env.IsError)
	assert.Equal(t, []string{"pods/web-0"}, client.deleted)
}

func TestKubectlDeleteBlockedInNonDestructiveMode(t *testing.T) {
	client := &stubClient{}
	reg := newRegistry(client, tools.SafetyConfig{NonDestructiveMode: true})

	env, err := reg.Invoke(context.Background(), "kubectl", map[string]any{
		"verb": "delete",
		"args": []any{"pods", "web-0"},
	})

	require.NoError(t, err)
	assert.True(t, env.IsError)
	assert.Contains(t, env.Content[0].Text, "non-destructive mode")
	assert.Empty(t, client.deleted)
}

func TestKubectlDeleteDryRun(t *testing.T) {
	client := &stubClient{}
	reg := newRegistry(client, tools.SafetyConfig{NonDestructiveMode: true, DryRun: true})

	env, err := reg.Invoke(context.Background(), "kubectl", map[string]any{
		"verb": "delete",
		"args": []any{"pods", "web-0"},
	})

	require.NoError(t, err)
	require.False(t, env.IsError)
	assert.Contains(t, env.Content[0].Text, "would be executed (dry run)")
	assert.Empty(t, client.deleted)
}
