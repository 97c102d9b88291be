package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
)

func echoTool(name string) ToolDescriptor {
	return ToolDescriptor{
		Name:        name,
		Description: "echoes its input",
		Params: []Param{
			{Name: "message", Kind: ParamString, Required: true},
		},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			return args["message"].(string), nil
		},
	}
}

func TestToolRegistry_ListPreservesRegistrationOrder(t *testing.T) {
	r := NewToolRegistry()
	r.Register(echoTool("charlie"))
	r.Register(echoTool("alpha"))
	r.Register(echoTool("bravo"))

	names := make([]string, 0, 3)
	for _, desc := range r.List() {
		names = append(names, desc.Name)
	}
	assert.Equal(t, []string{"charlie", "alpha", "bravo"}, names)
}

func TestToolRegistry_SilentOverwrite(t *testing.T) {
	r := NewToolRegistry()
	r.Register(echoTool("echo"))
	r.Register(ToolDescriptor{
		Name: "echo",
		Handler: func(context.Context, map[string]any) (string, error) {
			return "replaced", nil
		},
	})

	require.Equal(t, 1, r.Len())
	env, err := r.Invoke(context.Background(), "echo", nil)
	require.NoError(t, err)
	assert.Equal(t, "replaced", env.Content[0].Text)
}

func TestToolRegistry_InvokeUnknown(t *testing.T) {
	r := NewToolRegistry()

	env, err := r.Invoke(context.Background(), "ghost", nil)

	assert.Nil(t, env)
	require.Error(t, err)
	assert.True(t, errdefs.IsNotFoundError(err))
	assert.Contains(t, err.Error(), `tool "ghost" not found`)
}

func TestToolRegistry_HandlerErrorContained(t *testing.T) {
	r := NewToolRegistry()
	r.Register(ToolDescriptor{
		Name: "boom",
		Handler: func(context.Context, map[string]any) (string, error) {
			return "", fmt.Errorf("cluster unreachable")
		},
	})

	env, err := r.Invoke(context.Background(), "boom", nil)

	require.NoError(t, err)
	require.NotNil(t, env)
	assert.True(t, env.IsError)
	assert.Equal(t, "cluster unreachable", env.Content[0].Text)
}

func TestToolRegistry_MissingRequiredArgContained(t *testing.T) {
	r := NewToolRegistry()
	r.Register(echoTool("echo"))

	env, err := r.Invoke(context.Background(), "echo", map[string]any{})

	require.NoError(t, err)
	assert.True(t, env.IsError)
	assert.Contains(t, env.Content[0].Text, `missing required argument "message"`)
}

func TestToolRegistry_KindValidation(t *testing.T) {
	r := NewToolRegistry()
	r.Register(ToolDescriptor{
		Name: "typed",
		Params: []Param{
			{Name: "count", Kind: ParamNumber},
			{Name: "dry_run", Kind: ParamBoolean},
			{Name: "mode", Kind: ParamString, Enum: []string{"fast", "slow"}},
		},
		Handler: func(context.Context, map[string]any) (string, error) {
			return "ok", nil
		},
	})

	tests := []struct {
		name    string
		args    map[string]any
		isError bool
	}{
		{"valid", map[string]any{"count": float64(3), "dry_run": true, "mode": "fast"}, false},
		{"count not a number", map[string]any{"count": "three"}, true},
		{"dry_run not a bool", map[string]any{"dry_run": "yes"}, true},
		{"mode outside enum", map[string]any{"mode": "medium"}, true},
		{"optional args absent", map[string]any{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := r.Invoke(context.Background(), "typed", tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.isError, env.IsError)
		})
	}
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{
		"name":  "web",
		"count": float64(5),
		"on":    true,
		"list":  []any{"a", "b"},
	}

	assert.Equal(t, "web", StringArg(args, "name", "x"))
	assert.Equal(t, "x", StringArg(args, "absent", "x"))
	assert.Equal(t, int64(5), IntArg(args, "count", 1))
	assert.Equal(t, int64(1), IntArg(args, "absent", 1))
	assert.True(t, BoolArg(args, "on", false))
	assert.False(t, BoolArg(args, "absent", false))
	assert.Equal(t, []string{"a", "b"}, StringSliceArg(args, "list"))
	assert.Nil(t, StringSliceArg(args, "absent"))
}
