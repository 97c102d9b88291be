// Package contexttools registers session context management tools.
package contexttools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kubeops-ai/kubeops/internal/registry"
	"github.com/kubeops-ai/kubeops/internal/tools"
)

// Register adds the context tools to the registry.
func Register(reg *registry.ToolRegistry, deps *tools.Deps) {
	reg.Register(registry.ToolDescriptor{
		Name:        "list_contexts",
		Description: "List the contexts available to the session's kubeconfig",
		Handler:     handleListContexts(deps),
	})

	reg.Register(registry.ToolDescriptor{
		Name:        "get_current_context",
		Description: "Show the session's current context and namespace",
		Handler:     handleCurrentContext(deps),
	})

	reg.Register(registry.ToolDescriptor{
		Name:        "switch_context",
		Description: "Switch the session to another kubeconfig context",
		Params: []registry.Param{
			{Name: "context", Description: "Name of the context to switch to", Kind: registry.ParamString, Required: true},
		},
		Handler: handleSwitchContext(deps),
	})

	reg.Register(registry.ToolDescriptor{
		Name:        "set_namespace",
		Description: "Change the session's default namespace",
		Params: []registry.Param{
			{Name: "namespace", Description: "Namespace to use for subsequent operations", Kind: registry.ParamString, Required: true},
		},
		Handler: handleSetNamespace(deps),
	})
}

func handleListContexts(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, _ map[string]any) (string, error) {
		contexts, err := deps.Client.ListContexts(ctx)
		if err != nil {
			return "", err
		}
		data, err := json.MarshalIndent(map[string]any{"contexts": contexts}, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal contexts: %w", err)
		}
		return string(data), nil
	}
}

func handleCurrentContext(deps *tools.Deps) registry.ToolHandler {
	return func(_ context.Context, _ map[string]any) (string, error) {
		data, err := json.MarshalIndent(map[string]any{
			"context":   deps.Client.CurrentContext(),
			"namespace": deps.Client.CurrentNamespace(),
		}, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal context info: %w", err)
		}
		return string(data), nil
	}
}

func handleSwitchContext(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		name := registry.StringArg(args, "context", "")
		if err := deps.Client.SwitchContext(ctx, name); err != nil {
			return "", err
		}
		return fmt.Sprintf("switched to context %q", name), nil
	}
}

func handleSetNamespace(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		namespace := registry.StringArg(args, "namespace", "")
		if err := deps.Client.SetNamespace(ctx, namespace); err != nil {
			return "", err
		}
		return fmt.Sprintf("namespace set to %q", namespace), nil
	}
}
