// Package cluster registers cluster-level inspection tools.
package cluster

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kubeops-ai/kubeops/internal/registry"
	"github.com/kubeops-ai/kubeops/internal/tools"
)

// Register adds the cluster tools to the registry.
func Register(reg *registry.ToolRegistry, deps *tools.Deps) {
	reg.Register(registry.ToolDescriptor{
		Name:        "cluster_info",
		Description: "Show connection metadata for the active cluster",
		Handler:     handleInfo(deps),
	})

	reg.Register(registry.ToolDescriptor{
		Name:        "cluster_version",
		Description: "Show the Kubernetes API server version",
		Handler:     handleVersion(deps),
	})

	reg.Register(registry.ToolDescriptor{
		Name:        "cluster_health",
		Description: "Probe API server reachability and report session health",
		Handler:     handleHealth(deps),
	})

	reg.Register(registry.ToolDescriptor{
		Name:        "api_resources",
		Description: "List the resource types the API server advertises",
		Handler:     handleAPIResources(deps),
	})
}

func marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}
	return string(data), nil
}

func handleInfo(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, _ map[string]any) (string, error) {
		info, err := deps.Client.ClusterInfo(ctx)
		if err != nil {
			return "", err
		}
		return marshal(info)
	}
}

func handleVersion(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, _ map[string]any) (string, error) {
		version, err := deps.Client.ServerVersion(ctx)
		if err != nil {
			return "", err
		}
		return marshal(map[string]string{"version": version})
	}
}

func handleHealth(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, _ map[string]any) (string, error) {
		details := map[string]string{
			"context":          deps.Client.CurrentContext(),
			"namespace":        deps.Client.CurrentNamespace(),
			"credentialSource": deps.Client.CredentialSource(),
		}
		if _, err := deps.Client.ListNamespaces(ctx, 1); err != nil {
			return marshal(map[string]any{
				"healthy": false,
				"message": fmt.Sprintf("API server unreachable: %v", err),
				"details": details,
			})
		}
		return marshal(map[string]any{
			"healthy": true,
			"message": "API server reachable",
			"details": details,
		})
	}
}

func handleAPIResources(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, _ map[string]any) (string, error) {
		resources, err := deps.Client.APIResources(ctx)
		if err != nil {
			return "", err
		}
		return marshal(map[string]any{
			"resources": resources,
			"count":     len(resources),
		})
	}
}
