package pod

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kubeops-ai/kubeops/internal/k8s"
	"github.com/kubeops-ai/kubeops/internal/registry"
	"github.com/kubeops-ai/kubeops/internal/tools"
)

// DefaultLogLines bounds log reads when the caller does not ask for a
// specific tail length.
const DefaultLogLines = 100

func handleLogs(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		namespace := registry.StringArg(args, "namespace", "")
		podName := registry.StringArg(args, "pod", "")
		container := registry.StringArg(args, "container", "")
		lines := registry.IntArg(args, "lines", DefaultLogLines)

		opts := k8s.LogOptions{
			TailLines:  &lines,
			Previous:   registry.BoolArg(args, "previous", false),
			Timestamps: registry.BoolArg(args, "timestamps", false),
		}
		started := time.Now()
		logs, err := deps.Client.GetLogs(ctx, namespace, podName, container, opts)
		deps.Observe(ctx, "logs", "pods", namespace, started, err)
		if err != nil {
			return "", err
		}
		return logs, nil
	}
}

func handleTop(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		namespace := registry.StringArg(args, "namespace", "")

		started := time.Now()
		metrics, err := deps.Client.TopPods(ctx, namespace)
		deps.Observe(ctx, "top", "pods", namespace, started, err)
		if err != nil {
			return "", err
		}

		data, err := json.MarshalIndent(map[string]any{
			"pods":  metrics,
			"count": len(metrics),
		}, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal metrics: %w", err)
		}
		return string(data), nil
	}
}
