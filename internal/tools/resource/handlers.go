package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
	"github.com/kubeops-ai/kubeops/internal/k8s"
	"github.com/kubeops-ai/kubeops/internal/output"
	"github.com/kubeops-ai/kubeops/internal/registry"
	"github.com/kubeops-ai/kubeops/internal/tools"
)

func renderJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}
	return string(data), nil
}

func handleGet(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		namespace := registry.StringArg(args, "namespace", "")
		resourceType := registry.StringArg(args, "resourceType", "")
		name := registry.StringArg(args, "name", "")

		started := time.Now()
		obj, err := deps.Client.Get(ctx, namespace, resourceType, name)
		deps.Observe(ctx, "get", resourceType, namespace, started, err)
		if err != nil {
			return "", err
		}

		clean := output.Sanitize(obj, deps.Output)
		return renderJSON(map[string]any{"resource": clean.Object})
	}
}

func handleList(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		namespace := registry.StringArg(args, "namespace", "")
		resourceType := registry.StringArg(args, "resourceType", "")

		started := time.Now()
		list, err := deps.Client.List(ctx, namespace, resourceType, k8sListOptions(args))
		deps.Observe(ctx, "list", resourceType, namespace, started, err)
		if err != nil {
			return "", err
		}

		items := output.SanitizeList(list.Items, deps.Output)
		limit := int(registry.IntArg(args, "limit", int64(deps.Output.MaxItems)))
		items, warning := output.Truncate(items, limit)

		payload := make([]map[string]any, len(items))
		for i := range items {
			payload[i] = items[i].Object
		}
		response := map[string]any{
			"items": payload,
			"count": len(payload),
		}
		if warning != nil {
			response["truncation"] = warning
		}
		return renderJSON(response)
	}
}

func handleDescribe(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		namespace := registry.StringArg(args, "namespace", "")
		resourceType := registry.StringArg(args, "resourceType", "")
		name := registry.StringArg(args, "name", "")

		started := time.Now()
		desc, err := deps.Client.Describe(ctx, namespace, resourceType, name)
		deps.Observe(ctx, "describe", resourceType, namespace, started, err)
		if err != nil {
			return "", err
		}

		clean := output.Sanitize(desc.Resource, deps.Output)
		events := make([]map[string]any, 0, len(desc.Events))
		for _, ev := range desc.Events {
			events = append(events, map[string]any{
				"type":    ev.Type,
				"reason":  ev.Reason,
				"message": ev.Message,
				"count":   ev.Count,
			})
		}
		return renderJSON(map[string]any{
			"resource": clean.Object,
			"events":   events,
		})
	}
}

func handleDelete(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		if err := tools.CheckMutatingOperation(deps.Safety, "delete"); err != nil {
			return "", err
		}
		namespace := registry.StringArg(args, "namespace", "")
		resourceType := registry.StringArg(args, "resourceType", "")
		name := registry.StringArg(args, "name", "")

		if deps.Safety.DryRun {
			return fmt.Sprintf("%s %q would be deleted (dry run)", resourceType, name), nil
		}
		started := time.Now()
		err := deps.Client.Delete(ctx, namespace, resourceType, name)
		deps.Observe(ctx, "delete", resourceType, namespace, started, err)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %q deleted", resourceType, name), nil
	}
}

func handleScale(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		if err := tools.CheckMutatingOperation(deps.Safety, "scale"); err != nil {
			return "", err
		}
		namespace := registry.StringArg(args, "namespace", "")
		resourceType := registry.StringArg(args, "resourceType", "")
		name := registry.StringArg(args, "name", "")
		replicas := registry.IntArg(args, "replicas", -1)
		if replicas < 0 || replicas > math.MaxInt32 {
			return "", errdefs.NewValidationError("replicas must be between 0 and %d, got %d", math.MaxInt32, replicas)
		}

		if deps.Safety.DryRun {
			return fmt.Sprintf("%s %q would be scaled to %d replicas (dry run)", resourceType, name, replicas), nil
		}
		started := time.Now()
		err := deps.Client.Scale(ctx, namespace, resourceType, name, int32(replicas))
		deps.Observe(ctx, "scale", resourceType, namespace, started, err)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %q scaled to %d replicas", resourceType, name, replicas), nil
	}
}

func handleManifest(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		namespace := registry.StringArg(args, "namespace", "")
		resourceType := registry.StringArg(args, "resourceType", "")
		name := registry.StringArg(args, "name", "")

		started := time.Now()
		obj, err := deps.Client.Get(ctx, namespace, resourceType, name)
		deps.Observe(ctx, "get", resourceType, namespace, started, err)
		if err != nil {
			return "", err
		}

		clean := output.Sanitize(obj, deps.Output)
		data, err := yaml.Marshal(clean.Object)
		if err != nil {
			return "", fmt.Errorf("failed to render manifest: %w", err)
		}
		return string(data), nil
	}
}

func k8sListOptions(args map[string]any) k8s.ListOptions {
	return k8s.ListOptions{
		LabelSelector: registry.StringArg(args, "labelSelector", ""),
		FieldSelector: registry.StringArg(args, "fieldSelector", ""),
		Limit:         registry.IntArg(args, "limit", 0),
	}
}
