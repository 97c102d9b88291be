// Package entities registers the URI-addressable resource schemes.
package entities

import (
	"context"
	"fmt"
	"strconv"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
	"github.com/kubeops-ai/kubeops/internal/k8s"
	"github.com/kubeops-ai/kubeops/internal/output"
	"github.com/kubeops-ai/kubeops/internal/registry"
)

const (
	mimeYAML = "application/yaml"
	mimeText = "text/plain"

	// DefaultLogLines bounds log reads when the lines query parameter is
	// absent.
	DefaultLogLines = "100"
)

// Deps carries the dependencies shared by every entity handler.
type Deps struct {
	Client k8s.Client
	Output output.Config
}

// Register adds all entity schemes to the registry.
func Register(reg *registry.EntityRegistry, deps *Deps) {
	reg.Register(registry.EntityDescriptor{
		Scheme:           "k8s-pod",
		URITemplate:      "k8s-pod://{namespace}/{name}{/view}",
		Description:      "Pod manifest, or its logs via the logs view",
		MIMEType:         mimeYAML,
		SegmentNames:     []string{"namespace", "name"},
		OptionalSegments: []string{"view"},
		QueryParams: []registry.QueryParam{
			{Name: "container"},
			{Name: "lines", Default: DefaultLogLines},
		},
		Handler: handlePod(deps),
	})

	for _, kind := range []struct {
		scheme       string
		resourceType string
	}{
		{"k8s-deployment", "deployments"},
		{"k8s-service", "services"},
		{"k8s-configmap", "configmaps"},
	} {
		reg.Register(registry.EntityDescriptor{
			Scheme:       kind.scheme,
			URITemplate:  fmt.Sprintf("%s://{namespace}/{name}", kind.scheme),
			Description:  fmt.Sprintf("Manifest of one of the namespace's %s", kind.resourceType),
			MIMEType:     mimeYAML,
			SegmentNames: []string{"namespace", "name"},
			Handler:      handleNamespaced(deps, kind.resourceType),
		})
	}

	for _, kind := range []struct {
		scheme       string
		resourceType string
	}{
		{"k8s-namespace", "namespaces"},
		{"k8s-node", "nodes"},
	} {
		reg.Register(registry.EntityDescriptor{
			Scheme:       kind.scheme,
			URITemplate:  fmt.Sprintf("%s://{name}", kind.scheme),
			Description:  fmt.Sprintf("Manifest of one of the cluster's %s", kind.resourceType),
			MIMEType:     mimeYAML,
			SegmentNames: []string{"name"},
			Handler:      handleClusterScoped(deps, kind.resourceType),
		})
	}

	reg.Register(registry.EntityDescriptor{
		Scheme:       "k8s-manifest",
		URITemplate:  "k8s-manifest://{type}/{namespace}/{name}",
		Description:  "Manifest of an arbitrary resource type",
		MIMEType:     mimeYAML,
		SegmentNames: []string{"type", "namespace", "name"},
		Handler:      handleManifest(deps),
	})
}

func renderManifest(deps *Deps, obj *unstructured.Unstructured) (string, error) {
	clean := output.MaskSecrets(obj.Object)
	if deps.Output.SlimOutput {
		clean = output.SlimResource(clean, deps.Output.ExcludedFields)
	}
	data, err := yaml.Marshal(clean)
	if err != nil {
		return "", fmt.Errorf("failed to render manifest: %w", err)
	}
	return string(data), nil
}

func readManifest(ctx context.Context, deps *Deps, namespace, resourceType, name string) (*registry.EntityContent, error) {
	obj, err := deps.Client.Get(ctx, namespace, resourceType, name)
	if err != nil {
		return nil, err
	}
	text, err := renderManifest(deps, obj)
	if err != nil {
		return nil, err
	}
	return &registry.EntityContent{Text: text}, nil
}

func handlePod(deps *Deps) registry.EntityHandler {
	return func(ctx context.Context, coords registry.Coordinates) (*registry.EntityContent, error) {
		namespace := coords.Segments["namespace"]
		name := coords.Segments["name"]

		view, hasView := coords.Segments["view"]
		if !hasView {
			return readManifest(ctx, deps, namespace, "pods", name)
		}
		if view != "logs" {
			return nil, errdefs.NewValidationError("unknown pod view %q, only logs is supported", view)
		}

		lines, err := strconv.ParseInt(coords.Query["lines"], 10, 64)
		if err != nil || lines <= 0 {
			return nil, errdefs.NewValidationError("lines must be a positive integer, got %q", coords.Query["lines"])
		}
		text, err := deps.Client.GetLogs(ctx, namespace, name, coords.Query["container"], k8s.LogOptions{
			TailLines: &lines,
		})
		if err != nil {
			return nil, err
		}
		return &registry.EntityContent{MIMEType: mimeText, Text: text}, nil
	}
}

func handleNamespaced(deps *Deps, resourceType string) registry.EntityHandler {
	return func(ctx context.Context, coords registry.Coordinates) (*registry.EntityContent, error) {
		return readManifest(ctx, deps, coords.Segments["namespace"], resourceType, coords.Segments["name"])
	}
}

func handleClusterScoped(deps *Deps, resourceType string) registry.EntityHandler {
	return func(ctx context.Context, coords registry.Coordinates) (*registry.EntityContent, error) {
		return readManifest(ctx, deps, "", resourceType, coords.Segments["name"])
	}
}

func handleManifest(deps *Deps) registry.EntityHandler {
	return func(ctx context.Context, coords registry.Coordinates) (*registry.EntityContent, error) {
		return readManifest(ctx, deps, coords.Segments["namespace"], coords.Segments["type"], coords.Segments["name"])
	}
}
