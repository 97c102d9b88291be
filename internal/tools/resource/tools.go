// Package resource registers the resource lifecycle tools.
package resource

import (
	"github.com/kubeops-ai/kubeops/internal/registry"
	"github.com/kubeops-ai/kubeops/internal/tools"
)

func namespaceParam() registry.Param {
	return registry.Param{
		Name:        "namespace",
		Description: "Namespace to operate in (defaults to the session namespace)",
		Kind:        registry.ParamString,
	}
}

func resourceTypeParam() registry.Param {
	return registry.Param{
		Name:        "resourceType",
		Description: "Resource type or alias, e.g. pods, deploy, svc",
		Kind:        registry.ParamString,
		Required:    true,
	}
}

func nameParam(desc string) registry.Param {
	return registry.Param{
		Name:        "name",
		Description: desc,
		Kind:        registry.ParamString,
		Required:    true,
	}
}

// Register adds the resource tools to the registry.
func Register(reg *registry.ToolRegistry, deps *tools.Deps) {
	reg.Register(registry.ToolDescriptor{
		Name:        "kubernetes_get",
		Description: "Get a single Kubernetes resource by type, namespace and name",
		Params: []registry.Param{
			namespaceParam(),
			resourceTypeParam(),
			nameParam("Name of the resource to get"),
		},
		Handler: handleGet(deps),
	})

	reg.Register(registry.ToolDescriptor{
		Name:        "kubernetes_list",
		Description: "List Kubernetes resources of a type, optionally filtered by selectors",
		Params: []registry.Param{
			namespaceParam(),
			resourceTypeParam(),
			{Name: "labelSelector", Description: "Label selector, e.g. app=nginx", Kind: registry.ParamString},
			{Name: "fieldSelector", Description: "Field selector, e.g. status.phase=Running", Kind: registry.ParamString},
			{Name: "limit", Description: "Maximum number of items to return", Kind: registry.ParamNumber},
		},
		Handler: handleList(deps),
	})

	reg.Register(registry.ToolDescriptor{
		Name:        "kubernetes_describe",
		Description: "Describe a Kubernetes resource with its recent events",
		Params: []registry.Param{
			namespaceParam(),
			resourceTypeParam(),
			nameParam("Name of the resource to describe"),
		},
		Handler: handleDescribe(deps),
	})

	reg.Register(registry.ToolDescriptor{
		Name:        "kubernetes_delete",
		Description: "Delete a Kubernetes resource",
		Params: []registry.Param{
			namespaceParam(),
			resourceTypeParam(),
			nameParam("Name of the resource to delete"),
		},
		Handler: handleDelete(deps),
	})

	reg.Register(registry.ToolDescriptor{
		Name:        "kubernetes_scale",
		Description: "Scale a deployment, replicaset or statefulset to a replica count",
		Params: []registry.Param{
			namespaceParam(),
			resourceTypeParam(),
			nameParam("Name of the resource to scale"),
			{Name: "replicas", Description: "Desired replica count", Kind: registry.ParamNumber, Required: true},
		},
		Handler: handleScale(deps),
	})

	reg.Register(registry.ToolDescriptor{
		Name:        "kubernetes_manifest",
		Description: "Fetch the full manifest of a resource as YAML",
		Params: []registry.Param{
			namespaceParam(),
			resourceTypeParam(),
			nameParam("Name of the resource"),
		},
		Handler: handleManifest(deps),
	})
}
