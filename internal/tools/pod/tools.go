// Package pod registers pod log and metrics tools.
package pod

import (
	"github.com/kubeops-ai/kubeops/internal/registry"
	"github.com/kubeops-ai/kubeops/internal/tools"
)

// Register adds the pod tools to the registry.
func Register(reg *registry.ToolRegistry, deps *tools.Deps) {
	reg.Register(registry.ToolDescriptor{
		Name:        "kubernetes_logs",
		Description: "Fetch logs from a pod container",
		Params: []registry.Param{
			{Name: "namespace", Description: "Namespace of the pod (defaults to the session namespace)", Kind: registry.ParamString},
			{Name: "pod", Description: "Name of the pod", Kind: registry.ParamString, Required: true},
			{Name: "container", Description: "Container name (defaults to the first container)", Kind: registry.ParamString},
			{Name: "lines", Description: "Number of trailing lines to return", Kind: registry.ParamNumber},
			{Name: "previous", Description: "Return logs from the previous container instance", Kind: registry.ParamBoolean},
			{Name: "timestamps", Description: "Prefix each line with its timestamp", Kind: registry.ParamBoolean},
		},
		Handler: handleLogs(deps),
	})

	reg.Register(registry.ToolDescriptor{
		Name:        "kubernetes_top",
		Description: "Show CPU and memory usage of pods from the metrics API",
		Params: []registry.Param{
			{Name: "namespace", Description: "Namespace to report on (defaults to the session namespace)", Kind: registry.ParamString},
		},
		Handler: handleTop(deps),
	})
}
