// Package command registers the kubectl-style command tool.
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/kubeops-ai/kubeops/internal/registry"
	"github.com/kubeops-ai/kubeops/internal/tools"
)

// Register adds the kubectl tool to the registry.
func Register(reg *registry.ToolRegistry, deps *tools.Deps) {
	reg.Register(registry.ToolDescriptor{
		Name:        "kubectl",
		Description: "Run a kubectl-style command (get, describe, delete, scale, logs, top, config, cluster-info, version) and return plain-text output",
		Params: []registry.Param{
			{
				Name:        "verb",
				Description: "Command verb",
				Kind:        registry.ParamString,
				Required:    true,
				Enum:        []string{"get", "describe", "delete", "scale", "logs", "top", "config", "cluster-info", "version"},
			},
			{
				Name:        "args",
				Description: "Positional arguments and flags, e.g. [\"pods\", \"-n\", \"kube-system\"]",
				Kind:        registry.ParamArray,
			},
		},
		Handler: handleKubectl(deps),
	})
}

// mutatingVerbs gate destructive kubectl invocations behind the safety
// configuration before the translator runs.
var mutatingVerbs = map[string]bool{
	"delete": true,
	"scale":  true,
}

func handleKubectl(deps *tools.Deps) registry.ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		verb := registry.StringArg(args, "verb", "")
		cmdArgs := registry.StringSliceArg(args, "args")
		if mutatingVerbs[verb] {
			if err := tools.CheckMutatingOperation(deps.Safety, verb); err != nil {
				return "", err
			}
			if deps.Safety.DryRun {
				return fmt.Sprintf("kubectl %s %s would be executed (dry run)\n", verb, strings.Join(cmdArgs, " ")), nil
			}
		}
		return deps.Translator.Run(ctx, verb, cmdArgs)
	}
}
