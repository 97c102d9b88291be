// Package prompts registers the guided diagnostic workflows.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/kubeops-ai/kubeops/internal/registry"
)

// Register adds all workflows to the registry.
func Register(reg *registry.PromptRegistry) {
	reg.Register(registry.PromptDescriptor{
		Name:        "troubleshoot-pod",
		Description: "Step-by-step diagnosis of a failing pod",
		Args: []registry.PromptArg{
			{Name: "namespace", Description: "Namespace of the pod", Required: true},
			{Name: "pod", Description: "Name of the pod to troubleshoot", Required: true},
		},
		Handler: troubleshootPod,
	})

	reg.Register(registry.PromptDescriptor{
		Name:        "diagnose-cluster-health",
		Description: "Survey cluster-wide health signals",
		Handler:     diagnoseClusterHealth,
	})

	reg.Register(registry.PromptDescriptor{
		Name:        "analyze-resource-usage",
		Description: "Review CPU and memory consumption against requests",
		Args: []registry.PromptArg{
			{Name: "namespace", Description: "Namespace to analyze (all namespaces when omitted)"},
		},
		Handler: analyzeResourceUsage,
	})

	reg.Register(registry.PromptDescriptor{
		Name:        "plan-rollout",
		Description: "Plan a safe rollout for a deployment",
		Args: []registry.PromptArg{
			{Name: "deployment", Description: "Name of the deployment to roll out", Required: true},
			{Name: "namespace", Description: "Namespace of the deployment"},
		},
		Handler: planRollout,
	})
}

func troubleshootPod(_ context.Context, args map[string]string) (*registry.PromptResult, error) {
	namespace := args["namespace"]
	pod := args["pod"]

	steps := []string{
		fmt.Sprintf("1. Inspect the pod state: call kubernetes_describe with resourceType=pods, namespace=%s, name=%s and read the status phase, container states and recent events.", namespace, pod),
		fmt.Sprintf("2. Check the logs: call kubernetes_logs with namespace=%s, pod=%s. Add previous=true if the container restarted.", namespace, pod),
		"3. Classify the failure: image pull errors point to registry or tag problems, CrashLoopBackOff to application startup, Pending to scheduling or resource pressure, OOMKilled to memory limits.",
		fmt.Sprintf("4. Check resource pressure: call kubernetes_top with namespace=%s and compare usage against the pod's requests and limits.", namespace),
		"5. Summarize the root cause and the smallest fix, and state what evidence supports it.",
	}

	return &registry.PromptResult{
		Description: fmt.Sprintf("Troubleshooting plan for pod %s/%s", namespace, pod),
		Messages: []registry.PromptMessage{
			{Role: "user", Text: fmt.Sprintf("Diagnose why pod %q in namespace %q is unhealthy. Work through these steps and report findings after each:\n\n%s", pod, namespace, strings.Join(steps, "\n"))},
		},
	}, nil
}

func diagnoseClusterHealth(_ context.Context, _ map[string]string) (*registry.PromptResult, error) {
	steps := []string{
		"1. Call cluster_health to confirm the API server is reachable and note the active context.",
		"2. Call cluster_version and flag unsupported or end-of-life Kubernetes versions.",
		"3. Call kubectl with verb=get and args=[\"nodes\"] and report nodes that are not Ready.",
		"4. Call kubernetes_list with resourceType=pods, namespace=kube-system and report pods that are not Running.",
		"5. Call kubernetes_top for kube-system and flag components consuming unusual CPU or memory.",
		"6. Summarize the cluster state as healthy, degraded or critical, with the evidence for each finding.",
	}

	return &registry.PromptResult{
		Description: "Cluster-wide health survey",
		Messages: []registry.PromptMessage{
			{Role: "user", Text: "Assess the overall health of the cluster. Work through these steps:\n\n" + strings.Join(steps, "\n")},
		},
	}, nil
}

func analyzeResourceUsage(_ context.Context, args map[string]string) (*registry.PromptResult, error) {
	scope := "across all namespaces"
	topHint := "for each namespace of interest"
	if ns := args["namespace"]; ns != "" {
		scope = fmt.Sprintf("in namespace %q", ns)
		topHint = fmt.Sprintf("with namespace=%s", ns)
	}

	steps := []string{
		fmt.Sprintf("1. Call kubernetes_top %s to get current CPU and memory usage per pod.", topHint),
		"2. Call kubernetes_list with resourceType=pods and read the resource requests and limits of the heaviest pods.",
		"3. Identify pods using far more than requested (at risk of eviction or throttling) and pods using far less (over-provisioned).",
		"4. Recommend concrete request and limit adjustments per workload.",
	}

	return &registry.PromptResult{
		Description: fmt.Sprintf("Resource usage analysis %s", scope),
		Messages: []registry.PromptMessage{
			{Role: "user", Text: fmt.Sprintf("Analyze resource consumption %s. Work through these steps:\n\n%s", scope, strings.Join(steps, "\n"))},
		},
	}, nil
}

func planRollout(_ context.Context, args map[string]string) (*registry.PromptResult, error) {
	deployment := args["deployment"]
	namespace := args["namespace"]
	if namespace == "" {
		namespace = "default"
	}

	steps := []string{
		fmt.Sprintf("1. Call kubernetes_get with resourceType=deployments, namespace=%s, name=%s and record the current image, replica count and update strategy.", namespace, deployment),
		"2. Call kubernetes_describe for the same deployment and check for recent rollout events or failures.",
		"3. Verify readiness and liveness probes exist; a rollout without probes cannot fail fast.",
		"4. Confirm the rolling update surge and unavailability settings fit the replica count.",
		"5. Propose the rollout plan: pre-checks, the change itself, how to watch progress, and the rollback command if pods fail to become ready.",
	}

	return &registry.PromptResult{
		Description: fmt.Sprintf("Rollout plan for deployment %s/%s", namespace, deployment),
		Messages: []registry.PromptMessage{
			{Role: "user", Text: fmt.Sprintf("Plan a safe rollout for deployment %q in namespace %q. Work through these steps:\n\n%s", deployment, namespace, strings.Join(steps, "\n"))},
		},
	}, nil
}
