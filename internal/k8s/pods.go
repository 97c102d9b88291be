package k8s

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
)

// podMetricsGVR addresses the metrics-server aggregated API.
var podMetricsGVR = schema.GroupVersionResource{
	Group:    "metrics.k8s.io",
	Version:  "v1beta1",
	Resource: "pods",
}

func (c *clusterClient) GetLogs(ctx context.Context, namespace, podName, containerName string, opts LogOptions) (string, error) {
	if podName == "" {
		return "", errdefs.NewValidationError("pod name must not be empty")
	}
	snap, err := c.snapshot("get logs")
	if err != nil {
		return "", err
	}
	ns := c.effectiveNamespace(namespace, snap)

	logOpts := &corev1.PodLogOptions{
		Container:  containerName,
		Previous:   opts.Previous,
		Timestamps: opts.Timestamps,
		TailLines:  opts.TailLines,
	}
	if logOpts.Container == "" {
		logOpts.Container = opts.Container
	}

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	raw, err := snap.clientset.CoreV1().Pods(ns).GetLogs(podName, logOpts).Do(opCtx).Raw()
	if err != nil {
		if apierrors.IsNotFound(err) {
			return "", &errdefs.NotFoundError{Kind: "pods", Name: podName}
		}
		return "", wrapAPIError("get logs", err)
	}
	return string(raw), nil
}

func (c *clusterClient) TopPods(ctx context.Context, namespace string) ([]PodMetrics, error) {
	snap, err := c.snapshot("top pods")
	if err != nil {
		return nil, err
	}
	ns := c.effectiveNamespace(namespace, snap)

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	list, err := snap.dynClient.Resource(podMetricsGVR).Namespace(ns).List(opCtx, metav1.ListOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, &errdefs.UnsupportedResourceError{ResourceType: "pod metrics (is metrics-server installed?)"}
		}
		return nil, wrapAPIError("top pods", err)
	}

	metrics := make([]PodMetrics, 0, len(list.Items))
	for _, item := range list.Items {
		metrics = append(metrics, podMetricsFromItem(item))
	}
	return metrics, nil
}

// podMetricsFromItem sums per-container usage into one row. Quantities
// that fail to parse count as zero.
func podMetricsFromItem(item unstructured.Unstructured) PodMetrics {
	cpu := resource.NewQuantity(0, resource.DecimalSI)
	mem := resource.NewQuantity(0, resource.BinarySI)

	containers, _, _ := unstructured.NestedSlice(item.Object, "containers")
	for _, raw := range containers {
		container, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if v, found, _ := unstructured.NestedString(container, "usage", "cpu"); found {
			if q, err := resource.ParseQuantity(v); err == nil {
				cpu.Add(q)
			}
		}
		if v, found, _ := unstructured.NestedString(container, "usage", "memory"); found {
			if q, err := resource.ParseQuantity(v); err == nil {
				mem.Add(q)
			}
		}
	}
	return PodMetrics{
		Name:   item.GetName(),
		CPU:    cpu.String(),
		Memory: mem.String(),
	}
}
