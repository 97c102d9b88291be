package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
)

func podUnstructured(namespace, name string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata": map[string]any{
			"namespace": namespace,
			"name":      name,
		},
		"spec": map[string]any{
			"containers": []any{
				map[string]any{"name": "app", "image": "nginx:1.27"},
			},
		},
	}}
}

func deploymentUnstructured(namespace, name string, replicas int64) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata": map[string]any{
			"namespace": namespace,
			"name":      name,
		},
		"spec": map[string]any{
			"replicas": replicas,
		},
	}}
}

func TestGet(t *testing.T) {
	c, _ := newTestClient(t)
	c.dynClient = fakeDynamic(podUnstructured("default", "web-0"))

	obj, err := c.Get(context.Background(), "default", "pod", "web-0")

	require.NoError(t, err)
	assert.Equal(t, "web-0", obj.GetName())
	assert.Equal(t, "Pod", obj.GetKind())
}

func TestGet_ResolvesAliases(t *testing.T) {
	c, _ := newTestClient(t)
	c.dynClient = fakeDynamic(deploymentUnstructured("default", "api", 2))

	for _, alias := range []string{"deployment", "deployments", "deploy"} {
		obj, err := c.Get(context.Background(), "default", alias, "api")
		require.NoError(t, err, alias)
		assert.Equal(t, "api", obj.GetName())
	}
}

func TestGet_NotFound(t *testing.T) {
	c, _ := newTestClient(t)
	c.dynClient = fakeDynamic()

	_, err := c.Get(context.Background(), "default", "pods", "ghost")

	require.Error(t, err)
	assert.True(t, errdefs.IsNotFoundError(err))
	assert.Contains(t, err.Error(), `pods "ghost" not found`)
}

func TestGet_UnsupportedType(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Get(context.Background(), "default", "widgets", "x")

	assert.True(t, errdefs.IsUnsupportedResourceError(err))
}

func TestGet_EmptyName(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Get(context.Background(), "default", "pods", "")

	assert.True(t, errdefs.IsValidationError(err))
}

func TestList_DefaultsToSessionNamespace(t *testing.T) {
	c, _ := newTestClient(t)
	c.dynClient = fakeDynamic(
		podUnstructured("default", "web-0"),
		podUnstructured("default", "web-1"),
		podUnstructured("other", "web-2"),
	)

	list, err := c.List(context.Background(), "", "pods", ListOptions{})

	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

func TestList_ExplicitNamespace(t *testing.T) {
	c, _ := newTestClient(t)
	c.dynClient = fakeDynamic(
		podUnstructured("default", "web-0"),
		podUnstructured("other", "web-2"),
	)

	list, err := c.List(context.Background(), "other", "pods", ListOptions{})

	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "web-2", list.Items[0].GetName())
}

func TestDelete(t *testing.T) {
	c, _ := newTestClient(t)
	c.dynClient = fakeDynamic(podUnstructured("default", "web-0"))

	require.NoError(t, c.Delete(context.Background(), "default", "pod", "web-0"))

	_, err := c.Get(context.Background(), "default", "pod", "web-0")
	assert.True(t, errdefs.IsNotFoundError(err))
}

func TestDelete_NotFound(t *testing.T) {
	c, _ := newTestClient(t)
	c.dynClient = fakeDynamic()

	err := c.Delete(context.Background(), "default", "pod", "ghost")

	assert.True(t, errdefs.IsNotFoundError(err))
}

func TestScale(t *testing.T) {
	c, _ := newTestClient(t)
	c.dynClient = fakeDynamic(deploymentUnstructured("default", "api", 2))

	require.NoError(t, c.Scale(context.Background(), "default", "deployment", "api", 5))

	obj, err := c.Get(context.Background(), "default", "deployment", "api")
	require.NoError(t, err)
	replicas, found, err := unstructured.NestedInt64(obj.Object, "spec", "replicas")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(5), replicas)
}

func TestScale_NotScalable(t *testing.T) {
	c, _ := newTestClient(t)

	err := c.Scale(context.Background(), "default", "pods", "web-0", 3)

	require.Error(t, err)
	assert.True(t, errdefs.IsValidationError(err))
}

func TestScale_NegativeReplicas(t *testing.T) {
	c, _ := newTestClient(t)

	err := c.Scale(context.Background(), "default", "deployment", "api", -1)

	assert.True(t, errdefs.IsValidationError(err))
}

func TestDescribe_IncludesEvents(t *testing.T) {
	event := &corev1.Event{
		ObjectMeta:     metav1.ObjectMeta{Namespace: "default", Name: "web-0.evt"},
		InvolvedObject: corev1.ObjectReference{Kind: "Pod", Namespace: "default", Name: "web-0"},
		Reason:         "BackOff",
		Message:        "Back-off restarting failed container",
	}
	c, _ := newTestClient(t, event)
	c.dynClient = fakeDynamic(podUnstructured("default", "web-0"))

	desc, err := c.Describe(context.Background(), "default", "pod", "web-0")

	require.NoError(t, err)
	assert.Equal(t, "web-0", desc.Resource.GetName())
	require.Len(t, desc.Events, 1)
	assert.Equal(t, "BackOff", desc.Events[0].Reason)
}

func TestDescribe_MissingResource(t *testing.T) {
	c, _ := newTestClient(t)
	c.dynClient = fakeDynamic()

	_, err := c.Describe(context.Background(), "default", "pod", "ghost")

	assert.True(t, errdefs.IsNotFoundError(err))
}
