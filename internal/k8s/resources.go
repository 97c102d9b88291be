package k8s

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
)

func (c *clusterClient) Get(ctx context.Context, namespace, resourceType, name string) (*unstructured.Unstructured, error) {
	if name == "" {
		return nil, errdefs.NewValidationError("resource name must not be empty")
	}
	gvr, ri, err := c.resourceInterface("get", namespace, resourceType)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	obj, err := ri.Get(opCtx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, &errdefs.NotFoundError{Kind: gvr.Resource, Name: name}
		}
		return nil, wrapAPIError("get "+gvr.Resource, err)
	}
	return obj, nil
}

func (c *clusterClient) List(ctx context.Context, namespace, resourceType string, opts ListOptions) (*unstructured.UnstructuredList, error) {
	gvr, ri, err := c.resourceInterface("list", namespace, resourceType)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	list, err := ri.List(opCtx, metav1.ListOptions{
		LabelSelector: opts.LabelSelector,
		FieldSelector: opts.FieldSelector,
		Limit:         opts.Limit,
	})
	if err != nil {
		return nil, wrapAPIError("list "+gvr.Resource, err)
	}
	return list, nil
}

func (c *clusterClient) Describe(ctx context.Context, namespace, resourceType, name string) (*ResourceDescription, error) {
	snap, err := c.snapshot("describe")
	if err != nil {
		return nil, err
	}
	ns := c.effectiveNamespace(namespace, snap)

	var (
		obj    *unstructured.Unstructured
		events []corev1.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		obj, err = c.Get(gctx, namespace, resourceType, name)
		return err
	})
	g.Go(func() error {
		// Events are best-effort; a resource without events still
		// describes.
		if evs, err := c.eventsFor(gctx, snap, ns, name); err == nil {
			events = evs
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ResourceDescription{Resource: obj, Events: events}, nil
}

func (c *clusterClient) eventsFor(ctx context.Context, snap sessionSnapshot, namespace, name string) ([]corev1.Event, error) {
	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	list, err := snap.clientset.CoreV1().Events(namespace).List(opCtx, metav1.ListOptions{
		FieldSelector: fmt.Sprintf("involvedObject.name=%s", name),
	})
	if err != nil {
		return nil, wrapAPIError("list events", err)
	}
	return list.Items, nil
}

func (c *clusterClient) Delete(ctx context.Context, namespace, resourceType, name string) error {
	if name == "" {
		return errdefs.NewValidationError("resource name must not be empty")
	}
	gvr, ri, err := c.resourceInterface("delete", namespace, resourceType)
	if err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := ri.Delete(opCtx, name, metav1.DeleteOptions{}); err != nil {
		if apierrors.IsNotFound(err) {
			return &errdefs.NotFoundError{Kind: gvr.Resource, Name: name}
		}
		return wrapAPIError("delete "+gvr.Resource, err)
	}
	return nil
}

func (c *clusterClient) Scale(ctx context.Context, namespace, resourceType, name string, replicas int32) error {
	if name == "" {
		return errdefs.NewValidationError("resource name must not be empty")
	}
	if replicas < 0 {
		return errdefs.NewValidationError("replicas must not be negative")
	}
	gvr, ri, err := c.resourceInterface("scale", namespace, resourceType)
	if err != nil {
		return err
	}
	if !isScalable(gvr) {
		return errdefs.NewValidationError("resource type %q does not support scaling", resourceType)
	}

	patch := []byte(fmt.Sprintf(`{"spec":{"replicas":%d}}`, replicas))
	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if _, err := ri.Patch(opCtx, name, types.MergePatchType, patch, metav1.PatchOptions{}); err != nil {
		if apierrors.IsNotFound(err) {
			return &errdefs.NotFoundError{Kind: gvr.Resource, Name: name}
		}
		return wrapAPIError("scale "+gvr.Resource, err)
	}
	return nil
}

// resourceInterface resolves the resource type and binds the dynamic
// client to the right scope. Cluster-scoped types ignore the namespace
// argument.
func (c *clusterClient) resourceInterface(op, namespace, resourceType string) (schema.GroupVersionResource, dynamic.ResourceInterface, error) {
	snap, err := c.snapshot(op)
	if err != nil {
		return schema.GroupVersionResource{}, nil, err
	}
	gvr, err := resolveResourceType(c.aliases, resourceType)
	if err != nil {
		return schema.GroupVersionResource{}, nil, err
	}
	if isClusterScoped(gvr) {
		return gvr, snap.dynClient.Resource(gvr), nil
	}
	ns := c.effectiveNamespace(namespace, snap)
	return gvr, snap.dynClient.Resource(gvr).Namespace(ns), nil
}

// effectiveNamespace falls back to the session namespace when the
// caller passed none.
func (c *clusterClient) effectiveNamespace(namespace string, snap sessionSnapshot) string {
	if namespace != "" {
		return namespace
	}
	return snap.namespace
}
