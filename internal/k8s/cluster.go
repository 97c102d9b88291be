package k8s

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
)

func (c *clusterClient) ListNamespaces(ctx context.Context, limit int64) ([]string, error) {
	snap, err := c.snapshot("list namespaces")
	if err != nil {
		return nil, err
	}

	opts := metav1.ListOptions{}
	if limit > 0 {
		opts.Limit = limit
	}
	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	list, err := snap.clientset.CoreV1().Namespaces().List(opCtx, opts)
	if err != nil {
		return nil, wrapAPIError("list namespaces", err)
	}

	names := make([]string, 0, len(list.Items))
	for _, ns := range list.Items {
		names = append(names, ns.Name)
	}
	return names, nil
}

func (c *clusterClient) ServerVersion(ctx context.Context) (string, error) {
	snap, err := c.snapshot("server version")
	if err != nil {
		return "", err
	}
	version, err := snap.discovery.ServerVersion()
	if err != nil {
		return "", &errdefs.ConnectionError{Err: err}
	}
	return version.GitVersion, nil
}

func (c *clusterClient) APIResources(ctx context.Context) ([]APIResourceInfo, error) {
	snap, err := c.snapshot("api resources")
	if err != nil {
		return nil, err
	}
	lists, err := snap.discovery.ServerPreferredResources()
	// Partial discovery failures still return the reachable groups.
	if err != nil && len(lists) == 0 {
		return nil, &errdefs.ConnectionError{Err: err}
	}

	var resources []APIResourceInfo
	for _, list := range lists {
		for _, res := range list.APIResources {
			resources = append(resources, APIResourceInfo{
				Name:       res.Name,
				ShortNames: res.ShortNames,
				APIVersion: list.GroupVersion,
				Namespaced: res.Namespaced,
				Kind:       res.Kind,
			})
		}
	}
	return resources, nil
}

func (c *clusterClient) ClusterInfo(ctx context.Context) (*ClusterInfo, error) {
	snap, err := c.snapshot("cluster info")
	if err != nil {
		return nil, err
	}
	version, err := c.ServerVersion(ctx)
	if err != nil {
		return nil, err
	}
	return &ClusterInfo{
		Host:             snap.host,
		Version:          version,
		Context:          snap.context,
		Namespace:        snap.namespace,
		CredentialSource: snap.source,
	}, nil
}
