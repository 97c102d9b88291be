package k8s

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Client defines the interface for all cluster operations. It holds one
// session to a cluster; the credential source selected at initialization
// is immutable for the session lifetime. Context switches re-derive the
// typed sub-clients but never the credential source.
type Client interface {
	SessionManager
	ResourceManager
	PodManager
	ClusterManager
}

// SessionManager handles session lifecycle and context operations.
type SessionManager interface {
	// Initialize resolves the credential source chain, builds the typed
	// sub-clients and probes connectivity. Must be called exactly once
	// before any other method.
	Initialize(ctx context.Context) error

	// CredentialSource returns the tag of the source selected during
	// initialization.
	CredentialSource() string

	// CurrentContext returns the active context name.
	CurrentContext() string

	// CurrentNamespace returns the active namespace.
	CurrentNamespace() string

	// ListContexts returns all contexts available to the session.
	ListContexts(ctx context.Context) ([]ContextInfo, error)

	// SwitchContext changes the active context, re-derives the typed
	// sub-clients and re-probes connectivity.
	SwitchContext(ctx context.Context, contextName string) error

	// SetNamespace changes the active namespace after validating it
	// exists with a live read.
	SetNamespace(ctx context.Context, namespace string) error
}

// ResourceManager handles generic resource operations. Resource types are
// resolved through the alias table (pod/pods/po, svc/service, ...).
type ResourceManager interface {
	// Get retrieves a single resource by type, namespace and name.
	Get(ctx context.Context, namespace, resourceType, name string) (*unstructured.Unstructured, error)

	// List retrieves resources of a type in a namespace (or cluster-wide
	// for cluster-scoped types).
	List(ctx context.Context, namespace, resourceType string, opts ListOptions) (*unstructured.UnstructuredList, error)

	// Describe retrieves a resource together with its recent events.
	Describe(ctx context.Context, namespace, resourceType, name string) (*ResourceDescription, error)

	// Delete removes a resource by type, namespace and name.
	Delete(ctx context.Context, namespace, resourceType, name string) error

	// Scale changes the replica count of a scalable resource.
	Scale(ctx context.Context, namespace, resourceType, name string, replicas int32) error
}

// PodManager handles pod-specific operations.
type PodManager interface {
	// GetLogs retrieves logs from a pod container.
	GetLogs(ctx context.Context, namespace, podName, containerName string, opts LogOptions) (string, error)

	// TopPods returns resource usage for pods in a namespace, read from
	// the metrics.k8s.io API.
	TopPods(ctx context.Context, namespace string) ([]PodMetrics, error)
}

// ClusterManager handles cluster-level operations.
type ClusterManager interface {
	// ListNamespaces returns namespace names, capped at limit when
	// limit > 0. Doubles as the connectivity probe.
	ListNamespaces(ctx context.Context, limit int64) ([]string, error)

	// ServerVersion returns the version string reported by the API
	// server.
	ServerVersion(ctx context.Context) (string, error)

	// APIResources returns the preferred resources the API server
	// advertises.
	APIResources(ctx context.Context) ([]APIResourceInfo, error)

	// ClusterInfo returns connection metadata for the active context.
	ClusterInfo(ctx context.Context) (*ClusterInfo, error)
}

// ContextInfo describes a kubeconfig context available to the session.
type ContextInfo struct {
	Name      string `json:"name"`
	Cluster   string `json:"cluster"`
	User      string `json:"user"`
	Namespace string `json:"namespace"`
	Current   bool   `json:"current"`
}

// ListOptions configures list operations.
type ListOptions struct {
	LabelSelector string `json:"labelSelector,omitempty"`
	FieldSelector string `json:"fieldSelector,omitempty"`
	Limit         int64  `json:"limit,omitempty"`
}

// ResourceDescription is a resource plus the events that reference it.
type ResourceDescription struct {
	Resource *unstructured.Unstructured `json:"resource"`
	Events   []corev1.Event             `json:"events,omitempty"`
}

// LogOptions configures log retrieval.
type LogOptions struct {
	Container  string `json:"container,omitempty"`
	TailLines  *int64 `json:"tailLines,omitempty"`
	Previous   bool   `json:"previous,omitempty"`
	Timestamps bool   `json:"timestamps,omitempty"`
}

// PodMetrics is the per-pod usage read from metrics.k8s.io.
type PodMetrics struct {
	Name   string `json:"name"`
	CPU    string `json:"cpu"`
	Memory string `json:"memory"`
}

// APIResourceInfo describes one resource type advertised by discovery.
type APIResourceInfo struct {
	Name       string   `json:"name"`
	ShortNames []string `json:"shortNames,omitempty"`
	APIVersion string   `json:"apiVersion"`
	Namespaced bool     `json:"namespaced"`
	Kind       string   `json:"kind"`
}

// ClusterInfo describes the active cluster connection.
type ClusterInfo struct {
	Host             string `json:"host"`
	Version          string `json:"version"`
	Context          string `json:"context"`
	Namespace        string `json:"namespace"`
	CredentialSource string `json:"credentialSource"`
}
