// Package k8s holds the cluster session: credential resolution through
// an ordered fallback chain, typed and dynamic sub-clients, and the
// resource, pod and cluster operations the tool surface is built on.
//
// A session selects exactly one credential source at initialization and
// keeps it for its lifetime. Switching contexts rebuilds the
// sub-clients from the same kubeconfig; it never re-runs the chain.
package k8s
