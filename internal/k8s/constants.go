package k8s

import "time"

// Credential source tags, in chain priority order.
const (
	SourceInCluster    = "in-cluster"
	SourceInlineYAML   = "env-kubeconfig-yaml"
	SourceInlineJSON   = "env-kubeconfig-json"
	SourceTokenPair    = "env-token"
	SourceExplicitPath = "kubeconfig-path"
	SourceDefaultPath  = "kubeconfig-default"
)

// Environment variables consulted by the credential chain.
const (
	EnvKubeconfigYAML = "KUBECONFIG_YAML"
	EnvKubeconfigJSON = "KUBECONFIG_JSON"
	EnvServer         = "K8S_SERVER"
	EnvToken          = "K8S_TOKEN"
	EnvSkipTLSVerify  = "K8S_SKIP_TLS_VERIFY"
	EnvKubeconfig     = "KUBECONFIG"
)

// Service account mount paths used to detect in-cluster execution.
const (
	DefaultServiceAccountTokenPath  = "/var/run/secrets/kubernetes.io/serviceaccount/token"
	DefaultServiceAccountCACertPath = "/var/run/secrets/kubernetes.io/serviceaccount/ca.crt"
)

// Client tuning defaults.
const (
	DefaultQPSLimit       = 50.0
	DefaultBurstLimit     = 100
	DefaultRequestTimeout = 30 * time.Second
	DefaultNamespace      = "default"

	// probeLimit caps the namespace list used as the connectivity probe.
	probeLimit = 1
)

// inClusterContextName is the synthetic context name reported when the
// session was built from mounted service account credentials or an
// explicit server/token pair. Such sessions have exactly one context.
const inClusterContextName = "in-cluster"
