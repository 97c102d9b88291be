package k8s

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
)

// credentialResolution is the outcome of walking the credential chain.
// kubeconfig is nil for sources that carry no context map (in-cluster
// and server/token pair); such sessions expose a single synthetic
// context.
type credentialResolution struct {
	restConfig     *rest.Config
	kubeconfig     *clientcmdapi.Config
	source         string
	currentContext string
	namespace      string
}

// credentialSource is one link of the chain. load returns (nil, nil)
// when the source is not configured in this environment, an error when
// it is configured but its material fails to parse, and a resolution
// when the material parses. The first non-nil resolution wins; a parse
// error from a configured source is recorded and the walk continues,
// but if no source resolves the aggregate failure names every error
// seen.
type credentialSource struct {
	name string
	load func() (*credentialResolution, error)
}

// resolveCredentials walks the six-source chain in priority order:
// mounted service account, KUBECONFIG_YAML, KUBECONFIG_JSON,
// K8S_SERVER+K8S_TOKEN, explicit kubeconfig path, default kubeconfig
// path. Selection happens at parse time; connectivity is probed later
// against the selected source only.
func resolveCredentials(cfg ClientConfig) (*credentialResolution, error) {
	tokenPath := cfg.ServiceAccountTokenPath
	if tokenPath == "" {
		tokenPath = DefaultServiceAccountTokenPath
	}
	caPath := cfg.ServiceAccountCACertPath
	if caPath == "" {
		caPath = DefaultServiceAccountCACertPath
	}

	chain := []credentialSource{
		{SourceInCluster, func() (*credentialResolution, error) { return loadInCluster(tokenPath, caPath) }},
		{SourceInlineYAML, func() (*credentialResolution, error) { return loadInlineKubeconfig(EnvKubeconfigYAML, SourceInlineYAML, cfg) }},
		{SourceInlineJSON, func() (*credentialResolution, error) { return loadInlineKubeconfig(EnvKubeconfigJSON, SourceInlineJSON, cfg) }},
		{SourceTokenPair, loadTokenPair},
		{SourceExplicitPath, func() (*credentialResolution, error) { return loadKubeconfigPath(cfg.KubeconfigPath, SourceExplicitPath, cfg) }},
		{SourceDefaultPath, func() (*credentialResolution, error) { return loadKubeconfigPath(defaultKubeconfigPath(), SourceDefaultPath, cfg) }},
	}

	var failures []error
	for _, src := range chain {
		res, err := src.load()
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", src.name, err))
			continue
		}
		if res != nil {
			applyOverrides(res, cfg)
			return res, nil
		}
	}

	if len(failures) > 0 {
		return nil, &errdefs.ConnectionError{Err: fmt.Errorf("no usable credentials: %v", failures)}
	}
	return nil, &errdefs.ConnectionError{Err: fmt.Errorf("no credential source configured")}
}

// applyOverrides layers the explicit namespace override on top of what
// the source provided.
func applyOverrides(res *credentialResolution, cfg ClientConfig) {
	if cfg.Namespace != "" {
		res.namespace = cfg.Namespace
	}
	if res.namespace == "" {
		res.namespace = DefaultNamespace
	}
	res.restConfig.QPS = cfg.QPSLimit
	if res.restConfig.QPS == 0 {
		res.restConfig.QPS = DefaultQPSLimit
	}
	res.restConfig.Burst = cfg.BurstLimit
	if res.restConfig.Burst == 0 {
		res.restConfig.Burst = DefaultBurstLimit
	}
}

func loadInCluster(tokenPath, caPath string) (*credentialResolution, error) {
	if _, err := os.Stat(tokenPath); err != nil {
		return nil, nil
	}
	if _, err := os.Stat(caPath); err != nil {
		return nil, nil
	}
	restConfig, err := rest.InClusterConfig()
	if err != nil {
		return nil, fmt.Errorf("loading in-cluster config: %w", err)
	}
	ns := DefaultNamespace
	if data, err := os.ReadFile(filepath.Join(filepath.Dir(tokenPath), "namespace")); err == nil && len(data) > 0 {
		ns = string(data)
	}
	return &credentialResolution{
		restConfig:     restConfig,
		source:         SourceInCluster,
		currentContext: inClusterContextName,
		namespace:      ns,
	}, nil
}

func loadInlineKubeconfig(envVar, source string, cfg ClientConfig) (*credentialResolution, error) {
	raw := os.Getenv(envVar)
	if raw == "" {
		return nil, nil
	}
	if source == SourceInlineJSON {
		var probe map[string]any
		if err := json.Unmarshal([]byte(raw), &probe); err != nil {
			return nil, fmt.Errorf("parsing %s as JSON: %w", envVar, err)
		}
	}
	kubeconfig, err := clientcmd.Load([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", envVar, err)
	}
	return resolutionFromKubeconfig(kubeconfig, source, cfg.Context)
}

func loadTokenPair() (*credentialResolution, error) {
	server := os.Getenv(EnvServer)
	token := os.Getenv(EnvToken)
	if server == "" || token == "" {
		return nil, nil
	}
	skipVerify := false
	if raw := os.Getenv(EnvSkipTLSVerify); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", EnvSkipTLSVerify, err)
		}
		skipVerify = parsed
	}
	restConfig := &rest.Config{
		Host:        server,
		BearerToken: token,
		TLSClientConfig: rest.TLSClientConfig{
			Insecure: skipVerify,
		},
	}
	return &credentialResolution{
		restConfig:     restConfig,
		source:         SourceTokenPair,
		currentContext: inClusterContextName,
	}, nil
}

func loadKubeconfigPath(path, source string, cfg ClientConfig) (*credentialResolution, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		if source == SourceDefaultPath {
			return nil, nil
		}
		return nil, fmt.Errorf("kubeconfig %s: %w", path, err)
	}
	kubeconfig, err := clientcmd.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing kubeconfig %s: %w", path, err)
	}
	return resolutionFromKubeconfig(kubeconfig, source, cfg.Context)
}

// resolutionFromKubeconfig builds a resolution from a parsed kubeconfig,
// honoring an explicit context override when one was given.
func resolutionFromKubeconfig(kubeconfig *clientcmdapi.Config, source, contextOverride string) (*credentialResolution, error) {
	contextName := kubeconfig.CurrentContext
	if contextOverride != "" {
		contextName = contextOverride
	}
	if contextName == "" {
		return nil, fmt.Errorf("kubeconfig has no current context and none was requested")
	}
	kctx, ok := kubeconfig.Contexts[contextName]
	if !ok {
		return nil, &errdefs.NotFoundError{Kind: "context", Name: contextName}
	}

	restConfig, err := restConfigForContext(kubeconfig, contextName)
	if err != nil {
		return nil, err
	}
	return &credentialResolution{
		restConfig:     restConfig,
		kubeconfig:     kubeconfig,
		source:         source,
		currentContext: contextName,
		namespace:      kctx.Namespace,
	}, nil
}

// restConfigForContext derives a rest.Config for one context of a parsed
// kubeconfig.
func restConfigForContext(kubeconfig *clientcmdapi.Config, contextName string) (*rest.Config, error) {
	clientConfig := clientcmd.NewNonInteractiveClientConfig(*kubeconfig, contextName, &clientcmd.ConfigOverrides{}, nil)
	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("building client config for context %q: %w", contextName, err)
	}
	return restConfig, nil
}

// defaultKubeconfigPath honors KUBECONFIG before falling back to
// ~/.kube/config.
func defaultKubeconfigPath() string {
	if path := os.Getenv(EnvKubeconfig); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kube", "config")
}
