package k8s

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
	"github.com/kubeops-ai/kubeops/internal/logging"
)

// ClientConfig carries the inputs a session needs before the credential
// chain runs. Zero values fall back to package defaults.
type ClientConfig struct {
	// KubeconfigPath is an explicit kubeconfig location. When set it is
	// consulted ahead of the default path.
	KubeconfigPath string

	// Context overrides the kubeconfig's current context.
	Context string

	// Namespace overrides the namespace the selected source provides.
	Namespace string

	QPSLimit   float32
	BurstLimit int

	// RequestTimeout bounds every API call made by the session.
	RequestTimeout time.Duration

	Logger *slog.Logger

	// Service account paths, overridable for tests.
	ServiceAccountTokenPath  string
	ServiceAccountCACertPath string
}

// clientFactories builds the typed sub-clients from a rest.Config.
// Swapped for fakes in tests.
type clientFactories struct {
	typed     func(*rest.Config) (kubernetes.Interface, error)
	dynamic   func(*rest.Config) (dynamic.Interface, error)
	discovery func(*rest.Config) (discovery.DiscoveryInterface, error)
}

func defaultFactories() clientFactories {
	return clientFactories{
		typed: func(cfg *rest.Config) (kubernetes.Interface, error) {
			return kubernetes.NewForConfig(cfg)
		},
		dynamic: func(cfg *rest.Config) (dynamic.Interface, error) {
			return dynamic.NewForConfig(cfg)
		},
		discovery: func(cfg *rest.Config) (discovery.DiscoveryInterface, error) {
			return discovery.NewDiscoveryClientForConfig(cfg)
		},
	}
}

// clusterClient is the concrete session. The mutex serializes context
// and namespace switches against in-flight requests; reads take the
// shared lock so concurrent calls proceed in parallel.
type clusterClient struct {
	config    ClientConfig
	factories clientFactories
	logger    *slog.Logger
	timeout   time.Duration
	aliases   map[string]schema.GroupVersionResource

	mu          sync.RWMutex
	initialized bool
	source      string
	kubeconfig  *clientcmdapi.Config
	contextName string
	namespace   string
	restConfig  *rest.Config
	clientset   kubernetes.Interface
	dynClient   dynamic.Interface
	discClient  discovery.DiscoveryInterface
}

// NewClient creates an uninitialized session. Call Initialize before
// any other method.
func NewClient(cfg ClientConfig) Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &clusterClient{
		config:    cfg,
		factories: defaultFactories(),
		logger:    logger,
		timeout:   timeout,
		aliases:   builtinResourceAliases(),
	}
}

func (c *clusterClient) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return errdefs.NewValidationError("session already initialized")
	}

	res, err := resolveCredentials(c.config)
	if err != nil {
		return err
	}

	clientset, dynClient, discClient, err := c.buildClients(res.restConfig)
	if err != nil {
		return &errdefs.ConnectionError{Err: err}
	}

	// Probe with the selected source only. A parse success followed by a
	// probe failure fails initialization instead of falling through to
	// the next source.
	if err := probeConnectivity(ctx, clientset, c.timeout); err != nil {
		return &errdefs.ConnectionError{Err: fmt.Errorf("source %s selected but unreachable: %w", res.source, err)}
	}

	c.initialized = true
	c.source = res.source
	c.kubeconfig = res.kubeconfig
	c.contextName = res.currentContext
	c.namespace = res.namespace
	c.restConfig = res.restConfig
	c.clientset = clientset
	c.dynClient = dynClient
	c.discClient = discClient

	c.logger.Info("cluster session initialized",
		slog.String("credential_source", c.source),
		logging.Context(c.contextName),
		logging.Namespace(c.namespace),
		logging.Host(c.restConfig.Host))
	return nil
}

func (c *clusterClient) buildClients(restConfig *rest.Config) (kubernetes.Interface, dynamic.Interface, discovery.DiscoveryInterface, error) {
	clientset, err := c.factories.typed(restConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building clientset: %w", err)
	}
	dynClient, err := c.factories.dynamic(restConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building dynamic client: %w", err)
	}
	discClient, err := c.factories.discovery(restConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building discovery client: %w", err)
	}
	return clientset, dynClient, discClient, nil
}

// probeConnectivity performs the live list-namespaces check used both
// at initialization and after a context switch.
func probeConnectivity(ctx context.Context, clientset kubernetes.Interface, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{Limit: probeLimit})
	if err != nil {
		return fmt.Errorf("listing namespaces: %w", err)
	}
	return nil
}

func (c *clusterClient) CredentialSource() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.source
}

func (c *clusterClient) CurrentContext() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.contextName
}

func (c *clusterClient) CurrentNamespace() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.namespace
}

func (c *clusterClient) ListContexts(ctx context.Context) ([]ContextInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized {
		return nil, &errdefs.NotInitializedError{Op: "list contexts"}
	}

	// Sessions built without a kubeconfig expose a single synthetic
	// context.
	if c.kubeconfig == nil {
		return []ContextInfo{{
			Name:      c.contextName,
			Namespace: c.namespace,
			Current:   true,
		}}, nil
	}

	contexts := make([]ContextInfo, 0, len(c.kubeconfig.Contexts))
	for name, kctx := range c.kubeconfig.Contexts {
		contexts = append(contexts, ContextInfo{
			Name:      name,
			Cluster:   kctx.Cluster,
			User:      kctx.AuthInfo,
			Namespace: kctx.Namespace,
			Current:   name == c.contextName,
		})
	}
	sortContexts(contexts)
	return contexts, nil
}

func (c *clusterClient) SwitchContext(ctx context.Context, contextName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return &errdefs.NotInitializedError{Op: "switch context"}
	}
	if contextName == c.contextName {
		return nil
	}
	if c.kubeconfig == nil {
		return &errdefs.NotFoundError{Kind: "context", Name: contextName}
	}
	kctx, ok := c.kubeconfig.Contexts[contextName]
	if !ok {
		return &errdefs.NotFoundError{Kind: "context", Name: contextName}
	}

	restConfig, err := restConfigForContext(c.kubeconfig, contextName)
	if err != nil {
		return &errdefs.ConnectionError{Err: err}
	}
	restConfig.QPS = c.restConfig.QPS
	restConfig.Burst = c.restConfig.Burst

	clientset, dynClient, discClient, err := c.buildClients(restConfig)
	if err != nil {
		return &errdefs.ConnectionError{Err: err}
	}
	if err := probeConnectivity(ctx, clientset, c.timeout); err != nil {
		return &errdefs.ConnectionError{Err: fmt.Errorf("context %q unreachable: %w", contextName, err)}
	}

	// The credential source is immutable; only the sub-clients and the
	// context coordinates change.
	c.contextName = contextName
	c.namespace = kctx.Namespace
	if c.namespace == "" {
		c.namespace = DefaultNamespace
	}
	c.restConfig = restConfig
	c.clientset = clientset
	c.dynClient = dynClient
	c.discClient = discClient

	c.logger.Info("switched context",
		logging.Context(c.contextName),
		logging.Namespace(c.namespace))
	return nil
}

func (c *clusterClient) SetNamespace(ctx context.Context, namespace string) error {
	if namespace == "" {
		return errdefs.NewValidationError("namespace must not be empty")
	}

	snap, err := c.snapshot("set namespace")
	if err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if _, err := snap.clientset.CoreV1().Namespaces().Get(opCtx, namespace, metav1.GetOptions{}); err != nil {
		if apierrors.IsNotFound(err) {
			return &errdefs.NotFoundError{Kind: "namespace", Name: namespace}
		}
		return wrapAPIError("set namespace", err)
	}

	c.mu.Lock()
	c.namespace = namespace
	c.mu.Unlock()

	c.logger.Info("switched namespace", logging.Namespace(namespace))
	return nil
}

// sessionSnapshot is the immutable view of the session one request
// operates on. Taking a snapshot up front means a concurrent context
// switch cannot swap sub-clients out from under a request midway.
type sessionSnapshot struct {
	clientset kubernetes.Interface
	dynClient dynamic.Interface
	discovery discovery.DiscoveryInterface
	namespace string
	context   string
	source    string
	host      string
}

func (c *clusterClient) snapshot(op string) (sessionSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized {
		return sessionSnapshot{}, &errdefs.NotInitializedError{Op: op}
	}
	host := ""
	if c.restConfig != nil {
		host = c.restConfig.Host
	}
	return sessionSnapshot{
		clientset: c.clientset,
		dynClient: c.dynClient,
		discovery: c.discClient,
		namespace: c.namespace,
		context:   c.contextName,
		source:    c.source,
		host:      host,
	}, nil
}

// wrapAPIError normalizes API server failures into the session error
// taxonomy. Not-found handling stays at the call sites because only
// they know the kind and name.
func wrapAPIError(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || apierrors.IsTimeout(err):
		return &errdefs.TimeoutError{Op: op, Err: err}
	case apierrors.IsForbidden(err) || apierrors.IsUnauthorized(err):
		return &errdefs.ConnectionError{Err: fmt.Errorf("%s: %w", op, err)}
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func sortContexts(contexts []ContextInfo) {
	sort.Slice(contexts, func(i, j int) bool { return contexts[i].Name < contexts[j].Name })
}
