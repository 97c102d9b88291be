package server

import (
	"errors"
	"log/slog"
	"time"

	"github.com/kubeops-ai/kubeops/internal/instrumentation"
	"github.com/kubeops-ai/kubeops/internal/k8s"
	"github.com/kubeops-ai/kubeops/internal/output"
	"github.com/kubeops-ai/kubeops/internal/policy"
)

// ErrMissingK8sClient is returned when no Kubernetes client was
// provided.
var ErrMissingK8sClient = errors.New("server context requires a kubernetes client")

// Config holds server behavior settings.
type Config struct {
	ServerName string
	Version    string

	// NonDestructiveMode blocks mutating tools unless allowed.
	NonDestructiveMode bool
	// DryRun reports the would-be effect of mutating tools without
	// applying it.
	DryRun bool
	// AllowedOperations exempts operations from NonDestructiveMode.
	AllowedOperations []string

	// Output controls masking, slimming and truncation of responses.
	Output output.Config

	// StreamMinFrames is the minimum number of progress frames sent
	// before the terminal frame on the chunked endpoint.
	StreamMinFrames int
	// StreamFrameInterval spaces synthetic progress frames.
	StreamFrameInterval time.Duration
}

// NewDefaultConfig returns the configuration used when no overrides are
// supplied.
func NewDefaultConfig() *Config {
	return &Config{
		ServerName:          "kubeops",
		NonDestructiveMode:  true,
		Output:              output.DefaultConfig(),
		StreamMinFrames:     2,
		StreamFrameInterval: 50 * time.Millisecond,
	}
}

// Option configures a ServerContext.
type Option func(*ServerContext) error

// WithK8sClient sets the Kubernetes client.
func WithK8sClient(client k8s.Client) Option {
	return func(sc *ServerContext) error {
		if client == nil {
			return ErrMissingK8sClient
		}
		sc.client = client
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return errors.New("config must not be nil")
		}
		sc.config = config
		return nil
	}
}

// WithPolicy sets the access policy engine. Without one, every request
// is admitted.
func WithPolicy(engine *policy.Engine) Option {
	return func(sc *ServerContext) error {
		sc.policy = engine
		return nil
	}
}

// WithInstrumentation sets the instrumentation provider.
func WithInstrumentation(provider *instrumentation.Provider) Option {
	return func(sc *ServerContext) error {
		sc.provider = provider
		return nil
	}
}

// WithNonDestructiveMode toggles the mutating-operation gate.
func WithNonDestructiveMode(enabled bool) Option {
	return func(sc *ServerContext) error {
		sc.config.NonDestructiveMode = enabled
		return nil
	}
}

// WithDryRun toggles dry-run mode.
func WithDryRun(enabled bool) Option {
	return func(sc *ServerContext) error {
		sc.config.DryRun = enabled
		return nil
	}
}

// WithAllowedOperations exempts operations from non-destructive mode.
func WithAllowedOperations(operations []string) Option {
	return func(sc *ServerContext) error {
		sc.config.AllowedOperations = operations
		return nil
	}
}

// WithVersion records the server version reported by health endpoints.
func WithVersion(version string) Option {
	return func(sc *ServerContext) error {
		sc.config.Version = version
		return nil
	}
}
