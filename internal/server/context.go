package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kubeops-ai/kubeops/internal/command"
	"github.com/kubeops-ai/kubeops/internal/dispatch"
	"github.com/kubeops-ai/kubeops/internal/entities"
	"github.com/kubeops-ai/kubeops/internal/instrumentation"
	"github.com/kubeops-ai/kubeops/internal/k8s"
	"github.com/kubeops-ai/kubeops/internal/policy"
	"github.com/kubeops-ai/kubeops/internal/prompts"
	"github.com/kubeops-ai/kubeops/internal/registry"
	"github.com/kubeops-ai/kubeops/internal/tools"
	"github.com/kubeops-ai/kubeops/internal/tools/cluster"
	commandtools "github.com/kubeops-ai/kubeops/internal/tools/command"
	contexttools "github.com/kubeops-ai/kubeops/internal/tools/context"
	"github.com/kubeops-ai/kubeops/internal/tools/pod"
	"github.com/kubeops-ai/kubeops/internal/tools/resource"
)

// ServerContext holds every dependency the protocol surfaces share and
// owns their lifecycle.
type ServerContext struct {
	client   k8s.Client
	logger   *slog.Logger
	config   *Config
	policy   *policy.Engine
	provider *instrumentation.Provider

	toolReg    *registry.ToolRegistry
	entityReg  *registry.EntityRegistry
	promptReg  *registry.PromptRegistry
	dispatcher *dispatch.Dispatcher

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext builds a ServerContext from functional options,
// registers the full tool, entity and prompt surfaces and wires the
// dispatcher.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	serverCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:    serverCtx,
		cancel: cancel,
		config: NewDefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}
	if sc.client == nil {
		cancel()
		return nil, ErrMissingK8sClient
	}

	sc.buildSurfaces()
	return sc, nil
}

func (sc *ServerContext) buildSurfaces() {
	deps := &tools.Deps{
		Client:     sc.client,
		Translator: command.NewTranslator(sc.client, sc.logger),
		Safety: tools.SafetyConfig{
			NonDestructiveMode: sc.config.NonDestructiveMode,
			DryRun:             sc.config.DryRun,
			AllowedOperations:  sc.config.AllowedOperations,
		},
		Output:  sc.config.Output,
		Metrics: sc.metrics(),
		Logger:  sc.logger,
	}

	sc.toolReg = registry.NewToolRegistry()
	resource.Register(sc.toolReg, deps)
	pod.Register(sc.toolReg, deps)
	contexttools.Register(sc.toolReg, deps)
	cluster.Register(sc.toolReg, deps)
	commandtools.Register(sc.toolReg, deps)

	sc.entityReg = registry.NewEntityRegistry()
	entities.Register(sc.entityReg, &entities.Deps{Client: sc.client, Output: sc.config.Output})

	sc.promptReg = registry.NewPromptRegistry()
	prompts.Register(sc.promptReg)

	sc.dispatcher = dispatch.NewDispatcher(dispatch.Deps{
		Tools:    sc.toolReg,
		Entities: sc.entityReg,
		Prompts:  sc.promptReg,
		Policy:   sc.policy,
		Metrics:  sc.metrics(),
		Logger:   sc.logger,
	})
}

func (sc *ServerContext) metrics() *instrumentation.Metrics {
	if sc.provider == nil {
		return nil
	}
	return sc.provider.Metrics()
}

// Context returns the server's lifecycle context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// K8sClient returns the session client.
func (sc *ServerContext) K8sClient() k8s.Client {
	return sc.client
}

// Logger returns the configured logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	return sc.config
}

// Dispatcher returns the request dispatcher.
func (sc *ServerContext) Dispatcher() *dispatch.Dispatcher {
	return sc.dispatcher
}

// Instrumentation returns the instrumentation provider, which may be
// nil when disabled.
func (sc *ServerContext) Instrumentation() *instrumentation.Provider {
	return sc.provider
}

// IsShutdown reports whether Shutdown has been called.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the lifecycle context. It is safe to call more than
// once.
func (sc *ServerContext) Shutdown() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.shutdown {
		return
	}
	sc.shutdown = true
	sc.cancel()
}
