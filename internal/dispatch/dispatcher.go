// Package dispatch routes protocol requests through policy evaluation
// onto the registries. Every request walks the same path: receive,
// policy check, route, execute; each terminal outcome is logged and
// counted.
package dispatch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
	"github.com/kubeops-ai/kubeops/internal/instrumentation"
	"github.com/kubeops-ai/kubeops/internal/logging"
	"github.com/kubeops-ai/kubeops/internal/policy"
	"github.com/kubeops-ai/kubeops/internal/registry"
)

type identityContextKey struct{}

// AnonymousIdentity is assumed when the transport attaches no identity.
const AnonymousIdentity = "anonymous"

// WithIdentity attaches a caller identity to the context.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the caller identity, or the anonymous
// fallback.
func IdentityFromContext(ctx context.Context) string {
	if identity, ok := ctx.Value(identityContextKey{}).(string); ok && identity != "" {
		return identity
	}
	return AnonymousIdentity
}

// Deps carries the dispatcher's collaborators.
type Deps struct {
	Tools    *registry.ToolRegistry
	Entities *registry.EntityRegistry
	Prompts  *registry.PromptRegistry
	Policy   *policy.Engine
	Metrics  *instrumentation.Metrics
	Logger   *slog.Logger
}

// Dispatcher is the single entry point for tool invocations, entity
// reads and prompt renders. All three request classes pass the policy
// engine before routing.
type Dispatcher struct {
	tools    *registry.ToolRegistry
	entities *registry.EntityRegistry
	prompts  *registry.PromptRegistry
	policy   *policy.Engine
	metrics  *instrumentation.Metrics
	logger   *slog.Logger
}

// NewDispatcher wires a dispatcher. A nil logger falls back to the
// default; nil metrics are inert.
func NewDispatcher(deps Deps) *Dispatcher {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		tools:    deps.Tools,
		entities: deps.Entities,
		prompts:  deps.Prompts,
		policy:   deps.Policy,
		metrics:  deps.Metrics,
		logger:   logger,
	}
}

// ListTools returns the tool descriptors in registration order.
func (d *Dispatcher) ListTools() []registry.ToolDescriptor {
	return d.tools.List()
}

// ListEntities returns the entity descriptors in registration order.
func (d *Dispatcher) ListEntities() []registry.EntityDescriptor {
	return d.entities.List()
}

// ListPrompts returns the prompt descriptors in registration order.
func (d *Dispatcher) ListPrompts() []registry.PromptDescriptor {
	return d.prompts.List()
}

// CallTool runs one tool invocation through policy and the tool
// registry. Denials and unknown names return errors; handler failures
// arrive contained in the envelope.
func (d *Dispatcher) CallTool(ctx context.Context, name string, args map[string]any) (*registry.Envelope, error) {
	started := time.Now()
	identity := IdentityFromContext(ctx)
	key := "tools/" + name

	if err := d.checkPolicy(ctx, identity, instrumentation.ClassTool, key, "invoke", args); err != nil {
		d.finish(ctx, instrumentation.ClassTool, name, identity, instrumentation.OutcomeDenied, started)
		return nil, err
	}

	env, err := d.tools.Invoke(ctx, name, args)
	switch {
	case err != nil:
		d.finish(ctx, instrumentation.ClassTool, name, identity, instrumentation.OutcomeFailed, started)
		return nil, err
	case env.IsError:
		d.finish(ctx, instrumentation.ClassTool, name, identity, instrumentation.OutcomeFailed, started)
	default:
		d.finish(ctx, instrumentation.ClassTool, name, identity, instrumentation.OutcomeSuccess, started)
	}
	return env, nil
}

// ReadResource resolves one entity URI through policy and the entity
// registry. Handler errors propagate to the caller.
func (d *Dispatcher) ReadResource(ctx context.Context, uri string) (*registry.EntityContent, error) {
	started := time.Now()
	identity := IdentityFromContext(ctx)
	scheme, _, _ := strings.Cut(uri, "://")
	key := "resources/" + scheme

	if err := d.checkPolicy(ctx, identity, instrumentation.ClassResource, key, "read", map[string]any{"uri": uri}); err != nil {
		d.finish(ctx, instrumentation.ClassResource, scheme, identity, instrumentation.OutcomeDenied, started)
		return nil, err
	}

	content, err := d.entities.Read(ctx, uri)
	if err != nil {
		d.finish(ctx, instrumentation.ClassResource, scheme, identity, instrumentation.OutcomeFailed, started)
		return nil, err
	}
	d.finish(ctx, instrumentation.ClassResource, scheme, identity, instrumentation.OutcomeSuccess, started)
	return content, nil
}

// GetPrompt renders one workflow through policy and the prompt
// registry. As with tools, handler failures arrive contained.
func (d *Dispatcher) GetPrompt(ctx context.Context, name string, args map[string]string) (*registry.PromptResult, error) {
	started := time.Now()
	identity := IdentityFromContext(ctx)
	key := "prompts/" + name

	params := make(map[string]any, len(args))
	for k, v := range args {
		params[k] = v
	}
	if err := d.checkPolicy(ctx, identity, instrumentation.ClassPrompt, key, "render", params); err != nil {
		d.finish(ctx, instrumentation.ClassPrompt, name, identity, instrumentation.OutcomeDenied, started)
		return nil, err
	}

	result, err := d.prompts.Render(ctx, name, args)
	switch {
	case err != nil:
		d.finish(ctx, instrumentation.ClassPrompt, name, identity, instrumentation.OutcomeFailed, started)
		return nil, err
	case result.IsError:
		d.finish(ctx, instrumentation.ClassPrompt, name, identity, instrumentation.OutcomeFailed, started)
	default:
		d.finish(ctx, instrumentation.ClassPrompt, name, identity, instrumentation.OutcomeSuccess, started)
	}
	return result, nil
}

// checkPolicy evaluates the engine (when configured) and converts a
// denial into an authorization error that hides rule details.
func (d *Dispatcher) checkPolicy(ctx context.Context, identity, class, key, operation string, params map[string]any) error {
	if d.policy == nil {
		return nil
	}
	if d.policy.Evaluate(identity, key, operation, params) {
		d.metrics.RecordPolicyDecision(ctx, class, instrumentation.DecisionAllowed)
		return nil
	}
	d.metrics.RecordPolicyDecision(ctx, class, instrumentation.DecisionDenied)
	return &errdefs.AuthorizationError{Resource: key, Operation: operation}
}

// finish records the terminal transition of one request.
func (d *Dispatcher) finish(ctx context.Context, class, operation, identity, outcome string, started time.Time) {
	duration := time.Since(started)
	d.metrics.RecordRequest(ctx, class, operation, outcome, duration)

	level := slog.LevelInfo
	if outcome != instrumentation.OutcomeSuccess {
		level = slog.LevelWarn
	}
	d.logger.Log(ctx, level, "request finished",
		logging.RequestClass(class),
		logging.Operation(operation),
		logging.Identity(identity),
		logging.Status(outcome),
		slog.Duration(logging.KeyDuration, duration))
}
