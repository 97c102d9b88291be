// Package policy decides whether a request may proceed. Decisions fold
// ordered allow/deny rules with last-match-wins semantics behind a
// per-identity sliding-window rate limiter; every failure path denies.
package policy

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kubeops-ai/kubeops/internal/logging"
)

// Action is a rule outcome.
type Action string

const (
	ActionAllow Action = "allow"
	ActionDeny  Action = "deny"
)

// Rule is one ordered entry of a policy. The resource pattern is an
// exact key, a prefix wildcard ("tools/*"), a suffix wildcard
// ("*/kubectl") or the universal "*". An empty operation list matches
// every operation. Parameter conditions match a supplied value against
// either a scalar (exact equality) or a list (membership).
type Rule struct {
	Action     Action         `json:"action" validate:"required,oneof=allow deny"`
	Resource   string         `json:"resource" validate:"required"`
	Operations []string       `json:"operations,omitempty"`
	Conditions map[string]any `json:"conditions,omitempty"`
}

// Policy is a named ordered rule list.
type Policy struct {
	Name  string `json:"name" validate:"required"`
	Rules []Rule `json:"rules" validate:"required,min=1,dive"`
}

// RateLimitConfig bounds request rates per identity.
type RateLimitConfig struct {
	// Window is the sliding window length.
	Window time.Duration
	// MaxRequests is the number of requests admitted per window. Zero
	// disables rate limiting.
	MaxRequests int
}

// Engine evaluates requests against identity-mapped policies. The rule
// fold is pure; the only mutable state is the per-identity window map,
// guarded for concurrent callers.
type Engine struct {
	defaultPolicy Policy
	policies      map[string]Policy
	rateLimit     RateLimitConfig
	logger        *slog.Logger

	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithIdentityPolicy maps an identity to its own policy instead of the
// default.
func WithIdentityPolicy(identity string, p Policy) Option {
	return func(e *Engine) {
		e.policies[identity] = p
	}
}

// WithRateLimit sets the sliding-window bounds.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(e *Engine) {
		e.rateLimit = cfg
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine with a default policy applied to every
// identity without an explicit mapping.
func NewEngine(defaultPolicy Policy, opts ...Option) *Engine {
	e := &Engine{
		defaultPolicy: defaultPolicy,
		policies:      make(map[string]Policy),
		logger:        slog.Default(),
		windows:       make(map[string][]time.Time),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate decides one request. The rate limiter runs first; a limited
// identity is denied without evaluating rules. With rules, matches fold
// in order and the last matching rule's action wins; no match denies.
func (e *Engine) Evaluate(identity, resourceKey, operation string, params map[string]any) bool {
	allowed := e.evaluate(identity, resourceKey, operation, params)
	if !allowed {
		e.logger.Info("request denied",
			logging.Identity(identity),
			slog.String("resource_key", resourceKey),
			logging.Operation(operation))
	}
	return allowed
}

func (e *Engine) evaluate(identity, resourceKey, operation string, params map[string]any) (allowed bool) {
	// Fail closed on anything unexpected inside the fold.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("policy evaluation panicked",
				logging.Identity(identity),
				slog.Any("panic", r))
			allowed = false
		}
	}()

	if !e.CheckRateLimit(identity) {
		return false
	}

	policy := e.policyFor(identity)
	outcome := ActionDeny
	matched := false
	for _, rule := range policy.Rules {
		if ruleMatches(rule, resourceKey, operation, params) {
			outcome = rule.Action
			matched = true
		}
	}
	if !matched {
		return false
	}
	return outcome == ActionAllow
}

func (e *Engine) policyFor(identity string) Policy {
	if p, ok := e.policies[identity]; ok {
		return p
	}
	return e.defaultPolicy
}

// CheckRateLimit prunes the identity's window and admits the request if
// capacity remains, recording its timestamp. Disabled limiters admit
// everything.
func (e *Engine) CheckRateLimit(identity string) bool {
	if e.rateLimit.MaxRequests <= 0 {
		return true
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	cutoff := now.Add(-e.rateLimit.Window)
	window := e.windows[identity]

	pruned := window[:0]
	for _, ts := range window {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= e.rateLimit.MaxRequests {
		e.windows[identity] = pruned
		return false
	}
	e.windows[identity] = append(pruned, now)
	return true
}

// ruleMatches applies the three-part rule predicate: resource pattern,
// operation whitelist, parameter conditions.
func ruleMatches(rule Rule, resourceKey, operation string, params map[string]any) bool {
	if !patternMatches(rule.Resource, resourceKey) {
		return false
	}
	if len(rule.Operations) > 0 && !contains(rule.Operations, operation) {
		return false
	}
	for key, want := range rule.Conditions {
		got, ok := params[key]
		if !ok {
			return false
		}
		if !conditionMatches(want, got) {
			return false
		}
	}
	return true
}

func patternMatches(pattern, key string) bool {
	switch {
	case pattern == "*":
		return true
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(key, strings.TrimSuffix(pattern, "*"))
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(key, strings.TrimPrefix(pattern, "*"))
	default:
		return pattern == key
	}
}

// conditionMatches treats list conditions as membership tests and
// scalars as exact equality. Values compare by their string forms so a
// YAML-sourced condition can match request parameters of differing
// concrete types.
func conditionMatches(want, got any) bool {
	switch w := want.(type) {
	case []any:
		for _, member := range w {
			if stringify(member) == stringify(got) {
				return true
			}
		}
		return false
	case []string:
		for _, member := range w {
			if member == stringify(got) {
				return true
			}
		}
		return false
	default:
		return stringify(want) == stringify(got)
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
