package cmd

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kubeops-ai/kubeops/internal/policy"
)

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	// Kubernetes client settings
	Kubeconfig string
	Context    string
	Namespace  string
	QPSLimit   float32
	BurstLimit int

	// Safety settings
	NonDestructiveMode bool
	DryRun             bool
	AllowedOperations  []string

	// Access policy settings
	PolicyMode        string
	PolicyFile        string
	RateLimitWindow   time.Duration
	RateLimitRequests int

	// Metrics server settings
	MetricsAddr string

	LogLevel string
}

// loadEnvIfEmpty loads an environment variable into a string pointer if
// it's empty.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}

// parseDurationEnv parses a duration from an environment variable
// value. Logs a warning and reports false if the value is present but
// invalid.
func parseDurationEnv(value, envName string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s=%q: %v", envName, value, err)
		return 0, false
	}
	return d, true
}

// parseIntEnv parses an integer from an environment variable value.
// Logs a warning and reports false if the value is present but invalid.
func parseIntEnv(value, envName string) (int, bool) {
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s=%q: %v", envName, value, err)
		return 0, false
	}
	return n, true
}

// applyEnvFallbacks fills in configuration from environment variables
// for flags the user did not explicitly set.
func applyEnvFallbacks(cmd *cobra.Command, config *ServeConfig) {
	if !cmd.Flags().Changed("context") {
		loadEnvIfEmpty(&config.Context, "KUBEOPS_CONTEXT")
	}
	if !cmd.Flags().Changed("namespace") {
		loadEnvIfEmpty(&config.Namespace, "KUBEOPS_NAMESPACE")
	}
	if !cmd.Flags().Changed("policy-mode") {
		loadEnvIfEmpty(&config.PolicyMode, "POLICY_MODE")
	}
	if !cmd.Flags().Changed("policy-file") {
		loadEnvIfEmpty(&config.PolicyFile, "ACCESS_POLICY_FILE")
	}
	if !cmd.Flags().Changed("rate-limit-window") {
		if window, ok := parseDurationEnv(os.Getenv("RATE_LIMIT_WINDOW"), "RATE_LIMIT_WINDOW"); ok {
			config.RateLimitWindow = window
		}
	}
	if !cmd.Flags().Changed("rate-limit-requests") {
		if n, ok := parseIntEnv(os.Getenv("RATE_LIMIT_REQUESTS"), "RATE_LIMIT_REQUESTS"); ok {
			config.RateLimitRequests = n
		}
	}
}

// buildPolicyEngine constructs the access policy engine from the serve
// configuration. A policy file takes precedence over the built-in
// modes.
func buildPolicyEngine(config ServeConfig, opts ...policy.Option) (*policy.Engine, error) {
	opts = append(opts, policy.WithRateLimit(policy.RateLimitConfig{
		Window:      config.RateLimitWindow,
		MaxRequests: config.RateLimitRequests,
	}))

	if config.PolicyFile != "" {
		file, err := policy.LoadFile(config.PolicyFile)
		if err != nil {
			return nil, err
		}
		return policy.NewEngineFromFile(file, opts...), nil
	}

	builtin, err := policy.BuiltinPolicy(config.PolicyMode)
	if err != nil {
		return nil, err
	}
	return policy.NewEngine(builtin, opts...), nil
}
