package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kubeops-ai/kubeops/internal/instrumentation"
	"github.com/kubeops-ai/kubeops/internal/k8s"
	"github.com/kubeops-ai/kubeops/internal/logging"
	"github.com/kubeops-ai/kubeops/internal/policy"
	"github.com/kubeops-ai/kubeops/internal/server"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	config := ServeConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP Kubernetes server",
		Long: `Start the MCP Kubernetes server to provide tools for interacting
with Kubernetes clusters via the Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport with the chunked tool
    gateway, health probes and optional dedicated metrics server

Access control:
  Every tool call, resource read and prompt request passes the access
  policy engine. The built-in modes are 'restrictive' (read-only, the
  default) and 'permissive'; --policy-file loads a YAML rule document
  with per-identity policies instead. Rate limiting uses a sliding
  window per identity and applies before rule evaluation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyEnvFallbacks(cmd, &config)
			return runServe(config)
		},
	}

	// Kubernetes client flags
	cmd.Flags().StringVar(&config.Kubeconfig, "kubeconfig", "", "Path to the kubeconfig file (default: credential chain)")
	cmd.Flags().StringVar(&config.Context, "context", "", "Kubeconfig context to use (can also be set via KUBEOPS_CONTEXT)")
	cmd.Flags().StringVar(&config.Namespace, "namespace", "", "Default namespace (can also be set via KUBEOPS_NAMESPACE)")
	cmd.Flags().Float32Var(&config.QPSLimit, "qps-limit", 20.0, "QPS limit for Kubernetes API calls")
	cmd.Flags().IntVar(&config.BurstLimit, "burst-limit", 30, "Burst limit for Kubernetes API calls")

	// Safety flags
	cmd.Flags().BoolVar(&config.NonDestructiveMode, "non-destructive", true, "Block mutating operations (delete, scale)")
	cmd.Flags().BoolVar(&config.DryRun, "dry-run", false, "Report the effect of mutating operations without applying them")
	cmd.Flags().StringSliceVar(&config.AllowedOperations, "allowed-operations", nil, "Mutating operations exempt from non-destructive mode")

	// Access policy flags
	cmd.Flags().StringVar(&config.PolicyMode, "policy-mode", "restrictive", "Built-in policy mode: restrictive or permissive (can also be set via POLICY_MODE)")
	cmd.Flags().StringVar(&config.PolicyFile, "policy-file", "", "YAML policy rule file, overrides --policy-mode (can also be set via ACCESS_POLICY_FILE)")
	cmd.Flags().DurationVar(&config.RateLimitWindow, "rate-limit-window", time.Minute, "Sliding window length for rate limiting (can also be set via RATE_LIMIT_WINDOW)")
	cmd.Flags().IntVar(&config.RateLimitRequests, "rate-limit-requests", 0, "Requests admitted per window per identity, 0 disables (can also be set via RATE_LIMIT_REQUESTS)")

	// Transport flags
	cmd.Flags().StringVar(&config.Transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&config.HTTPAddr, "http-addr", ":8080", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&config.SSEEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.MessageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.HTTPEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")
	cmd.Flags().StringVar(&config.MetricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Listen address of the dedicated metrics server")

	cmd.Flags().StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")

	return cmd
}

// runServe contains the main server logic with support for multiple
// transports.
func runServe(config ServeConfig) error {
	logger := logging.New(config.LogLevel)

	k8sClient := k8s.NewClient(k8s.ClientConfig{
		KubeconfigPath: config.Kubeconfig,
		Context:        config.Context,
		Namespace:      config.Namespace,
		QPSLimit:       config.QPSLimit,
		BurstLimit:     config.BurstLimit,
		Logger:         logger,
	})

	// Listen for both SIGINT and SIGTERM.
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := k8sClient.Initialize(shutdownCtx); err != nil {
		return fmt.Errorf("failed to initialize Kubernetes client: %w", err)
	}

	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	provider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := provider.Shutdown(context.Background()); shutdownErr != nil && config.Transport != transportStdio {
			logger.Error("instrumentation shutdown failed", logging.Err(shutdownErr))
		}
	}()

	if provider.Enabled() {
		logger.Info("instrumentation enabled",
			"metrics_exporter", instrumentationConfig.MetricsExporter,
			"tracing_exporter", instrumentationConfig.TracingExporter)
	}

	engine, err := buildPolicyEngine(config, policy.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to build policy engine: %w", err)
	}

	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithK8sClient(k8sClient),
		server.WithLogger(logger),
		server.WithVersion(rootCmd.Version),
		server.WithPolicy(engine),
		server.WithInstrumentation(provider),
		server.WithNonDestructiveMode(config.NonDestructiveMode),
		server.WithDryRun(config.DryRun),
		server.WithAllowedOperations(config.AllowedOperations),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer serverContext.Shutdown()

	mcpSrv := server.NewMCPServer(serverContext)

	switch config.Transport {
	case transportStdio:
		// No startup message for stdio mode, stdout belongs to the
		// protocol.
		return runStdioServer(mcpSrv)
	case transportSSE:
		return runSSEServer(mcpSrv, config, shutdownCtx, logger)
	case transportStreamableHTTP:
		return runStreamableHTTPServer(mcpSrv, config, shutdownCtx, serverContext)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", config.Transport)
	}
}
