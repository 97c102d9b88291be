package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubeops-ai/kubeops/internal/logging"
	"github.com/kubeops-ai/kubeops/internal/server"
	"github.com/kubeops-ai/kubeops/internal/server/middleware"
)

// runStreamableHTTPServer runs the server with Streamable HTTP
// transport. Alongside the MCP endpoint it mounts the chunked tool
// invocation gateway and the health probes, and starts the dedicated
// metrics server when instrumentation is enabled.
func runStreamableHTTPServer(mcpSrv *mcpserver.MCPServer, config ServeConfig, ctx context.Context, sc *server.ServerContext) error {
	logger := sc.Logger()
	mux := http.NewServeMux()

	mcpHandler := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(config.HTTPEndpoint),
	)
	mux.Handle(config.HTTPEndpoint, mcpHandler)

	mux.Handle("/call-tool-chunked", server.ChunkedToolHandler(sc))

	healthChecker := server.NewHealthChecker(sc)
	healthChecker.RegisterHealthEndpoints(mux)

	var handler http.Handler = mux
	handler = middleware.HTTPMetrics(sc.Instrumentation())(handler)

	// Metrics live on their own listener, away from client traffic.
	var metricsServer *server.MetricsServer
	if provider := sc.Instrumentation(); provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:     config.MetricsAddr,
			Provider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", logging.Err(err))
			}
		}()
		logger.Info("metrics server started",
			"addr", metricsServer.Addr(),
			"endpoint", provider.PrometheusEndpoint())
	}

	logger.Info("streamable HTTP server starting",
		"addr", config.HTTPAddr,
		"endpoint", config.HTTPEndpoint,
		"chunked_endpoint", "/call-tool-chunked",
		"health_endpoints", []string{"/healthz", "/readyz"})

	httpServer := &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("error shutting down metrics server", logging.Err(err))
			}
		}

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		logger.Info("HTTP server stopped normally")
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
