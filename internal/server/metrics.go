package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kubeops-ai/kubeops/internal/instrumentation"
)

const (
	// DefaultMetricsAddr is the listen address of the dedicated metrics
	// server.
	DefaultMetricsAddr = ":9090"

	// DefaultShutdownTimeout bounds graceful shutdown of the HTTP
	// servers.
	DefaultShutdownTimeout = 30 * time.Second
)

// MetricsServerConfig configures the dedicated metrics server.
type MetricsServerConfig struct {
	// Addr is the listen address. Empty means DefaultMetricsAddr.
	Addr string

	// Provider supplies the Prometheus scrape handler.
	Provider *instrumentation.Provider
}

// MetricsServer serves Prometheus metrics on its own port, keeping the
// scrape endpoint off the client-facing listener.
type MetricsServer struct {
	addr   string
	server *http.Server
}

// NewMetricsServer builds the metrics server. The instrumentation
// provider must be enabled and configured with the prometheus exporter.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if config.Provider == nil || !config.Provider.Enabled() {
		return nil, errors.New("metrics server requires an enabled instrumentation provider")
	}
	handler := config.Provider.PrometheusHandler()
	if handler == nil {
		return nil, errors.New("metrics server requires the prometheus exporter")
	}

	addr := config.Addr
	if addr == "" {
		addr = DefaultMetricsAddr
	}

	mux := http.NewServeMux()
	mux.Handle(config.Provider.PrometheusEndpoint(), handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &MetricsServer{
		addr: addr,
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

// Addr returns the listen address.
func (m *MetricsServer) Addr() string {
	return m.addr
}

// Start blocks serving the metrics endpoint until Shutdown.
func (m *MetricsServer) Start() error {
	return m.server.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.server.Shutdown(ctx)
}
