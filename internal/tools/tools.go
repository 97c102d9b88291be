// Package tools provides shared utilities for tool handlers.
package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/kubeops-ai/kubeops/internal/command"
	"github.com/kubeops-ai/kubeops/internal/instrumentation"
	"github.com/kubeops-ai/kubeops/internal/k8s"
	"github.com/kubeops-ai/kubeops/internal/output"
)

// Deps carries the shared dependencies handed to every tool registration.
type Deps struct {
	Client     k8s.Client
	Translator *command.Translator
	Safety     SafetyConfig
	Output     output.Config
	Metrics    *instrumentation.Metrics
	Logger     *slog.Logger
}

// Log returns the configured logger or the process default.
func (d *Deps) Log() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Observe records one cluster operation against the metrics sink. A
// nil Metrics makes this a no-op.
func (d *Deps) Observe(ctx context.Context, operation, resourceType, namespace string, started time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	d.Metrics.RecordK8sOperation(ctx, operation, resourceType, namespace, status, time.Since(started))
}
