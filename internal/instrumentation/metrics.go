package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod       = "method"
	attrPath         = "path"
	attrStatus       = "status"
	attrOperation    = "operation"
	attrRequestClass = "request_class"
	attrOutcome      = "outcome"
	attrDecision     = "decision"
	attrResourceType = "resource_type"
	attrNamespace    = "namespace"
	attrFrameKind    = "kind"
)

// Request class values.
const (
	ClassTool     = "tool"
	ClassResource = "resource"
	ClassPrompt   = "prompt"
)

// Outcome values for dispatch metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeDenied  = "denied"
)

// Policy decision values.
const (
	DecisionAllowed     = "allowed"
	DecisionDenied      = "denied"
	DecisionRateLimited = "rate_limited"
)

// Stream frame kinds.
const (
	FrameProgress = "progress"
	FrameDone     = "done"
	FrameError    = "error"
)

// Metrics provides methods for recording observability metrics. A nil
// Metrics is safe to call; every recorder is a no-op until the provider
// initializes it.
type Metrics struct {
	// Dispatch metrics
	requestsTotal   metric.Int64Counter
	requestDuration metric.Float64Histogram

	// Policy metrics
	policyDecisionsTotal metric.Int64Counter

	// Cluster operation metrics
	k8sOperationsTotal   metric.Int64Counter
	k8sOperationDuration metric.Float64Histogram

	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Streaming metrics
	streamFramesTotal    metric.Int64Counter
	streamSessionsActive metric.Int64UpDownCounter

	// detailedLabels controls whether high-cardinality labels
	// (namespace, resource_type) are included in cluster operation
	// metrics.
	detailedLabels bool
}

// NewMetrics creates a Metrics instance with all instruments
// initialized on the meter.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{detailedLabels: detailedLabels}

	var err error

	m.requestsTotal, err = meter.Int64Counter(
		"mcp_requests_total",
		metric.WithDescription("Total number of dispatched protocol requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_requests_total counter: %w", err)
	}

	m.requestDuration, err = meter.Float64Histogram(
		"mcp_request_duration_seconds",
		metric.WithDescription("Protocol request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_request_duration_seconds histogram: %w", err)
	}

	m.policyDecisionsTotal, err = meter.Int64Counter(
		"policy_decisions_total",
		metric.WithDescription("Total number of access policy decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create policy_decisions_total counter: %w", err)
	}

	m.k8sOperationsTotal, err = meter.Int64Counter(
		"kubernetes_operations_total",
		metric.WithDescription("Total number of Kubernetes operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes_operations_total counter: %w", err)
	}

	m.k8sOperationDuration, err = meter.Float64Histogram(
		"kubernetes_operation_duration_seconds",
		metric.WithDescription("Kubernetes operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes_operation_duration_seconds histogram: %w", err)
	}

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.streamFramesTotal, err = meter.Int64Counter(
		"stream_frames_total",
		metric.WithDescription("Total number of streaming response frames"),
		metric.WithUnit("{frame}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream_frames_total counter: %w", err)
	}

	m.streamSessionsActive, err = meter.Int64UpDownCounter(
		"stream_sessions_active",
		metric.WithDescription("Number of streaming sessions currently open"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream_sessions_active counter: %w", err)
	}

	return m, nil
}

// RecordRequest records one dispatched request with its class, operation
// name, outcome and duration.
func (m *Metrics) RecordRequest(ctx context.Context, class, operation, outcome string, duration time.Duration) {
	if m == nil || m.requestsTotal == nil || m.requestDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrRequestClass, class),
		attribute.String(attrOperation, operation),
		attribute.String(attrOutcome, outcome),
	}
	m.requestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordPolicyDecision records one access policy decision.
func (m *Metrics) RecordPolicyDecision(ctx context.Context, class, decision string) {
	if m == nil || m.policyDecisionsTotal == nil {
		return
	}
	m.policyDecisionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrRequestClass, class),
		attribute.String(attrDecision, decision),
	))
}

// RecordK8sOperation records a Kubernetes operation.
//
// Cardinality note: namespace and resource_type labels are only added
// when detailed labels are enabled; large clusters should keep them off
// and rely on traces instead.
func (m *Metrics) RecordK8sOperation(ctx context.Context, operation, resourceType, namespace, status string, duration time.Duration) {
	if m == nil || m.k8sOperationsTotal == nil || m.k8sOperationDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels {
		attrs = append(attrs,
			attribute.String(attrResourceType, resourceType),
			attribute.String(attrNamespace, namespace),
		)
	}
	m.k8sOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.k8sOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordHTTPRequest records an HTTP request against the gateway.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}
	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// StreamSessionStarted bumps the active session gauge.
func (m *Metrics) StreamSessionStarted(ctx context.Context) {
	if m == nil || m.streamSessionsActive == nil {
		return
	}
	m.streamSessionsActive.Add(ctx, 1)
}

// StreamSessionEnded decrements the active session gauge.
func (m *Metrics) StreamSessionEnded(ctx context.Context) {
	if m == nil || m.streamSessionsActive == nil {
		return
	}
	m.streamSessionsActive.Add(ctx, -1)
}

// RecordStreamFrame records one emitted streaming frame.
func (m *Metrics) RecordStreamFrame(ctx context.Context, kind string) {
	if m == nil || m.streamFramesTotal == nil {
		return
	}
	m.streamFramesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrFrameKind, kind),
	))
}
