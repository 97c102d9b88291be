package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MeterName and TracerName identify this module's instruments.
const (
	MeterName  = "github.com/kubeops-ai/kubeops"
	TracerName = "github.com/kubeops-ai/kubeops"
)

// Span attribute keys for dispatch and cluster operations.
const (
	SpanAttrTool         = "mcp.tool"
	SpanAttrRequestClass = "mcp.request_class"
	SpanAttrIdentity     = "mcp.identity"
	SpanAttrURI          = "mcp.resource_uri"
	SpanAttrPrompt       = "mcp.prompt"
	SpanAttrNamespace    = "k8s.namespace"
	SpanAttrResourceType = "k8s.resource_type"
	SpanAttrResourceName = "k8s.resource_name"
	SpanAttrOperation    = "k8s.operation"
)

// StartSpan starts a span on the tracer with the given attributes.
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records the outcome on the span and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
