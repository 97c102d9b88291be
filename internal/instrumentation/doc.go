// Package instrumentation wires OpenTelemetry metrics and tracing for
// the server. Instrumentation is disabled by default and activated via
// INSTRUMENTATION_ENABLED=true; exporters are selected with
// METRICS_EXPORTER (prometheus, otlp, stdout) and TRACING_EXPORTER
// (otlp, stdout, none).
//
// The Metrics type tolerates a nil receiver so call sites never need to
// guard on whether instrumentation is active.
package instrumentation
