// Package observability provides OpenTelemetry integration, in-process
// statistics, and audit logging for catalogue invocations.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// TelemetryConfig configures telemetry.
type TelemetryConfig struct {
	// ServiceName is the service name for tracing.
	ServiceName string

	// ServiceVersion is the service version.
	ServiceVersion string

	// Environment is the deployment environment.
	Environment string

	// EnableTracing enables distributed tracing.
	EnableTracing bool

	// EnableMetrics enables metrics collection.
	EnableMetrics bool

	// MetricsPrefix is the prefix for all metrics.
	MetricsPrefix string
}

// DefaultTelemetryConfig returns default configuration.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		ServiceName:    "accessprobe",
		ServiceVersion: "1.0.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
		MetricsPrefix:  "accessprobe_",
	}
}

// Telemetry records spans and metrics for catalogue invocations. It
// satisfies the runner's telemetry contract.
type Telemetry struct {
	config TelemetryConfig
	tracer trace.Tracer
	meter  metric.Meter

	invocationCounter  metric.Int64Counter
	failureCounter     metric.Int64Counter
	unsupportedCounter metric.Int64Counter
	accessDuration     metric.Float64Histogram
}

// NewTelemetry creates a new telemetry instance.
func NewTelemetry(config TelemetryConfig) (*Telemetry, error) {
	t := &Telemetry{
		config: config,
		tracer: otel.Tracer(config.ServiceName),
		meter:  otel.Meter(config.ServiceName),
	}

	var err error

	t.invocationCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"invocations_total",
		metric.WithDescription("Total number of catalogue invocations"),
	)
	if err != nil {
		return nil, err
	}

	t.failureCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"failures_total",
		metric.WithDescription("Total number of failed invocations"),
	)
	if err != nil {
		return nil, err
	}

	t.unsupportedCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"unsupported_total",
		metric.WithDescription("Total number of invocations with an unsupported method id"),
	)
	if err != nil {
		return nil, err
	}

	t.accessDuration, err = t.meter.Float64Histogram(
		config.MetricsPrefix+"access_duration_ms",
		metric.WithDescription("Duration of catalogue invocations"),
	)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// StartSpan starts a trace span around one invocation.
func (t *Telemetry) StartSpan(ctx context.Context, name string) (context.Context, func()) {
	if !t.config.EnableTracing {
		return ctx, func() {}
	}

	ctx, span := t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("service.name", t.config.ServiceName),
			attribute.String("service.version", t.config.ServiceVersion),
			attribute.String("environment", t.config.Environment),
		),
	)

	return ctx, func() {
		span.End()
	}
}

// RecordMetric records a duration metric.
func (t *Telemetry) RecordMetric(name string, value float64, labels map[string]string) {
	if !t.config.EnableMetrics {
		return
	}

	attrs := labelsToAttributes(labels)
	t.accessDuration.Record(context.Background(), value, metric.WithAttributes(attrs...))
	t.invocationCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))

	switch labels["status"] {
	case "failure", "rate_limited", "canceled":
		t.failureCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	case "unsupported":
		t.unsupportedCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	}
}

// labelsToAttributes converts labels to OTEL attributes.
func labelsToAttributes(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	return attrs
}
