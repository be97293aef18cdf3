package httptelemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// otelInstruments contains a set of OpenTelemetry instruments.
type otelInstruments struct {
	requests metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
	respSize metric.Float64Histogram
	inflight metric.Int64UpDownCounter
}

// globalOtelInstruments caches instruments by MeterProvider.
var globalOtelInstruments sync.Map // map[string]*otelInstruments

// OpenTelemetryMetricsProvider is a provider for collecting metrics via OpenTelemetry.
type OpenTelemetryMetricsProvider struct {
	inst *otelInstruments
}

// NewOpenTelemetryMetricsProvider creates a new OpenTelemetry metrics provider.
func NewOpenTelemetryMetricsProvider(mp metric.MeterProvider) *OpenTelemetryMetricsProvider {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	// Use MeterProvider address as cache key
	providerKey := fmt.Sprintf("%p", mp)

	inst, exists := globalOtelInstruments.Load(providerKey)
	if !exists {
		meter := mp.Meter(tracerName)

		// Create instruments
		requests, _ := meter.Int64Counter(
			MetricRequestsTotal,
			metric.WithDescription("Total number of HTTP client requests"),
		)

		failures, _ := meter.Int64Counter(
			MetricFailuresTotal,
			metric.WithDescription("Total number of HTTP client requests finished without a response"),
		)

		duration, _ := meter.Float64Histogram(
			MetricRequestDuration,
			metric.WithDescription("HTTP client request duration in seconds"),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(DefaultDurationBuckets...),
		)

		respSize, _ := meter.Float64Histogram(
			MetricResponseSize,
			metric.WithDescription("HTTP client response size in bytes"),
			metric.WithUnit("By"),
			metric.WithExplicitBucketBoundaries(DefaultSizeBuckets...),
		)

		inflight, _ := meter.Int64UpDownCounter(
			MetricInflightRequests,
			metric.WithDescription("Number of HTTP client requests currently in-flight"),
		)

		newInst := &otelInstruments{
			requests: requests,
			failures: failures,
			duration: duration,
			respSize: respSize,
			inflight: inflight,
		}

		// Store in cache
		globalOtelInstruments.Store(providerKey, newInst)
		inst = newInst
	}

	return &OpenTelemetryMetricsProvider{
		inst: inst.(*otelInstruments),
	}
}

// RecordRequest records a request metric.
func (o *OpenTelemetryMetricsProvider) RecordRequest(ctx context.Context, clientName, method, host, status string, hasError bool) {
	attrs := []attribute.KeyValue{
		attribute.String("client_name", clientName),
		attribute.String("method", method),
		attribute.String("host", host),
		attribute.String("status", status),
		attribute.Bool("error", hasError),
	}
	o.inst.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDuration records request duration.
func (o *OpenTelemetryMetricsProvider) RecordDuration(ctx context.Context, seconds float64, clientName, method, host, status string) {
	attrs := []attribute.KeyValue{
		attribute.String("client_name", clientName),
		attribute.String("method", method),
		attribute.String("host", host),
		attribute.String("status", status),
	}
	o.inst.duration.Record(ctx, seconds, metric.WithAttributes(attrs...))
}

// RecordFailure records a request that finished without a response.
func (o *OpenTelemetryMetricsProvider) RecordFailure(ctx context.Context, clientName, kind, method, host string) {
	attrs := []attribute.KeyValue{
		attribute.String("client_name", clientName),
		attribute.String("kind", kind),
		attribute.String("method", method),
		attribute.String("host", host),
	}
	o.inst.failures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordResponseSize records response size.
func (o *OpenTelemetryMetricsProvider) RecordResponseSize(ctx context.Context, bytes int64, clientName, method, host, status string) {
	attrs := []attribute.KeyValue{
		attribute.String("client_name", clientName),
		attribute.String("method", method),
		attribute.String("host", host),
		attribute.String("status", status),
	}
	o.inst.respSize.Record(ctx, float64(bytes), metric.WithAttributes(attrs...))
}

// InflightInc increments the active requests counter.
func (o *OpenTelemetryMetricsProvider) InflightInc(ctx context.Context, clientName, method, host string) {
	attrs := []attribute.KeyValue{
		attribute.String("client_name", clientName),
		attribute.String("method", method),
		attribute.String("host", host),
	}
	o.inst.inflight.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// InflightDec decrements the active requests counter.
func (o *OpenTelemetryMetricsProvider) InflightDec(ctx context.Context, clientName, method, host string) {
	attrs := []attribute.KeyValue{
		attribute.String("client_name", clientName),
		attribute.String("method", method),
		attribute.String("host", host),
	}
	o.inst.inflight.Add(ctx, -1, metric.WithAttributes(attrs...))
}

// Close releases resources.
func (o *OpenTelemetryMetricsProvider) Close() error {
	return nil
}
