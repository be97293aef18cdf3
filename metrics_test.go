package httptelemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingMetricsProvider фиксирует вызовы для проверок в тестах
type countingMetricsProvider struct {
	mu            sync.Mutex
	requests      int
	durations     []float64
	failures      []string
	responseSizes []int64
	inflight      int
	lastStatus    string
	lastError     bool
}

func (c *countingMetricsProvider) RecordRequest(_ context.Context, _, _, _, status string, hasError bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests++
	c.lastStatus = status
	c.lastError = hasError
}

func (c *countingMetricsProvider) RecordDuration(_ context.Context, seconds float64, _, _, _, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.durations = append(c.durations, seconds)
}

func (c *countingMetricsProvider) RecordFailure(_ context.Context, _, kind, _, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, kind)
}

func (c *countingMetricsProvider) RecordResponseSize(_ context.Context, bytes int64, _, _, _, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseSizes = append(c.responseSizes, bytes)
}

func (c *countingMetricsProvider) InflightInc(_ context.Context, _, _, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight++
}

func (c *countingMetricsProvider) InflightDec(_ context.Context, _, _, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
}

func (c *countingMetricsProvider) Close() error { return nil }

// TestSetupMetricsRecordsSuccess проверяет запись метрик успешного запроса
func TestSetupMetricsRecordsSuccess(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	provider := &countingMetricsProvider{}
	require.NoError(t, SetupMetrics(provider, WithMetricsRegistry(reg)))

	md := requestMetadata("GET", Success{Response: ResponseInfo{StatusCode: 200, ContentLength: 1024}})

	reg.Emit(context.Background(), EventRequestStart, Measurements{}, md)
	assert.Equal(t, 1, provider.inflight)

	reg.Emit(context.Background(), EventRequestStop, Measurements{Duration: 120 * time.Millisecond}, md)

	assert.Equal(t, 0, provider.inflight)
	assert.Equal(t, 1, provider.requests)
	assert.Equal(t, "200", provider.lastStatus)
	assert.False(t, provider.lastError)
	require.Len(t, provider.durations, 1)
	assert.InDelta(t, 0.120, provider.durations[0], 0.0001)
	require.Len(t, provider.responseSizes, 1)
	assert.Equal(t, int64(1024), provider.responseSizes[0])
	assert.Empty(t, provider.failures)
}

// TestSetupMetricsRecordsFailure проверяет запись метрик запроса без ответа
func TestSetupMetricsRecordsFailure(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	provider := &countingMetricsProvider{}
	require.NoError(t, SetupMetrics(provider, WithMetricsRegistry(reg)))

	md := requestMetadata("GET", Failure{Reason: fakeNetError{msg: "i/o timeout", timeout: true}})
	reg.Emit(context.Background(), EventRequestStop, Measurements{Duration: 50 * time.Millisecond}, md)

	assert.Equal(t, 1, provider.requests)
	assert.Equal(t, "0", provider.lastStatus)
	assert.True(t, provider.lastError)
	require.Len(t, provider.failures, 1)
	assert.Equal(t, "timeout", provider.failures[0])
	assert.Empty(t, provider.responseSizes)
}

// TestSetupMetricsIdempotent проверяет, что повторный SetupMetrics не дублирует записи
func TestSetupMetricsIdempotent(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	provider := &countingMetricsProvider{}

	require.NoError(t, SetupMetrics(provider, WithMetricsRegistry(reg)))
	require.NoError(t, SetupMetrics(provider, WithMetricsRegistry(reg)))

	md := requestMetadata("GET", Success{Response: ResponseInfo{StatusCode: 200}})
	reg.Emit(context.Background(), EventRequestStop, Measurements{Duration: time.Millisecond}, md)

	assert.Equal(t, 1, provider.requests)
}

// TestSetupMetricsNilProvider проверяет подстановку noop-провайдера
func TestSetupMetricsNilProvider(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, SetupMetrics(nil, WithMetricsRegistry(reg)))

	md := requestMetadata("GET", Failure{Reason: errors.New("boom")})
	assert.NotPanics(t, func() {
		reg.Emit(context.Background(), EventRequestStop, Measurements{Duration: time.Millisecond}, md)
	})
}

// TestNewMetricsProvider проверяет выбор провайдера по бэкенду
func TestNewMetricsProvider(t *testing.T) {
	t.Parallel()

	assert.IsType(t, &OpenTelemetryMetricsProvider{}, NewMetricsProvider(MetricsBackendOpenTelemetry))
	assert.IsType(t, &NoopMetricsProvider{}, NewMetricsProvider("unknown"))
	assert.IsType(t, &NoopMetricsProvider{}, NewMetricsProvider(""))
}

// TestNoopMetricsProvider проверяет, что noop-провайдер ничего не делает и не паникует
func TestNoopMetricsProvider(t *testing.T) {
	t.Parallel()

	provider := NewNoopMetricsProvider()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		provider.RecordRequest(ctx, "c", "GET", "example.com", "200", false)
		provider.RecordDuration(ctx, 0.5, "c", "GET", "example.com", "200")
		provider.RecordFailure(ctx, "c", "timeout", "GET", "example.com")
		provider.RecordResponseSize(ctx, 100, "c", "GET", "example.com", "200")
		provider.InflightInc(ctx, "c", "GET", "example.com")
		provider.InflightDec(ctx, "c", "GET", "example.com")
	})
	assert.NoError(t, provider.Close())
}
