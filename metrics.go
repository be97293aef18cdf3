package httptelemetry

import (
	"context"
	"strconv"
)

// Стабильные идентификаторы обработчиков метрик.
const (
	metricsStartHandlerID = "http-telemetry-metrics.start"
	metricsStopHandlerID  = "http-telemetry-metrics.stop"
)

// metricsConfig содержит конфигурацию обработчиков метрик.
type metricsConfig struct {
	provider MetricsProvider
	registry *Registry
}

// MetricsOption - функциональная опция для SetupMetrics.
type MetricsOption func(*metricsConfig)

// WithMetricsRegistry задаёт таблицу обработчиков для регистрации.
// По умолчанию используется DefaultRegistry.
func WithMetricsRegistry(r *Registry) MetricsOption {
	return func(c *metricsConfig) {
		c.registry = r
	}
}

// SetupMetrics регистрирует обработчики start- и stop-событий, записывающие
// метрики через указанный провайдер. Повторные вызовы идемпотентны:
// обработчики заменяются, а не дублируются. Всегда возвращает nil.
func SetupMetrics(provider MetricsProvider, opts ...MetricsOption) error {
	cfg := &metricsConfig{
		provider: provider,
		registry: DefaultRegistry,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.provider == nil {
		cfg.provider = NewNoopMetricsProvider()
	}

	cfg.registry.Attach(metricsStartHandlerID, EventRequestStart, recordRequestStart, cfg)
	cfg.registry.Attach(metricsStopHandlerID, EventRequestStop, recordRequestStop, cfg)

	return nil
}

// NewMetricsProvider создаёт провайдер для указанного бэкенда.
// Неизвестный бэкенд даёт noop-провайдер.
func NewMetricsProvider(backend MetricsBackend) MetricsProvider {
	switch backend {
	case MetricsBackendPrometheus:
		return NewPrometheusMetricsProvider(nil)
	case MetricsBackendOpenTelemetry:
		return NewOpenTelemetryMetricsProvider(nil)
	default:
		return NewNoopMetricsProvider()
	}
}

// recordRequestStart учитывает начавшийся запрос.
func recordRequestStart(ctx context.Context, _ Event, _ Measurements, md Metadata, config any) {
	cfg := config.(*metricsConfig)

	cfg.provider.InflightInc(ctx, md.ClientName, md.Request.Method, md.Request.Host)
}

// recordRequestStop записывает метрики завершившегося запроса.
func recordRequestStop(ctx context.Context, _ Event, m Measurements, md Metadata, config any) {
	cfg := config.(*metricsConfig)

	method := md.Request.Method
	host := md.Request.Host
	status := strconv.Itoa(StatusCode(md.Result))

	cfg.provider.InflightDec(ctx, md.ClientName, method, host)

	switch result := md.Result.(type) {
	case Success:
		cfg.provider.RecordRequest(ctx, md.ClientName, method, host, status, false)
		if result.Response.ContentLength >= 0 {
			cfg.provider.RecordResponseSize(ctx, result.Response.ContentLength, md.ClientName, method, host, status)
		}
	case Failure:
		cfg.provider.RecordRequest(ctx, md.ClientName, method, host, status, true)
		cfg.provider.RecordFailure(ctx, md.ClientName, string(ClassifyFailure(result)), method, host)
	}

	cfg.provider.RecordDuration(ctx, m.Duration.Seconds(), md.ClientName, method, host, status)
}
