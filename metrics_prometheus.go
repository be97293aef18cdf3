package httptelemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// prometheusGlobalMetrics содержит глобальные векторы метрик Prometheus.
type prometheusGlobalMetrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	FailuresTotal    *prometheus.CounterVec
	InflightRequests *prometheus.GaugeVec
	ResponseSize     *prometheus.HistogramVec
}

// globalPrometheusMetrics кеширует зарегистрированные метрики по регистратору.
var globalPrometheusMetrics sync.Map // map[string]*prometheusGlobalMetrics

// PrometheusMetricsProvider - провайдер для сбора метрик через Prometheus.
type PrometheusMetricsProvider struct {
	metrics *prometheusGlobalMetrics
}

// NewPrometheusMetricsProvider создает новый провайдер метрик Prometheus.
func NewPrometheusMetricsProvider(reg prometheus.Registerer) *PrometheusMetricsProvider {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	// Используем адрес регистратора как ключ кеша
	registryKey := fmt.Sprintf("%p", reg)

	metrics, exists := globalPrometheusMetrics.Load(registryKey)
	if !exists {
		// Создаем и регистрируем метрики
		newMetrics := &prometheusGlobalMetrics{
			RequestsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: MetricRequestsTotal,
					Help: "Total number of HTTP client requests",
				},
				[]string{"client_name", "method", "host", "status", "error"},
			),
			RequestDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    MetricRequestDuration,
					Help:    "HTTP client request duration in seconds",
					Buckets: DefaultDurationBuckets,
				},
				[]string{"client_name", "method", "host", "status"},
			),
			FailuresTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: MetricFailuresTotal,
					Help: "Total number of HTTP client requests finished without a response",
				},
				[]string{"client_name", "kind", "method", "host"},
			),
			InflightRequests: prometheus.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: MetricInflightRequests,
					Help: "Number of HTTP client requests currently in-flight",
				},
				[]string{"client_name", "method", "host"},
			),
			ResponseSize: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    MetricResponseSize,
					Help:    "HTTP client response size in bytes",
					Buckets: DefaultSizeBuckets,
				},
				[]string{"client_name", "method", "host", "status"},
			),
		}

		// Регистрируем все метрики
		reg.MustRegister(
			newMetrics.RequestsTotal,
			newMetrics.RequestDuration,
			newMetrics.FailuresTotal,
			newMetrics.InflightRequests,
			newMetrics.ResponseSize,
		)

		// Сохраняем в кеше
		globalPrometheusMetrics.Store(registryKey, newMetrics)
		metrics = newMetrics
	}

	return &PrometheusMetricsProvider{
		metrics: metrics.(*prometheusGlobalMetrics),
	}
}

// RecordRequest записывает метрику запроса.
func (p *PrometheusMetricsProvider) RecordRequest(_ context.Context, clientName, method, host, status string, hasError bool) {
	errorStr := "false"
	if hasError {
		errorStr = "true"
	}
	p.metrics.RequestsTotal.WithLabelValues(clientName, method, host, status, errorStr).Inc()
}

// RecordDuration записывает длительность запроса.
func (p *PrometheusMetricsProvider) RecordDuration(_ context.Context, seconds float64, clientName, method, host, status string) {
	p.metrics.RequestDuration.WithLabelValues(clientName, method, host, status).Observe(seconds)
}

// RecordFailure записывает метрику запроса без ответа.
func (p *PrometheusMetricsProvider) RecordFailure(_ context.Context, clientName, kind, method, host string) {
	p.metrics.FailuresTotal.WithLabelValues(clientName, kind, method, host).Inc()
}

// RecordResponseSize записывает размер ответа.
func (p *PrometheusMetricsProvider) RecordResponseSize(_ context.Context, bytes int64, clientName, method, host, status string) {
	p.metrics.ResponseSize.WithLabelValues(clientName, method, host, status).Observe(float64(bytes))
}

// InflightInc увеличивает счетчик активных запросов.
func (p *PrometheusMetricsProvider) InflightInc(_ context.Context, clientName, method, host string) {
	p.metrics.InflightRequests.WithLabelValues(clientName, method, host).Inc()
}

// InflightDec уменьшает счетчик активных запросов.
func (p *PrometheusMetricsProvider) InflightDec(_ context.Context, clientName, method, host string) {
	p.metrics.InflightRequests.WithLabelValues(clientName, method, host).Dec()
}

// Close освобождает ресурсы.
func (p *PrometheusMetricsProvider) Close() error {
	return nil
}
