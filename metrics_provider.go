package httptelemetry

import "context"

// Константы для имен метрик, унифицированные для всех провайдеров.
const (
	MetricRequestsTotal    = "http_client_requests_total"
	MetricRequestDuration  = "http_client_request_duration_seconds"
	MetricFailuresTotal    = "http_client_failures_total"
	MetricInflightRequests = "http_client_inflight_requests"
	MetricResponseSize     = "http_client_response_size_bytes"
)

// DefaultDurationBuckets содержит бакеты по умолчанию для гистограмм длительности запросов (в секундах).
var DefaultDurationBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5,
	1, 2, 3, 5, 7, 10, 13, 16, 20, 25, 30, 40, 50, 60,
}

// DefaultSizeBuckets содержит бакеты по умолчанию для гистограмм размеров ответов (в байтах).
var DefaultSizeBuckets = []float64{
	256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304, 16777216,
}

// MetricsProvider определяет интерфейс для различных бэкендов метрик.
type MetricsProvider interface {
	// RecordRequest записывает метрику завершившегося запроса
	RecordRequest(ctx context.Context, clientName, method, host, status string, hasError bool)

	// RecordDuration записывает длительность запроса в секундах
	RecordDuration(ctx context.Context, seconds float64, clientName, method, host, status string)

	// RecordFailure записывает метрику запроса, завершившегося без ответа
	RecordFailure(ctx context.Context, clientName, kind, method, host string)

	// RecordResponseSize записывает размер ответа в байтах
	RecordResponseSize(ctx context.Context, bytes int64, clientName, method, host, status string)

	// InflightInc увеличивает счетчик активных запросов
	InflightInc(ctx context.Context, clientName, method, host string)

	// InflightDec уменьшает счетчик активных запросов
	InflightDec(ctx context.Context, clientName, method, host string)

	// Close освобождает ресурсы провайдера
	Close() error
}

// MetricsBackend определяет тип бэкенда метрик.
type MetricsBackend string

const (
	MetricsBackendPrometheus    MetricsBackend = "prometheus"
	MetricsBackendOpenTelemetry MetricsBackend = "otel"
)
