package httptelemetry

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

// tracerName имя инструментационной библиотеки для TracerProvider.
const tracerName = "gitlab.citydrive.tech/back-end/go/pkg/http-telemetry"

// tracingHandlerID стабильный идентификатор обработчика трассировки.
// Повторный Setup заменяет регистрацию, а не добавляет вторую.
const tracingHandlerID = "http-telemetry-tracing"

// setupConfig содержит конфигурацию обработчика трассировки.
type setupConfig struct {
	tracerProvider trace.TracerProvider
	registry       *Registry
	clock          func() time.Time
}

// SetupOption - функциональная опция для Setup.
type SetupOption func(*setupConfig)

// WithTracerProvider задаёт TracerProvider для создаваемых spans.
// По умолчанию используется глобальный провайдер otel.
func WithTracerProvider(tp trace.TracerProvider) SetupOption {
	return func(c *setupConfig) {
		c.tracerProvider = tp
	}
}

// WithRegistry задаёт таблицу обработчиков для регистрации.
// По умолчанию используется DefaultRegistry.
func WithRegistry(r *Registry) SetupOption {
	return func(c *setupConfig) {
		c.registry = r
	}
}

// Setup регистрирует обработчик stop-события, создающий span для каждого
// завершившегося запроса. Вызывается один раз при инициализации приложения;
// повторные вызовы идемпотентны. Всегда возвращает nil.
func Setup(opts ...SetupOption) error {
	cfg := &setupConfig{
		registry: DefaultRegistry,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	cfg.registry.Attach(tracingHandlerID, EventRequestStop, traceRequestStop, cfg)

	return nil
}

// traceRequestStop создаёт ровно один span для завершившегося запроса.
//
// Момент завершения фиксируется один раз на входе в обработчик: span
// начинается в end-duration и закрывается в end. Длительность известна
// только после завершения запроса, поэтому время старта восстанавливается
// назад от текущего момента.
func traceRequestStop(ctx context.Context, _ Event, m Measurements, md Metadata, config any) {
	cfg := config.(*setupConfig)

	end := cfg.clock()
	start := end.Add(-m.Duration)

	status := StatusCode(md.Result)

	attrs := []attribute.KeyValue{
		semconv.HTTPURLKey.String(md.Request.URL()),
		semconv.HTTPSchemeKey.String(md.Request.Scheme),
		semconv.NetPeerNameKey.String(md.Request.Host),
		semconv.NetPeerPortKey.Int(md.Request.Port),
		semconv.HTTPTargetKey.String(md.Request.Path),
		semconv.HTTPMethodKey.String(md.Request.Method),
		semconv.HTTPStatusCodeKey.Int(status),
	}

	tp := cfg.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	// Имя span - канонический токен метода, по конвенции клиентских spans
	_, span := tp.Tracer(tracerName).Start(ctx, strings.ToUpper(md.Request.Method),
		trace.WithTimestamp(start),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	if status >= 500 && status < 600 {
		span.SetStatus(codes.Error, "")
	}
	if f, ok := md.Result.(Failure); ok {
		span.SetStatus(codes.Error, FormatReason(f.Reason))
	}

	span.End(trace.WithTimestamp(end))
}
