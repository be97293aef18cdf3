// Package httptelemetry transforms HTTP client lifecycle events into
// OpenTelemetry spans and metrics.
package httptelemetry

import (
	"context"
	"sync"
	"time"
)

// Event идентифицирует событие жизненного цикла HTTP запроса.
type Event string

const (
	// EventRequestStart эмитится перед выполнением запроса.
	EventRequestStart Event = "http.client.request.start"

	// EventRequestStop эмитится после завершения запроса (успешного или с ошибкой).
	EventRequestStop Event = "http.client.request.stop"
)

// Measurements содержит измерения, снятые при наступлении события.
type Measurements struct {
	// Duration длительность запроса; заполняется только для stop-события
	Duration time.Duration
}

// Metadata содержит метаданные события.
type Metadata struct {
	// ClientName имя клиента, эмитировавшего событие
	ClientName string

	// Request снапшот исходящего запроса
	Request RequestInfo

	// Result исход запроса; заполняется только для stop-события
	Result Result
}

// HandlerFunc вызывается системой нотификации при наступлении события.
// config — значение, переданное при регистрации обработчика.
type HandlerFunc func(ctx context.Context, event Event, m Measurements, md Metadata, config any)

// handlerEntry хранит одну регистрацию в таблице обработчиков.
type handlerEntry struct {
	event  Event
	fn     HandlerFunc
	config any
}

// Registry - таблица обработчиков событий, ключом служит стабильный
// идентификатор обработчика. Повторная регистрация с тем же идентификатором
// заменяет предыдущую (идемпотентность), а не добавляет дубликат.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]handlerEntry
}

// NewRegistry создаёт пустую таблицу обработчиков.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]handlerEntry),
	}
}

// DefaultRegistry - общепроцессная таблица обработчиков, используемая
// по умолчанию клиентами и адаптерами.
var DefaultRegistry = NewRegistry()

// Attach регистрирует обработчик события под указанным идентификатором.
// Если идентификатор уже занят, предыдущая регистрация заменяется.
func (r *Registry) Attach(handlerID string, event Event, fn HandlerFunc, config any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[handlerID] = handlerEntry{
		event:  event,
		fn:     fn,
		config: config,
	}
}

// Detach удаляет регистрацию обработчика. Отсутствующий идентификатор не ошибка.
func (r *Registry) Detach(handlerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.handlers, handlerID)
}

// Emit синхронно вызывает все обработчики, подписанные на событие.
// Порядок вызова обработчиков не гарантируется.
func (r *Registry) Emit(ctx context.Context, event Event, m Measurements, md Metadata) {
	r.mu.RLock()
	matched := make([]handlerEntry, 0, len(r.handlers))
	for _, entry := range r.handlers {
		if entry.event == event {
			matched = append(matched, entry)
		}
	}
	r.mu.RUnlock()

	// Вызываем без удержания блокировки: обработчик может выполнять Attach/Detach
	for _, entry := range matched {
		entry.fn(ctx, event, m, md, entry.config)
	}
}

// handlerCount возвращает количество обработчиков, подписанных на событие.
func (r *Registry) handlerCount(event Event) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, entry := range r.handlers {
		if entry.event == event {
			n++
		}
	}
	return n
}

// Attach регистрирует обработчик в DefaultRegistry.
func Attach(handlerID string, event Event, fn HandlerFunc, config any) {
	DefaultRegistry.Attach(handlerID, event, fn, config)
}

// Detach удаляет обработчик из DefaultRegistry.
func Detach(handlerID string) {
	DefaultRegistry.Detach(handlerID)
}

// Emit эмитит событие через DefaultRegistry.
func Emit(ctx context.Context, event Event, m Measurements, md Metadata) {
	DefaultRegistry.Emit(ctx, event, m, md)
}
