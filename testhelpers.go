package httptelemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// TestServer предоставляет моковый HTTP сервер для тестирования
type TestServer struct {
	*httptest.Server
	mu              sync.RWMutex
	responses       []TestResponse
	currentResponse int
	requestCount    int
}

// TestResponse описывает ответ тестового сервера
type TestResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       string
	Delay      time.Duration
}

// NewTestServer создаёт новый тестовый сервер
func NewTestServer(responses ...TestResponse) *TestServer {
	ts := &TestServer{
		responses: responses,
	}

	ts.Server = httptest.NewServer(http.HandlerFunc(ts.handler))
	return ts
}

// handler обрабатывает HTTP запросы
func (ts *TestServer) handler(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.requestCount++

	if len(ts.responses) == 0 {
		// Дефолтный ответ если не настроен
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
		return
	}

	responseIndex := ts.currentResponse
	if responseIndex >= len(ts.responses) {
		responseIndex = len(ts.responses) - 1 // используем последний ответ
	}

	response := ts.responses[responseIndex]
	ts.currentResponse++

	if response.Delay > 0 {
		time.Sleep(response.Delay)
	}

	for k, v := range response.Headers {
		w.Header().Set(k, v)
	}

	w.WriteHeader(response.StatusCode)

	if response.Body != "" {
		w.Write([]byte(response.Body))
	}
}

// GetRequestCount возвращает количество полученных запросов
func (ts *TestServer) GetRequestCount() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.requestCount
}

// recordedEvent фиксирует один вызов обработчика событий.
type recordedEvent struct {
	Event        Event
	Measurements Measurements
	Metadata     Metadata
}

// eventRecorder собирает эмитированные события для проверок в тестах.
type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

// attach подписывает рекордер на событие в указанной таблице.
func (er *eventRecorder) attach(r *Registry, handlerID string, event Event) {
	r.Attach(handlerID, event, func(_ context.Context, e Event, m Measurements, md Metadata, _ any) {
		er.mu.Lock()
		defer er.mu.Unlock()
		er.events = append(er.events, recordedEvent{Event: e, Measurements: m, Metadata: md})
	}, nil)
}

// recorded возвращает копию зафиксированных событий.
func (er *eventRecorder) recorded() []recordedEvent {
	er.mu.Lock()
	defer er.mu.Unlock()
	out := make([]recordedEvent, len(er.events))
	copy(out, er.events)
	return out
}
