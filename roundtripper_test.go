package httptelemetry

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTripperEmitsEvents проверяет, что один запрос даёт ровно одно
// start- и одно stop-событие
func TestRoundTripperEmitsEvents(t *testing.T) {
	t.Parallel()

	server := NewTestServer(TestResponse{StatusCode: 200, Body: `{"ok":true}`})
	defer server.Close()

	reg := NewRegistry()
	recorder := &eventRecorder{}
	recorder.attach(reg, "recorder-start", EventRequestStart)
	recorder.attach(reg, "recorder-stop", EventRequestStop)

	client := NewClient(Config{ClientName: "test-client", Registry: reg})

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	events := recorder.recorded()
	require.Len(t, events, 2)

	assert.Equal(t, EventRequestStart, events[0].Event)
	assert.Equal(t, EventRequestStop, events[1].Event)

	stop := events[1]
	assert.Equal(t, "test-client", stop.Metadata.ClientName)
	assert.Equal(t, "GET", stop.Metadata.Request.Method)
	assert.Equal(t, "http", stop.Metadata.Request.Scheme)
	assert.Greater(t, stop.Measurements.Duration, time.Duration(0))

	result, ok := stop.Metadata.Result.(Success)
	require.True(t, ok)
	assert.Equal(t, 200, result.Response.StatusCode)
}

// TestRoundTripperServerError проверяет, что 5xx ответ остаётся Success с его статусом
func TestRoundTripperServerError(t *testing.T) {
	t.Parallel()

	server := NewTestServer(TestResponse{StatusCode: 503})
	defer server.Close()

	reg := NewRegistry()
	recorder := &eventRecorder{}
	recorder.attach(reg, "recorder-stop", EventRequestStop)

	client := NewClient(Config{ClientName: "test-client", Registry: reg})

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	events := recorder.recorded()
	require.Len(t, events, 1)

	result, ok := events[0].Metadata.Result.(Success)
	require.True(t, ok)
	assert.Equal(t, 503, result.Response.StatusCode)
}

// TestRoundTripperFailure проверяет stop-событие для запроса без ответа
func TestRoundTripperFailure(t *testing.T) {
	t.Parallel()

	// Сервер закрыт - транспорт вернёт ошибку соединения
	server := NewTestServer()
	url := server.URL
	server.Close()

	reg := NewRegistry()
	recorder := &eventRecorder{}
	recorder.attach(reg, "recorder-stop", EventRequestStop)

	client := NewClient(Config{ClientName: "test-client", Registry: reg})

	_, err := client.Get(url) //nolint:bodyclose // ответа нет
	require.Error(t, err)

	events := recorder.recorded()
	require.Len(t, events, 1)

	failure, ok := events[0].Metadata.Result.(Failure)
	require.True(t, ok)

	reasonErr, ok := failure.Reason.(error)
	require.True(t, ok)
	assert.Error(t, reasonErr)
}

// TestRoundTripperContextCancellation проверяет исход отменённого запроса
func TestRoundTripperContextCancellation(t *testing.T) {
	t.Parallel()

	server := NewTestServer(TestResponse{StatusCode: 200, Delay: 500 * time.Millisecond})
	defer server.Close()

	reg := NewRegistry()
	recorder := &eventRecorder{}
	recorder.attach(reg, "recorder-stop", EventRequestStop)

	client := NewClient(Config{ClientName: "test-client", Registry: reg})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	_, err = client.Do(req) //nolint:bodyclose // ответа нет
	require.Error(t, err)

	events := recorder.recorded()
	require.Len(t, events, 1)

	_, ok := events[0].Metadata.Result.(Failure)
	assert.True(t, ok)
}

// TestRoundTripperRequestSnapshot проверяет снапшот запроса в метаданных
func TestRoundTripperRequestSnapshot(t *testing.T) {
	t.Parallel()

	server := NewTestServer(TestResponse{StatusCode: 200})
	defer server.Close()

	reg := NewRegistry()
	recorder := &eventRecorder{}
	recorder.attach(reg, "recorder-stop", EventRequestStop)

	client := NewClient(Config{ClientName: "test-client", Registry: reg})

	resp, err := client.Post(server.URL+"/v1/items", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	events := recorder.recorded()
	require.Len(t, events, 1)

	info := events[0].Metadata.Request
	assert.Equal(t, "POST", info.Method)
	assert.Equal(t, "/v1/items", info.Path)
	assert.Equal(t, "http", info.Scheme)
	assert.NotZero(t, info.Port)
	assert.NotEmpty(t, info.Host)
}
