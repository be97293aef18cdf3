package httptelemetry

import (
	"net/http"
	"time"
)

// RoundTripper реализует http.RoundTripper, эмитирующий телеметрические
// события для каждого запроса. Сам запрос не модифицируется и не
// повторяется: ровно один запрос - ровно одно stop-событие.
type RoundTripper struct {
	base       http.RoundTripper
	clientName string
	registry   *Registry
	clock      func() time.Time
}

// NewRoundTripper создаёт инструментирующий транспорт поверх базового.
func NewRoundTripper(cfg Config) *RoundTripper {
	cfg = cfg.withDefaults()

	return &RoundTripper{
		base:       cfg.Transport,
		clientName: cfg.ClientName,
		registry:   cfg.Registry,
		clock:      time.Now,
	}
}

// RoundTrip выполняет запрос через базовый транспорт и эмитит события
// start и stop с измеренной длительностью и исходом.
func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	md := Metadata{
		ClientName: rt.clientName,
		Request:    RequestInfoFromRequest(req),
	}

	rt.registry.Emit(ctx, EventRequestStart, Measurements{}, md)

	start := rt.clock()
	resp, err := rt.base.RoundTrip(req)
	duration := rt.clock().Sub(start)

	if err != nil {
		md.Result = Failure{Reason: err}
	} else {
		md.Result = Success{Response: ResponseInfo{
			StatusCode:    resp.StatusCode,
			ContentLength: resp.ContentLength,
		}}
	}

	rt.registry.Emit(ctx, EventRequestStop, Measurements{Duration: duration}, md)

	return resp, err
}
