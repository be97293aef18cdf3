package httptelemetry

import (
	"net/http"
)

// NewClient создаёт http.Client, эмитирующий телеметрические события.
func NewClient(cfg Config) *http.Client {
	cfg = cfg.withDefaults()

	return &http.Client{
		Transport: NewRoundTripper(cfg),
		Timeout:   cfg.Timeout,
	}
}

// InstrumentClient оборачивает транспорт существующего клиента,
// сохраняя Jar, Timeout и CheckRedirect.
func InstrumentClient(c *http.Client, clientName string) *http.Client {
	transport := c.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	rt := NewRoundTripper(Config{
		ClientName: clientName,
		Transport:  transport,
	})

	return &http.Client{
		Transport:     rt,
		CheckRedirect: c.CheckRedirect,
		Jar:           c.Jar,
		Timeout:       c.Timeout,
	}
}
