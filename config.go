package httptelemetry

import (
	"net/http"
	"time"
)

// Config содержит конфигурацию инструментируемого HTTP клиента
type Config struct {
	// ClientName имя клиента; попадает в метаданные событий и лейблы метрик
	ClientName string

	// Transport базовый HTTP транспорт (опционально)
	Transport http.RoundTripper

	// Timeout общий таймаут клиента; 0 - без таймаута
	Timeout time.Duration

	// Registry таблица обработчиков для эмитируемых событий (опционально)
	Registry *Registry
}

// withDefaults применяет значения по умолчанию к конфигурации
func (c Config) withDefaults() Config {
	if c.ClientName == "" {
		c.ClientName = "default"
	}

	if c.Transport == nil {
		c.Transport = http.DefaultTransport
	}

	if c.Registry == nil {
		c.Registry = DefaultRegistry
	}

	return c
}
