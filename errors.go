package httptelemetry

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
)

// FailureKind классифицирует причину неуспешного запроса для лейблов метрик.
type FailureKind string

const (
	// FailureKindTimeout запрос прерван по таймауту
	FailureKindTimeout FailureKind = "timeout"

	// FailureKindNetwork сетевая ошибка (reset, refused, broken pipe)
	FailureKindNetwork FailureKind = "net"

	// FailureKindCanceled запрос отменён через контекст
	FailureKindCanceled FailureKind = "canceled"

	// FailureKindOther прочие ошибки
	FailureKindOther FailureKind = "other"
)

// ClassifyFailure определяет категорию причины ошибки.
// Для Success и невостребованных значений возвращается FailureKindOther.
func ClassifyFailure(result Result) FailureKind {
	f, ok := result.(Failure)
	if !ok {
		return FailureKindOther
	}

	err, ok := f.Reason.(error)
	if !ok || err == nil {
		return FailureKindOther
	}

	switch {
	case errors.Is(err, context.Canceled):
		return FailureKindCanceled
	case isTimeoutError(err):
		return FailureKindTimeout
	case isNetworkError(err):
		return FailureKindNetwork
	default:
		return FailureKindOther
	}
}

// isTimeoutError проверяет, является ли ошибка таймаутом
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if ok := errors.As(err, &netErr); ok && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if ok := errors.As(err, &urlErr); ok {
		return isTimeoutError(urlErr.Err)
	}

	return strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "deadline exceeded")
}

// isNetworkError проверяет, является ли ошибка сетевой
func isNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if ok := errors.As(err, &netErr); ok {
		return netErr.Temporary() || strings.Contains(err.Error(), "connection reset")
	}

	var urlErr *url.Error
	if ok := errors.As(err, &urlErr); ok {
		return isNetworkError(urlErr.Err)
	}

	return strings.Contains(err.Error(), "connection reset") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection refused")
}
