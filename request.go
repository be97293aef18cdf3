package httptelemetry

import (
	"fmt"
	"net/http"
	"strconv"
)

// RequestInfo - неизменяемый снапшот исходящего запроса.
type RequestInfo struct {
	// Scheme схема запроса ("http" или "https")
	Scheme string

	// Host имя хоста без порта
	Host string

	// Port номер порта
	Port int

	// Path путь запроса
	Path string

	// Method HTTP метод ("GET", "POST", ...)
	Method string
}

// RequestInfoFromRequest извлекает снапшот из http.Request.
// Если URL не содержит порт, подставляется порт схемы по умолчанию.
func RequestInfoFromRequest(req *http.Request) RequestInfo {
	scheme := req.URL.Scheme
	if scheme == "" {
		scheme = "http"
	}

	port := 0
	if p := req.URL.Port(); p != "" {
		port, _ = strconv.Atoi(p)
	} else if scheme == "https" {
		port = 443
	} else {
		port = 80
	}

	path := req.URL.Path
	if path == "" {
		path = "/"
	}

	return RequestInfo{
		Scheme: scheme,
		Host:   req.URL.Hostname(),
		Port:   port,
		Path:   path,
		Method: req.Method,
	}
}

// URL возвращает строку вида "{scheme}://{host}:{port}{path}".
// Это отображаемая строка для атрибутов, а не валидный URL: без экранирования,
// без скобок для IPv6 и без опускания порта по умолчанию.
func (r RequestInfo) URL() string {
	return r.Scheme + "://" + r.Host + ":" + strconv.Itoa(r.Port) + r.Path
}

// ResponseInfo содержит метаданные полученного ответа.
type ResponseInfo struct {
	// StatusCode числовой HTTP статус ответа
	StatusCode int

	// ContentLength размер тела ответа в байтах, -1 если неизвестен
	ContentLength int64
}

// Result - исход завершившегося запроса: Success или Failure.
type Result interface {
	isResult()
}

// Success означает, что запрос завершился HTTP ответом (любым статусом).
type Success struct {
	Response ResponseInfo
}

// Failure означает, что запрос завершился без ответа.
// Reason - произвольное значение ошибки: обычно error, но допускается любое.
type Failure struct {
	Reason any
}

func (Success) isResult() {}
func (Failure) isResult() {}

// StatusCode возвращает числовой HTTP статус исхода.
// Для Failure реального статуса не существует - возвращается 0.
func StatusCode(result Result) int {
	if s, ok := result.(Success); ok {
		return s.Response.StatusCode
	}
	return 0
}

// FormatReason приводит причину ошибки к человекочитаемой строке.
// Для error используется его сообщение, для остальных значений - отладочное
// представление. Форматирование никогда не паникует.
func FormatReason(reason any) (msg string) {
	defer func() {
		if recover() != nil {
			msg = fmt.Sprintf("%T", reason)
		}
	}()

	if err, ok := reason.(error); ok && err != nil {
		return err.Error()
	}

	return fmt.Sprintf("%+v", reason)
}
