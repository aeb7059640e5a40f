package middleware

import (
	"context"

	"compliance/lightrag"
)

// RequestIDHeader заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

// requestIDKey ключ идентификатора в gin.Context
const requestIDKey = "request_id"

// SetRequestID сохраняет идентификатор в контексте; клиент базы знаний
// передает его дальше в заголовке X-Request-ID
func SetRequestID(ctx context.Context, reqID string) context.Context {
	return lightrag.WithRequestID(ctx, reqID)
}

// GetRequestID извлекает идентификатор из контекста
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	return lightrag.RequestIDFromContext(ctx)
}
