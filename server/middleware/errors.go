package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "compliance/server/errors"
)

// ErrorResponse структура ответа об ошибке
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
}

func newErrorResponse(message, reqID string) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: reqID,
	}
}

func internalMessage() string {
	return apperrors.InternalMessage
}

// GinErrorMiddleware превращает последнюю ошибку из c.Errors в JSON ответ.
// Обработчики вызывают c.Error(err) и выходят, не записывая тело.
func GinErrorMiddleware(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		appErr := apperrors.AsAppError(last.Err)
		reqID := GetRequestIDFromGin(c)

		logger.Error("HTTP error",
			"error", appErr.Unwrap(),
			"user_message", appErr.UserMessage(),
			"context", appErr.Context,
			"status_code", appErr.StatusCode(),
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		c.JSON(appErr.StatusCode(), newErrorResponse(appErr.UserMessage(), reqID))
	}
}
