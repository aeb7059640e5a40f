package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// InternalMessage сообщение клиенту при внутренней ошибке; детали только в логах
const InternalMessage = "Internal server error"

// AppError ошибка приложения с HTTP статусом
type AppError struct {
	Code    int    `json:"status_code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
	Context string `json:"-"`
}

// Error реализует интерфейс error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap возвращает вложенную ошибку для errors.Is и errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode возвращает HTTP статус
func (e *AppError) StatusCode() int {
	return e.Code
}

// UserMessage возвращает сообщение для клиента
func (e *AppError) UserMessage() string {
	return e.Message
}

// WithContext добавляет контекст для логов
func (e *AppError) WithContext(context string) *AppError {
	e.Context = context
	return e
}

// NewValidationError 400 Bad Request
func NewValidationError(message string, err error) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: err}
}

// NewNotFoundError 404 Not Found
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: err}
}

// NewInternalError 500 Internal Server Error с общим сообщением для клиента
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: InternalMessage,
		Err:     errors.Join(errors.New(message), err),
	}
}

// NewBadGatewayError 502 Bad Gateway, внешний сервис не ответил
func NewBadGatewayError(message string, err error) *AppError {
	return &AppError{Code: http.StatusBadGateway, Message: message, Err: err}
}

// NewServiceUnavailableError 503 Service Unavailable
func NewServiceUnavailableError(message string, err error) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: message, Err: err}
}

// AsAppError приводит ошибку к AppError; прочие ошибки становятся внутренними
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("unhandled error", err)
}
