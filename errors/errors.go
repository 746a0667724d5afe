package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code, so wrapped
// copies of a sentinel still match it under errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithCause returns a copy of the error carrying cause. The receiver is not
// modified, so sentinels can be wrapped safely.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetail returns a copy of the error with one more detail key.
func (e *AppError) WithDetail(key string, value any) *AppError {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// ServiceUnavailable creates an error for a service that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Validation creates an error for invalid input or configuration.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotFound creates an error for a route or resource that does not exist.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"resource": resource},
	}
}

// MethodNotAllowed creates an error for a known route called with the wrong method.
func MethodNotAllowed(method, path string) *AppError {
	return &AppError{
		Code: ErrCodeMethodNotAllowed, Message: fmt.Sprintf("%s is not allowed on %s.", method, path),
		HTTPStatus: http.StatusMethodNotAllowed,
		Details:    map[string]any{"method": method, "path": path},
	}
}

// SerializationFailure creates an error for a value that could not be encoded.
func SerializationFailure(cause error) *AppError {
	return &AppError{
		Code: ErrCodeSerializationFailure, Message: "The value could not be serialized.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// ClientDisconnected creates an error for a failed write to a client connection.
func ClientDisconnected(cause error) *AppError {
	return &AppError{
		Code: ErrCodeClientDisconnected, Message: "The client connection was lost.",
		HTTPStatus: 499, Cause: cause,
	}
}

// StreamUnsupported creates an error for a response writer that cannot flush.
func StreamUnsupported() *AppError {
	return &AppError{
		Code: ErrCodeStreamUnsupported, Message: "Streaming is not supported by this connection.",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// BindFailed creates an error for a listen address that could not be bound.
func BindFailed(addr string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeBindFailed, Message: fmt.Sprintf("Unable to bind %s.", addr),
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
		Details: map[string]any{"addr": addr},
	}
}

// ProducerPanic creates an error for a recovered panic in the state producer.
func ProducerPanic(recovered any) *AppError {
	return &AppError{
		Code: ErrCodeProducerPanic, Message: fmt.Sprintf("The producer panicked: %v", recovered),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"panic": fmt.Sprint(recovered)},
	}
}

// Internal creates an error for an unexpected internal failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
