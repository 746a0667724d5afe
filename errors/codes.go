package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeMethodNotAllowed indicates the route exists but not for this method.
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
)

// Streaming errors
const (
	// ErrCodeSerializationFailure indicates a value could not be rendered to the wire format.
	ErrCodeSerializationFailure ErrorCode = "SERIALIZATION_FAILURE"
	// ErrCodeClientDisconnected indicates a write to the client connection failed.
	ErrCodeClientDisconnected ErrorCode = "CLIENT_DISCONNECTED"
	// ErrCodeStreamUnsupported indicates the response writer cannot stream.
	ErrCodeStreamUnsupported ErrorCode = "STREAM_UNSUPPORTED"
	// ErrCodeHubClosed indicates the broadcast hub shut down.
	ErrCodeHubClosed ErrorCode = "HUB_CLOSED"
	// ErrCodeUnsubscribed indicates the subscription was released by its owner.
	ErrCodeUnsubscribed ErrorCode = "UNSUBSCRIBED"
)

// Fatal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeBindFailed indicates the server could not bind its listen address.
	ErrCodeBindFailed ErrorCode = "BIND_FAILED"
	// ErrCodeProducerPanic indicates the state producer panicked.
	ErrCodeProducerPanic ErrorCode = "PRODUCER_PANIC"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
