// Package errors provides the livescore error taxonomy.
// It implements a structured AppError carrying a machine-readable code,
// the recommended HTTP status and retryable detection, with RFC 7807 style
// JSON responses.
package errors
