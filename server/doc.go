// Package server provides the HTTP server: a Gin engine for operational
// endpoints mounted on a root ServeMux that also carries the event stream,
// served with h2c so HTTP/2 clients can hold many streams on one connection.
//
// Middleware (server/middleware) wraps the whole mux:
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id generation and propagation into the logger context
//   - RequestLogger: method, path, status and duration per request
//   - CORS: origin echo, credentials, preflight answered before routing
//
// Endpoints (server/endpoint): /health, /alive, /ready, /info, /version.
package server
