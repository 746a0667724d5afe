// Package logger provides structured logging for livescore using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.WithComponent("sse")
//	log.Info("client connected", logger.Fields("subscriber_id", id))
package logger
