// Package observability wires OpenTelemetry into the service.
//
// Providers are created by the telemetry Component when enabled in config and
// installed globally, so instruments obtained through Meter and Tracer
// before that point are upgraded once the providers exist.
//
//	metrics, err := observability.NewStreamMetrics(observability.Meter("livescore/sse"))
//	hub := sse.NewHub[score.Snapshot](sse.WithRecorder(metrics))
//
// StreamMetrics records subscriber counts, published values, drops, frames,
// serialization failures and disconnects. StartSpan opens the per-session
// span used by the stream handler.
package observability
