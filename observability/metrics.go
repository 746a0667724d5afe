package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricSubscribers           = "livescore.sse.subscribers"
	MetricPublished             = "livescore.sse.published"
	MetricDeliveries            = "livescore.sse.deliveries"
	MetricDropped               = "livescore.sse.dropped"
	MetricFrames                = "livescore.sse.frames"
	MetricSerializationFailures = "livescore.sse.serialization_failures"
	MetricDisconnects           = "livescore.sse.disconnects"
)

// StreamMetrics holds the instruments for the broadcast hub and the stream
// transport. It satisfies sse.Recorder.
type StreamMetrics struct {
	subscribers  metric.Int64UpDownCounter
	published    metric.Int64Counter
	deliveries   metric.Int64Counter
	dropped      metric.Int64Counter
	frames       metric.Int64Counter
	serializeErr metric.Int64Counter
	disconnects  metric.Int64Counter
}

// NewStreamMetrics creates the stream instruments on meter.
func NewStreamMetrics(meter metric.Meter) (*StreamMetrics, error) {
	var (
		m   StreamMetrics
		err error
	)

	if m.subscribers, err = meter.Int64UpDownCounter(MetricSubscribers,
		metric.WithDescription("Number of connected stream subscribers"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricSubscribers, err)
	}
	if m.published, err = meter.Int64Counter(MetricPublished,
		metric.WithDescription("Values published to the hub"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricPublished, err)
	}
	if m.deliveries, err = meter.Int64Counter(MetricDeliveries,
		metric.WithDescription("Values offered to subscriber queues"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricDeliveries, err)
	}
	if m.dropped, err = meter.Int64Counter(MetricDropped,
		metric.WithDescription("Values discarded by the overflow policy"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricDropped, err)
	}
	if m.frames, err = meter.Int64Counter(MetricFrames,
		metric.WithDescription("Data frames written to clients"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricFrames, err)
	}
	if m.serializeErr, err = meter.Int64Counter(MetricSerializationFailures,
		metric.WithDescription("Values that could not be serialized"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricSerializationFailures, err)
	}
	if m.disconnects, err = meter.Int64Counter(MetricDisconnects,
		metric.WithDescription("Ended stream sessions by reason"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricDisconnects, err)
	}
	return &m, nil
}

// Subscribed records a new subscriber.
func (m *StreamMetrics) Subscribed() {
	m.subscribers.Add(context.Background(), 1)
}

// Unsubscribed records a removed subscriber.
func (m *StreamMetrics) Unsubscribed() {
	m.subscribers.Add(context.Background(), -1)
}

// Published records one published value offered to n subscribers, of which
// dropped values were discarded.
func (m *StreamMetrics) Published(subscribers, dropped int) {
	ctx := context.Background()
	m.published.Add(ctx, 1)
	if subscribers > 0 {
		m.deliveries.Add(ctx, int64(subscribers))
	}
	if dropped > 0 {
		m.dropped.Add(ctx, int64(dropped))
	}
}

// FrameWritten records a data frame written to a client.
func (m *StreamMetrics) FrameWritten() {
	m.frames.Add(context.Background(), 1)
}

// SerializationFailed records a value replaced by the empty placeholder.
func (m *StreamMetrics) SerializationFailed() {
	m.serializeErr.Add(context.Background(), 1)
}

// Disconnected records a stream session ending for reason.
func (m *StreamMetrics) Disconnected(reason string) {
	m.disconnects.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
}
