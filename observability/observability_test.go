package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/livescore/component"
	apperrors "github.com/kbukum/livescore/errors"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestStreamMetricsRecords(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewStreamMetrics(mp.Meter("test"))
	require.NoError(t, err)

	m.Subscribed()
	m.Subscribed()
	m.Subscribed()
	m.Unsubscribed()
	m.Published(2, 1)
	m.Published(2, 0)
	m.Published(0, 0)
	m.FrameWritten()
	m.FrameWritten()
	m.SerializationFailed()
	m.Disconnected("client_disconnected")
	m.Disconnected("hub_closed")

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, got[MetricSubscribers]))
	assert.Equal(t, int64(3), sumOf(t, got[MetricPublished]))
	assert.Equal(t, int64(4), sumOf(t, got[MetricDeliveries]))
	assert.Equal(t, int64(1), sumOf(t, got[MetricDropped]))
	assert.Equal(t, int64(2), sumOf(t, got[MetricFrames]))
	assert.Equal(t, int64(1), sumOf(t, got[MetricSerializationFailures]))

	disconnects, ok := got[MetricDisconnects].(metricdata.Sum[int64])
	require.True(t, ok)
	reasons := map[string]int64{}
	for _, dp := range disconnects.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("reason"))
		reasons[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"client_disconnected": 1, "hub_closed": 1}, reasons)
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, "localhost:4318", cfg.Endpoint)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.Equal(t, 15*time.Second, cfg.MetricInterval)
	require.NoError(t, cfg.Validate())

	cfg.SampleRate = 1.5
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
	assert.Contains(t, err.Error(), "sample_rate")

	cfg.SampleRate = 0.5
	cfg.Endpoint = "not a host"
	assert.Error(t, cfg.Validate())
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOn")
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOff")
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestStartSpanUsesGlobalProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()
	otel.SetTracerProvider(tp)

	_, span := StartSpan(context.Background(), SpanStreamSession)
	span.SetAttributes(attribute.String(AttrSubscriberID, "abc"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanStreamSession, spans[0].Name)
}

func TestInitTracerInstallsProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	tp, err := InitTracer(context.Background(), TracerConfig{
		ServiceName: "livescore",
		Endpoint:    "localhost:4318",
		Insecure:    true,
		SampleRate:  1,
	})
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	assert.Same(t, tp, otel.GetTracerProvider())
}

func TestComponentDisabled(t *testing.T) {
	c := NewComponent(Config{Endpoint: "localhost:4318"}, "livescore", "1.0.0", "test")
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	assert.Nil(t, c.tp)
	assert.Nil(t, c.mp)

	h := c.Health(ctx)
	assert.Equal(t, component.StatusHealthy, h.Status)
	assert.Equal(t, "disabled", h.Message)
	assert.Equal(t, "telemetry", c.Describe().Type)

	require.NoError(t, c.Stop(ctx))
}
