package sse

// Recorder receives hub and stream events for metrics.
// observability.StreamMetrics implements it.
type Recorder interface {
	Subscribed()
	Unsubscribed()
	Published(subscribers, dropped int)
	FrameWritten()
	SerializationFailed()
	Disconnected(reason string)
}

type nopRecorder struct{}

func (nopRecorder) Subscribed()          {}
func (nopRecorder) Unsubscribed()        {}
func (nopRecorder) Published(int, int)   {}
func (nopRecorder) FrameWritten()        {}
func (nopRecorder) SerializationFailed() {}
func (nopRecorder) Disconnected(string)  {}
