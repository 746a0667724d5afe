package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kbukum/livescore/errors"
	"github.com/kbukum/livescore/logger"
)

type streamClient struct {
	resp   *http.Response
	reader *bufio.Reader
	cancel context.CancelFunc
}

func connect(t *testing.T, url string) *streamClient {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		_ = resp.Body.Close()
	})
	return &streamClient{resp: resp, reader: bufio.NewReader(resp.Body), cancel: cancel}
}

// frame reads one frame without its trailing blank line.
func (c *streamClient) frame(t *testing.T) string {
	t.Helper()
	var lines []string
	for {
		line, err := c.reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSuffix(line, "\n")
		if line == "" {
			return strings.Join(lines, "\n")
		}
		lines = append(lines, line)
	}
}

// subscriberID reads the connection notice and returns the id it carries.
func (c *streamClient) subscriberID(t *testing.T) string {
	t.Helper()
	f := c.frame(t)
	require.True(t, strings.HasPrefix(f, ": connected "), "unexpected first frame %q", f)
	return strings.TrimPrefix(f, ": connected ")
}

func TestStreamHeadersAndFrames(t *testing.T) {
	hub := newTestHub[snapshot]()
	srv := httptest.NewServer(NewStream(hub, WithKeepAlive(-1)))
	defer srv.Close()

	c := connect(t, srv.URL)
	assert.Equal(t, http.StatusOK, c.resp.StatusCode)
	assert.Equal(t, "text/event-stream", c.resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", c.resp.Header.Get("Cache-Control"))
	assert.Equal(t, "no", c.resp.Header.Get("X-Accel-Buffering"))

	id := c.subscriberID(t)
	require.NotNil(t, hub.Get(id))

	hub.Publish(snapshot{teamScore{1, 0}})
	hub.Publish(snapshot{teamScore{1, 1}})

	assert.Equal(t, `data: {"score":{"team1":1,"team2":0}}`, c.frame(t))
	assert.Equal(t, `data: {"score":{"team1":1,"team2":1}}`, c.frame(t))
}

func TestStreamReleasesSubscriptionOnDisconnect(t *testing.T) {
	rec := &countingRecorder{}
	hub := newTestHub[int](WithRecorder(rec))
	srv := httptest.NewServer(NewStream(hub, WithKeepAlive(-1)))
	defer srv.Close()

	c := connect(t, srv.URL)
	c.subscriberID(t)
	require.Equal(t, 1, hub.Len())

	c.cancel()

	assert.Eventually(t, func() bool { return hub.Len() == 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return rec.disconnects.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Zero(t, hub.Publish(1).Subscribers)
}

func TestStreamEndsWhenHubCloses(t *testing.T) {
	hub := newTestHub[int]()
	srv := httptest.NewServer(NewStream(hub, WithKeepAlive(-1)))
	defer srv.Close()

	c := connect(t, srv.URL)
	c.subscriberID(t)

	hub.Close()

	_, err := io.ReadAll(c.reader)
	assert.NoError(t, err, "server should end the response cleanly")
	assert.Zero(t, hub.Len())
}

func TestStreamSerializationFailureKeepsStreaming(t *testing.T) {
	rec := &countingRecorder{}
	hub := newTestHub[any](WithRecorder(rec))
	srv := httptest.NewServer(NewStream(hub, WithKeepAlive(-1)))
	defer srv.Close()

	c := connect(t, srv.URL)
	c.subscriberID(t)

	hub.Publish(unmarshalable{})
	hub.Publish(map[string]int{"n": 1})

	assert.Equal(t, "data: {}", c.frame(t))
	assert.Equal(t, `data: {"n":1}`, c.frame(t))
	assert.Equal(t, int64(1), rec.serialization.Load())
	assert.Eventually(t, func() bool { return rec.frames.Load() == 2 }, 5*time.Second, 10*time.Millisecond)
}

func TestStreamKeepAlive(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub := newTestHub[int]()
	srv := httptest.NewServer(NewStream(hub, WithClock(clock), WithKeepAlive(10*time.Second)))
	defer srv.Close()

	c := connect(t, srv.URL)
	c.subscriberID(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(10 * time.Second)

	assert.True(t, strings.HasPrefix(c.frame(t), ": keepalive "))
}

func TestStreamRecordsRequestMetadata(t *testing.T) {
	hub := newTestHub[int]()
	stream := NewStream(hub, WithKeepAlive(-1))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stream.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), "req-42")))
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	c := connect(t, srv.URL)
	id := c.subscriberID(t)

	sub := hub.Get(id)
	require.NotNil(t, sub)
	assert.Equal(t, "req-42", sub.Metadata()[MetaRequestID])
	assert.NotEmpty(t, sub.Metadata()[MetaRemoteAddr])
}

type plainWriter struct {
	header http.Header
	status int
	body   strings.Builder
}

func (w *plainWriter) Header() http.Header         { return w.header }
func (w *plainWriter) Write(b []byte) (int, error) { return w.body.Write(b) }
func (w *plainWriter) WriteHeader(status int)      { w.status = status }

func TestServeRejectsNonFlushingWriter(t *testing.T) {
	hub := newTestHub[int]()
	w := &plainWriter{header: http.Header{}}

	err := NewStream(hub).Serve(context.Background(), w)

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStreamUnsupported))
	assert.Equal(t, http.StatusInternalServerError, w.status)
	assert.Zero(t, hub.Len())

	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(w.body.String()), &body))
	assert.Equal(t, apperrors.ErrCodeStreamUnsupported, body.Error.Code)
}

func TestServeOnClosedHub(t *testing.T) {
	hub := newTestHub[int]()
	hub.Close()
	rr := httptest.NewRecorder()

	err := NewStream(hub).Serve(context.Background(), rr)

	assert.ErrorIs(t, err, ErrHubClosed)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestServeReturnsContextError(t *testing.T) {
	hub := newTestHub[int]()
	ctx, cancel := context.WithCancel(context.Background())
	rr := httptest.NewRecorder()

	done := make(chan error, 1)
	go func() { done <- NewStream(hub, WithKeepAlive(-1)).Serve(ctx, rr) }()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
	assert.Zero(t, hub.Len())
}

func TestReasonOf(t *testing.T) {
	assert.Equal(t, "client_disconnected", reasonOf(ErrClientDisconnected.WithCause(errors.New("reset"))))
	assert.Equal(t, "hub_closed", reasonOf(ErrHubClosed))
	assert.Equal(t, "unsubscribed", reasonOf(ErrUnsubscribed))
	assert.Equal(t, "context_canceled", reasonOf(context.Canceled))
	assert.Equal(t, "stream_unsupported", reasonOf(apperrors.StreamUnsupported()))
	assert.Equal(t, "completed", reasonOf(nil))
}
