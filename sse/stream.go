package sse

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/kbukum/livescore/errors"
	"github.com/kbukum/livescore/logger"
	"github.com/kbukum/livescore/observability"
)

// Metadata keys attached to stream subscriptions.
const (
	MetaRemoteAddr = "remote_addr"
	MetaRequestID  = "request_id"
)

// StreamOption configures a Stream.
type StreamOption func(*streamOptions)

type streamOptions struct {
	keepAlive time.Duration
	clock     clockwork.Clock
}

// WithKeepAlive sets the interval between keepalive comments. Zero or
// negative disables them.
func WithKeepAlive(d time.Duration) StreamOption {
	return func(o *streamOptions) { o.keepAlive = d }
}

// WithClock sets the clock driving keepalives.
func WithClock(c clockwork.Clock) StreamOption {
	return func(o *streamOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// Stream serves a hub's values as an event stream, one subscription per
// request. It is an http.Handler.
type Stream[T any] struct {
	hub       *Hub[T]
	keepAlive time.Duration
	clock     clockwork.Clock
	enc       Encoder
}

// NewStream creates a stream handler for hub.
func NewStream[T any](hub *Hub[T], opts ...StreamOption) *Stream[T] {
	o := streamOptions{keepAlive: DefaultKeepAliveInterval, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Stream[T]{hub: hub, keepAlive: o.keepAlive, clock: o.clock}
}

// Handler returns an http.Handler streaming hub's values.
func Handler[T any](hub *Hub[T], opts ...StreamOption) http.Handler {
	return NewStream(hub, opts...)
}

// ServeHTTP subscribes for the lifetime of the request.
func (s *Stream[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts := []SubscribeOption{WithMetadata(MetaRemoteAddr, r.RemoteAddr)}
	if id := logger.RequestIDFromContext(ctx); id != "" {
		opts = append(opts, WithMetadata(MetaRequestID, id))
	}

	err := s.Serve(ctx, w, opts...)
	s.hub.log.WithContext(ctx).Debug("[SSE] Stream ended", logger.Fields(
		logger.FieldRemoteAddr, r.RemoteAddr,
		logger.FieldReason, reasonOf(err),
	))
}

// Serve subscribes to the hub and writes frames to w until the client goes
// away, ctx is cancelled or the subscription ends. The subscription is
// released on every path. The returned error classifies the end:
// ErrClientDisconnected, ErrHubClosed, ErrUnsubscribed, a context error, or
// a STREAM_UNSUPPORTED error when w cannot flush.
func (s *Stream[T]) Serve(ctx context.Context, w http.ResponseWriter, opts ...SubscribeOption) (err error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		unsupported := apperrors.StreamUnsupported()
		writeJSONError(w, unsupported)
		s.hub.log.Error("[SSE] Streaming not supported by response writer")
		return unsupported
	}

	sub := s.hub.Subscribe(opts...)
	defer sub.Cancel()

	if subErr := sub.Err(); subErr != nil {
		writeJSONError(w, ErrHubClosed)
		return subErr
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanStreamSession)
	span.SetAttributes(
		attribute.String(observability.AttrSubscriberID, sub.ID()),
		attribute.String(observability.AttrRemoteAddr, sub.metadata[MetaRemoteAddr]),
		attribute.String(observability.AttrRequestID, sub.metadata[MetaRequestID]),
	)

	log := s.hub.log.WithFields(logger.Fields(logger.FieldSubscriberID, sub.ID()))
	frames := 0
	defer func() {
		reason := reasonOf(err)
		s.hub.recorder.Disconnected(reason)
		span.SetAttributes(
			attribute.String(observability.AttrReason, reason),
			attribute.Int(observability.AttrFrames, frames),
			attribute.Int64(observability.AttrDropped, int64(sub.Dropped())),
		)
		if apperrors.HasCode(err, apperrors.ErrCodeClientDisconnected) {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rc := http.NewResponseController(w)
	if derr := rc.SetWriteDeadline(time.Time{}); derr != nil && !stderrors.Is(derr, http.ErrNotSupported) {
		log.Warn("[SSE] Could not disable write deadline", logger.Fields(logger.FieldError, derr.Error()))
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := s.enc.WriteComment(w, "connected "+sub.ID()); err != nil {
		return ErrClientDisconnected.WithCause(err)
	}
	flusher.Flush()
	log.Debug("[SSE] Client connected", logger.Fields(logger.FieldRemoteAddr, sub.metadata[MetaRemoteAddr]))

	var tick <-chan time.Time
	if s.keepAlive > 0 {
		ticker := s.clock.NewTicker(s.keepAlive)
		defer ticker.Stop()
		tick = ticker.Chan()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-sub.Done():
			return sub.Err()

		case v := <-sub.C():
			if werr := s.enc.WriteValue(w, v); werr != nil {
				if apperrors.HasCode(werr, apperrors.ErrCodeClientDisconnected) {
					return ErrClientDisconnected.WithCause(werr)
				}
				s.hub.recorder.SerializationFailed()
				log.Warn("[SSE] Value could not be serialized, sent empty frame", logger.Fields(logger.FieldError, werr.Error()))
			}
			flusher.Flush()
			frames++
			s.hub.recorder.FrameWritten()

		case now := <-tick:
			if werr := s.enc.WriteComment(w, "keepalive "+strconv.FormatInt(now.Unix(), 10)); werr != nil {
				return ErrClientDisconnected.WithCause(werr)
			}
			flusher.Flush()
		}
	}
}

func writeJSONError(w http.ResponseWriter, e *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus)
	_ = json.NewEncoder(w).Encode(e.ToResponse())
}

// reasonOf maps a stream end error to a short label for logs and metrics.
func reasonOf(err error) string {
	switch {
	case err == nil:
		return "completed"
	case stderrors.Is(err, ErrClientDisconnected):
		return "client_disconnected"
	case stderrors.Is(err, ErrHubClosed):
		return "hub_closed"
	case stderrors.Is(err, ErrUnsubscribed):
		return "unsubscribed"
	case stderrors.Is(err, context.Canceled):
		return "context_canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return "deadline_exceeded"
	case apperrors.HasCode(err, apperrors.ErrCodeStreamUnsupported):
		return "stream_unsupported"
	default:
		return "error"
	}
}
