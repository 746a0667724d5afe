package sse

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/kbukum/livescore/logger"
)

// HubOption configures a Hub.
type HubOption func(*hubOptions)

type hubOptions struct {
	bufferSize int
	policy     DropPolicy
	recorder   Recorder
	log        *logger.Logger
}

// WithBufferSize sets the default queue capacity per subscriber.
// Values below 1 are ignored.
func WithBufferSize(n int) HubOption {
	return func(o *hubOptions) {
		if n >= 1 {
			o.bufferSize = n
		}
	}
}

// WithDropPolicy sets the overflow policy applied to every subscriber.
func WithDropPolicy(p DropPolicy) HubOption {
	return func(o *hubOptions) { o.policy = p }
}

// WithRecorder reports hub and stream events to r.
func WithRecorder(r Recorder) HubOption {
	return func(o *hubOptions) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithLogger sets the hub logger.
func WithLogger(l *logger.Logger) HubOption {
	return func(o *hubOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// Delivery reports the outcome of one Publish.
type Delivery struct {
	// Subscribers is the number of queues the value was offered to.
	Subscribers int
	// Dropped is the number of values discarded by the drop policy.
	Dropped int
}

// HubStats are cumulative hub counters.
type HubStats struct {
	Subscribers int    `json:"subscribers"`
	Published   uint64 `json:"published"`
	Dropped     uint64 `json:"dropped"`
}

// Hub fans each published value out to every registered subscriber.
//
// The registry is guarded by mu. Subscribe, Unsubscribe and Close replace
// the immutable snapshot slice; Publish takes the current snapshot under the
// read lock and offers outside it, so it never sees a partial registry and
// never holds the lock while touching a queue.
type Hub[T any] struct {
	mu       sync.RWMutex
	subs     map[string]*Subscription[T]
	snapshot []*Subscription[T]
	closed   bool

	bufferSize int
	policy     DropPolicy
	recorder   Recorder
	log        *logger.Logger

	published atomic.Uint64
	dropped   atomic.Uint64
}

// NewHub creates an empty hub.
func NewHub[T any](opts ...HubOption) *Hub[T] {
	o := hubOptions{bufferSize: DefaultBufferSize, policy: DropOldest, recorder: nopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.WithComponent("sse_hub")
	}
	return &Hub[T]{
		subs:       make(map[string]*Subscription[T]),
		bufferSize: o.bufferSize,
		policy:     o.policy,
		recorder:   o.recorder,
		log:        o.log,
	}
}

// Subscribe registers a new subscriber with a fresh queue. It never fails:
// on a closed hub the returned subscription has already ended with
// ErrHubClosed.
func (h *Hub[T]) Subscribe(opts ...SubscribeOption) *Subscription[T] {
	o := subscribeOptions{capacity: h.bufferSize}
	for _, opt := range opts {
		opt(&o)
	}
	sub := newSubscription[T](uuid.NewString(), o, h.Unsubscribe)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.end(ErrHubClosed)
		return sub
	}
	h.subs[sub.id] = sub
	next := make([]*Subscription[T], len(h.snapshot), len(h.snapshot)+1)
	copy(next, h.snapshot)
	h.snapshot = append(next, sub)
	count := len(h.snapshot)
	h.mu.Unlock()

	h.recorder.Subscribed()
	h.log.Debug("[SSE_HUB] Subscriber registered", logger.Fields(
		logger.FieldSubscriberID, sub.id,
		"capacity", sub.Cap(),
		"total_subscribers", count,
	))
	return sub
}

// Publish offers v to every registered queue without blocking. After Close
// it does nothing.
func (h *Hub[T]) Publish(v T) Delivery {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return Delivery{}
	}
	subs := h.snapshot
	h.mu.RUnlock()

	d := Delivery{Subscribers: len(subs)}
	for _, sub := range subs {
		d.Dropped += sub.offer(v, h.policy)
	}

	h.published.Add(1)
	if d.Dropped > 0 {
		h.dropped.Add(uint64(d.Dropped))
		h.log.Debug("[SSE_HUB] Values dropped for lagging subscribers", logger.Fields(
			"dropped", d.Dropped,
			"policy", h.policy.String(),
		))
	}
	h.recorder.Published(d.Subscribers, d.Dropped)
	return d
}

// Unsubscribe removes a subscriber and ends its subscription with
// ErrUnsubscribed. It reports whether an entry was removed.
func (h *Hub[T]) Unsubscribe(id string) bool {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if !ok {
		h.mu.Unlock()
		return false
	}
	delete(h.subs, id)
	h.snapshot = slices.DeleteFunc(slices.Clone(h.snapshot), func(s *Subscription[T]) bool {
		return s.id == id
	})
	count := len(h.snapshot)
	h.mu.Unlock()

	sub.end(ErrUnsubscribed)
	h.recorder.Unsubscribed()
	h.log.Debug("[SSE_HUB] Subscriber unregistered", logger.Fields(
		logger.FieldSubscriberID, id,
		"dropped", sub.Dropped(),
		"total_subscribers", count,
	))
	return true
}

// Close ends every subscription with ErrHubClosed and empties the registry.
// Later Publish calls are no-ops. Safe to call repeatedly.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := h.snapshot
	h.snapshot = nil
	clear(h.subs)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.end(ErrHubClosed)
		h.recorder.Unsubscribed()
	}
	h.log.Debug("[SSE_HUB] Hub closed", logger.Fields("closed_subscribers", len(subs)))
}

// Closed reports whether Close has been called.
func (h *Hub[T]) Closed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

// Len returns the number of registered subscribers.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.snapshot)
}

// IDs returns subscriber ids in subscription order.
func (h *Hub[T]) IDs() []string {
	h.mu.RLock()
	subs := h.snapshot
	h.mu.RUnlock()

	ids := make([]string, len(subs))
	for i, s := range subs {
		ids[i] = s.id
	}
	return ids
}

// Get returns a registered subscription, or nil.
func (h *Hub[T]) Get(id string) *Subscription[T] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.subs[id]
}

// Stats returns cumulative counters.
func (h *Hub[T]) Stats() HubStats {
	return HubStats{
		Subscribers: h.Len(),
		Published:   h.published.Load(),
		Dropped:     h.dropped.Load(),
	}
}

// Policy returns the hub's drop policy.
func (h *Hub[T]) Policy() DropPolicy { return h.policy }
