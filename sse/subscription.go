package sse

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// SubscribeOption configures a Subscription.
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	capacity int
	metadata map[string]string
}

// WithCapacity overrides the hub's queue capacity for one subscriber.
// Values below 1 are ignored.
func WithCapacity(n int) SubscribeOption {
	return func(o *subscribeOptions) {
		if n >= 1 {
			o.capacity = n
		}
	}
}

// WithMetadata attaches a key-value pair, such as the remote address, used
// in logs.
func WithMetadata(key, value string) SubscribeOption {
	return func(o *subscribeOptions) {
		if o.metadata == nil {
			o.metadata = make(map[string]string)
		}
		o.metadata[key] = value
	}
}

// Subscription is one subscriber's bounded view of the published stream.
// Values arrive on C in publish order. The queue is never closed; Done is
// closed when the subscription ends and Err reports why.
type Subscription[T any] struct {
	id        string
	queue     chan T
	done      chan struct{}
	metadata  map[string]string
	createdAt time.Time
	release   func(id string) bool

	// offerMu serializes publishers on this queue so eviction and insert
	// happen as one step.
	offerMu sync.Mutex
	dropped atomic.Uint64

	endOnce sync.Once
	errMu   sync.Mutex
	err     error
}

func newSubscription[T any](id string, o subscribeOptions, release func(string) bool) *Subscription[T] {
	return &Subscription[T]{
		id:        id,
		queue:     make(chan T, o.capacity),
		done:      make(chan struct{}),
		metadata:  o.metadata,
		createdAt: time.Now(),
		release:   release,
	}
}

// ID returns the subscriber id.
func (s *Subscription[T]) ID() string { return s.id }

// C returns the delivery queue.
func (s *Subscription[T]) C() <-chan T { return s.queue }

// Done is closed when the subscription has ended.
func (s *Subscription[T]) Done() <-chan struct{} { return s.done }

// Err returns nil while the subscription is live, then ErrUnsubscribed or
// ErrHubClosed.
func (s *Subscription[T]) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// Cap returns the queue capacity.
func (s *Subscription[T]) Cap() int { return cap(s.queue) }

// Dropped returns how many values this subscriber lost to the drop policy.
func (s *Subscription[T]) Dropped() uint64 { return s.dropped.Load() }

// Metadata returns a copy of the attached metadata.
func (s *Subscription[T]) Metadata() map[string]string { return maps.Clone(s.metadata) }

// Age returns how long the subscription has existed.
func (s *Subscription[T]) Age() time.Duration { return time.Since(s.createdAt) }

// Cancel removes the subscription from its hub. Safe to call repeatedly
// and after the hub has closed.
func (s *Subscription[T]) Cancel() {
	if s.release != nil {
		s.release(s.id)
	}
}

// Next returns the next queued value. It fails with the subscription's end
// reason once it has ended, even if values remain queued, or with ctx.Err().
func (s *Subscription[T]) Next(ctx context.Context) (T, error) {
	var zero T
	select {
	case <-s.done:
		return zero, s.Err()
	default:
	}

	select {
	case <-s.done:
		return zero, s.Err()
	case <-ctx.Done():
		return zero, ctx.Err()
	case v := <-s.queue:
		return v, nil
	}
}

// end marks the subscription finished; only the first reason is kept.
func (s *Subscription[T]) end(reason error) {
	s.endOnce.Do(func() {
		s.errMu.Lock()
		s.err = reason
		s.errMu.Unlock()
		close(s.done)
	})
}

// offer enqueues v without blocking and returns how many values were
// discarded (0 or 1).
func (s *Subscription[T]) offer(v T, policy DropPolicy) int {
	s.offerMu.Lock()
	defer s.offerMu.Unlock()

	select {
	case <-s.done:
		return 0
	default:
	}

	select {
	case s.queue <- v:
		return 0
	default:
	}

	if policy == DropNewest {
		s.dropped.Add(1)
		return 1
	}

	// The consumer may drain concurrently, so eviction can find nothing.
	evicted := 0
	select {
	case <-s.queue:
		evicted = 1
	default:
	}
	select {
	case s.queue <- v:
	default:
		// Unreachable while offerMu is held; count v as lost.
		evicted = 1
	}
	if evicted > 0 {
		s.dropped.Add(1)
	}
	return evicted
}
