package score

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kbukum/livescore/errors"
	"github.com/kbukum/livescore/logger"
	"github.com/kbukum/livescore/sse"
)

type recordingPublisher struct {
	mu     sync.Mutex
	values []Snapshot
}

func (r *recordingPublisher) Publish(v Snapshot) sse.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
	return sse.Delivery{}
}

func (r *recordingPublisher) snapshot() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.values...)
}

func team1Goal(prev Snapshot) Snapshot {
	prev.Score.Team1++
	return prev
}

type harness struct {
	clock  *clockwork.FakeClock
	cancel context.CancelFunc
	done   chan error
}

func startProducer(t *testing.T, pub Publisher, opts ...ProducerOption) (*Producer, *harness) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	opts = append([]ProducerOption{WithClock(clock), WithLogger(logger.Nop())}, opts...)
	p := NewProducer(Config{TickInterval: time.Second}, pub, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{clock: clock, cancel: cancel, done: make(chan error, 1)}
	go func() { h.done <- p.Run(ctx) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	t.Cleanup(cancel)
	return p, h
}

// tick advances one interval and waits until the producer has handled it.
func (h *harness) tick(t *testing.T, p *Producer) {
	t.Helper()
	want := p.Ticks() + 1
	h.clock.Advance(time.Second)
	require.Eventually(t, func() bool { return p.Ticks() == want }, 5*time.Second, time.Millisecond)
}

func TestProducerPublishesEveryTick(t *testing.T) {
	pub := &recordingPublisher{}
	p, h := startProducer(t, pub, WithTransition(team1Goal))

	for i := 0; i < 3; i++ {
		h.tick(t, p)
	}

	assert.Equal(t, []Snapshot{
		{Score{1, 0}},
		{Score{2, 0}},
		{Score{3, 0}},
	}, pub.snapshot())

	h.cancel()
	assert.NoError(t, <-h.done)
}

func TestProducerStartsFromInitial(t *testing.T) {
	pub := &recordingPublisher{}
	p, h := startProducer(t, pub, WithTransition(team1Goal), WithInitial(Snapshot{Score{4, 2}}))
	h.tick(t, p)

	assert.Equal(t, []Snapshot{{Score{5, 2}}}, pub.snapshot())
}

func TestProducerAdvancesWithoutSubscribers(t *testing.T) {
	hub := sse.NewHub[Snapshot](sse.WithLogger(logger.Nop()))
	p, h := startProducer(t, hub, WithTransition(team1Goal))

	h.tick(t, p)
	h.tick(t, p)
	assert.Equal(t, uint64(2), hub.Stats().Published)

	sub := hub.Subscribe()
	h.tick(t, p)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := sub.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Score{3, 0}}, got)
}

func TestProducerPanicIsReturned(t *testing.T) {
	pub := &recordingPublisher{}
	_, h := startProducer(t, pub, WithTransition(func(Snapshot) Snapshot { panic("bad rule") }))

	h.clock.Advance(time.Second)

	select {
	case err := <-h.done:
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeProducerPanic))
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "bad rule", appErr.Details["panic"])
		assert.NotEmpty(t, appErr.Details["stack"])
	case <-time.After(5 * time.Second):
		t.Fatal("producer did not return after panic")
	}
	assert.Empty(t, pub.snapshot())
}

func TestComponentReportsFatalError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewProducer(Config{TickInterval: time.Second}, &recordingPublisher{},
		WithClock(clock),
		WithLogger(logger.Nop()),
		WithTransition(func(Snapshot) Snapshot { panic("boom") }),
	)

	fatal := make(chan error, 1)
	c := NewComponent(p, func(err error) { fatal <- err })
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	assert.Error(t, c.Start(ctx), "double start")

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	clock.Advance(time.Second)

	select {
	case err := <-fatal:
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeProducerPanic))
	case <-time.After(5 * time.Second):
		t.Fatal("fatal handler not called")
	}

	assert.Eventually(t, func() bool {
		return c.Health(ctx).Status == "unhealthy"
	}, 5*time.Second, time.Millisecond)
	assert.NoError(t, c.Stop(ctx))
}

func TestComponentStopEndsProducer(t *testing.T) {
	p := NewProducer(Config{}, &recordingPublisher{}, WithClock(clockwork.NewFakeClock()), WithLogger(logger.Nop()))
	c := NewComponent(p, func(err error) { t.Errorf("unexpected fatal error: %v", err) })
	ctx := context.Background()

	assert.NoError(t, c.Stop(ctx), "stop before start is a no-op")
	require.NoError(t, c.Start(ctx))
	assert.Equal(t, "healthy", string(c.Health(ctx).Status))
	assert.Equal(t, "tick=500ms", c.Describe().Details)

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	assert.NoError(t, c.Stop(stopCtx))
}
