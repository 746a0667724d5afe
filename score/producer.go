package score

import (
	"context"
	"math/rand/v2"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	apperrors "github.com/kbukum/livescore/errors"
	"github.com/kbukum/livescore/logger"
	"github.com/kbukum/livescore/sse"
)

// Publisher receives every new snapshot. *sse.Hub[Snapshot] implements it.
type Publisher interface {
	Publish(v Snapshot) sse.Delivery
}

// ProducerOption configures a Producer.
type ProducerOption func(*Producer)

// WithClock sets the clock driving ticks.
func WithClock(c clockwork.Clock) ProducerOption {
	return func(p *Producer) { p.clock = c }
}

// WithTransition replaces the random scoring rule.
func WithTransition(t Transition) ProducerOption {
	return func(p *Producer) { p.transition = t }
}

// WithInitial sets the starting snapshot.
func WithInitial(s Snapshot) ProducerOption {
	return func(p *Producer) { p.store = NewStore(s) }
}

// WithLogger sets the producer logger.
func WithLogger(l *logger.Logger) ProducerOption {
	return func(p *Producer) { p.log = l }
}

// Producer advances the score on a fixed cadence and publishes it.
type Producer struct {
	interval   time.Duration
	pub        Publisher
	clock      clockwork.Clock
	transition Transition
	store      *Store
	log        *logger.Logger

	ticks atomic.Uint64
}

// NewProducer creates a producer. Without WithTransition it uses
// RandomScoring with cfg.ScoreProbability.
func NewProducer(cfg Config, pub Publisher, opts ...ProducerOption) *Producer {
	cfg.ApplyDefaults()
	p := &Producer{
		interval: cfg.TickInterval,
		pub:      pub,
		clock:    clockwork.NewRealClock(),
		store:    NewStore(Snapshot{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.transition == nil {
		seed := uint64(time.Now().UnixNano())
		p.transition = RandomScoring(rand.New(rand.NewPCG(seed, seed>>1)), cfg.ScoreProbability)
	}
	if p.log == nil {
		p.log = logger.WithComponent("score_producer")
	}
	return p
}

// Ticks returns how many snapshots have been published.
func (p *Producer) Ticks() uint64 { return p.ticks.Load() }

// Run ticks until ctx is cancelled and then returns nil. A panic in the
// transition or the publisher stops the producer and is returned as a
// PRODUCER_PANIC error.
func (p *Producer) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.ProducerPanic(r).WithDetail("stack", string(debug.Stack()))
			p.log.Error("[SCORE] Producer panicked", logger.Fields(
				"panic", r,
				"ticks", p.ticks.Load(),
			))
		}
	}()

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Info("[SCORE] Producer started", logger.Fields("interval", p.interval.String()))
	for {
		select {
		case <-ctx.Done():
			p.log.Info("[SCORE] Producer stopped", logger.Fields("ticks", p.ticks.Load()))
			return nil
		case <-ticker.Chan():
			p.tick()
		}
	}
}

func (p *Producer) tick() {
	next := p.transition(p.store.Load())
	p.store.Save(next)
	d := p.pub.Publish(next)
	p.ticks.Add(1)

	p.log.Debug("[SCORE] Published", logger.Fields(
		"score", next.String(),
		"subscribers", d.Subscribers,
		"dropped", d.Dropped,
	))
}
