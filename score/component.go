package score

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/livescore/component"
)

// FatalHandler receives an error that must terminate the process.
type FatalHandler func(error)

// Component runs a Producer in the background for the application lifetime.
type Component struct {
	producer *Producer
	interval string
	onFatal  FatalHandler

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent wraps p. onFatal is called if the producer fails.
func NewComponent(p *Producer, onFatal FatalHandler) *Component {
	return &Component{producer: p, interval: p.interval.String(), onFatal: onFatal}
}

// Name returns the component name.
func (c *Component) Name() string { return "score" }

// Start launches the producer goroutine. Its lifetime is independent of ctx.
func (c *Component) Start(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return fmt.Errorf("score producer already started")
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		if err := c.producer.Run(runCtx); err != nil {
			c.mu.Lock()
			c.err = err
			c.mu.Unlock()
			if c.onFatal != nil {
				c.onFatal(err)
			}
		}
	}(c.done)
	return nil
}

// Stop cancels the producer and waits for it to return.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if cancel == nil {
		return nil
	}

	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Health reports unhealthy once the producer has failed.
func (c *Component) Health(context.Context) component.Health {
	c.mu.Lock()
	err := c.err
	c.mu.Unlock()
	if err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d ticks", c.producer.Ticks()),
	}
}

// Describe returns the startup summary line.
func (c *Component) Describe() component.Description {
	return component.Description{Name: "Score Producer", Type: "producer", Details: "tick=" + c.interval}
}
