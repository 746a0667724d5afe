package sse

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kbukum/livescore/component"
)

// Component owns a Hub for the lifetime of the application. Stopping it
// closes the hub, which ends every open stream with ErrHubClosed.
type Component[T any] struct {
	cfg Config
	hub *Hub[T]
}

var (
	_ component.Component     = (*Component[int])(nil)
	_ component.Describable   = (*Component[int])(nil)
	_ component.RouteProvider = (*Component[int])(nil)
)

// NewComponent creates the hub from cfg. opts are applied after the
// configured buffer size and drop policy.
func NewComponent[T any](cfg Config, opts ...HubOption) *Component[T] {
	cfg.ApplyDefaults()
	hubOpts := append([]HubOption{
		WithBufferSize(cfg.BufferSize),
		WithDropPolicy(cfg.Policy()),
	}, opts...)
	return &Component[T]{cfg: cfg, hub: NewHub[T](hubOpts...)}
}

// Hub returns the shared hub.
func (c *Component[T]) Hub() *Hub[T] { return c.hub }

// Path returns the stream endpoint path.
func (c *Component[T]) Path() string { return c.cfg.Path }

// Handler returns the stream handler configured with the keepalive interval.
func (c *Component[T]) Handler(opts ...StreamOption) http.Handler {
	return NewStream(c.hub, append([]StreamOption{WithKeepAlive(c.cfg.KeepAliveInterval)}, opts...)...)
}

// Name returns the component name.
func (c *Component[T]) Name() string { return "sse" }

// Start is a no-op; the hub accepts subscribers from construction.
func (c *Component[T]) Start(context.Context) error { return nil }

// Stop closes the hub.
func (c *Component[T]) Stop(context.Context) error {
	c.hub.Close()
	return nil
}

// Health reports the subscriber count, or unhealthy once the hub is closed.
func (c *Component[T]) Health(context.Context) component.Health {
	if c.hub.Closed() {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "hub closed"}
	}
	stats := c.hub.Stats()
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d subscribers, %d published, %d dropped", stats.Subscribers, stats.Published, stats.Dropped),
	}
}

// Describe returns the startup summary line.
func (c *Component[T]) Describe() component.Description {
	return component.Description{
		Name:    "SSE Hub",
		Type:    "sse",
		Details: fmt.Sprintf("path=%s buffer=%d policy=%s", c.cfg.Path, c.cfg.BufferSize, c.cfg.Policy()),
	}
}

// Routes reports the stream endpoint.
func (c *Component[T]) Routes() []component.Route {
	return []component.Route{{Method: http.MethodGet, Path: c.cfg.Path, Handler: "sse.Stream"}}
}
