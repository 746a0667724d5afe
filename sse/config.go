package sse

import (
	"time"

	"github.com/kbukum/livescore/validation"
)

// Default settings.
const (
	DefaultPath              = "/events"
	DefaultBufferSize        = 16
	DefaultKeepAliveInterval = 30 * time.Second
)

// Config holds the stream endpoint and hub settings.
type Config struct {
	Path       string `yaml:"path" mapstructure:"path" validate:"required,startswith=/"`
	BufferSize int    `yaml:"buffer_size" mapstructure:"buffer_size" validate:"gte=1"`
	DropPolicy string `yaml:"drop_policy" mapstructure:"drop_policy" validate:"oneof=drop_oldest drop_newest"`
	// KeepAliveInterval between comment frames. Negative disables keepalives.
	KeepAliveInterval time.Duration `yaml:"keepalive_interval" mapstructure:"keepalive_interval"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.BufferSize == 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.DropPolicy == "" {
		c.DropPolicy = DropOldest.String()
	}
	if c.KeepAliveInterval == 0 {
		c.KeepAliveInterval = DefaultKeepAliveInterval
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Policy returns the parsed drop policy, DropOldest when unrecognized.
func (c *Config) Policy() DropPolicy {
	p, _ := ParseDropPolicy(c.DropPolicy)
	return p
}
