package main

import (
	"fmt"

	"github.com/kbukum/livescore/config"
	"github.com/kbukum/livescore/observability"
	"github.com/kbukum/livescore/score"
	"github.com/kbukum/livescore/server"
	"github.com/kbukum/livescore/sse"
)

// AppConfig is the livescore service configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	SSE           sse.Config           `yaml:"sse" mapstructure:"sse"`
	Score         score.Config         `yaml:"score" mapstructure:"score"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.SSE.ApplyDefaults()
	c.Score.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section and names the one that failed.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	sections := []struct {
		name string
		v    interface{ Validate() error }
	}{
		{"server", &c.Server},
		{"sse", &c.SSE},
		{"score", &c.Score},
		{"observability", &c.Observability},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("config.%s: %w", s.name, err)
		}
	}
	return nil
}
