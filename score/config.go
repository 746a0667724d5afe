package score

import (
	"time"

	"github.com/kbukum/livescore/validation"
)

// DefaultTickInterval is the update cadence.
const DefaultTickInterval = 500 * time.Millisecond

// Config holds the producer settings.
type Config struct {
	TickInterval     time.Duration `yaml:"tick_interval" mapstructure:"tick_interval" validate:"gt=0"`
	ScoreProbability float64       `yaml:"score_probability" mapstructure:"score_probability" validate:"gte=0,lte=1"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.ScoreProbability == 0 {
		c.ScoreProbability = DefaultScoreProbability
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
