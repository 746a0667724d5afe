package bootstrap

import (
	"github.com/kbukum/livescore/config"
)

// Config is the constraint for application configuration types.
// Any struct embedding config.ServiceConfig satisfies it via promoted methods.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
