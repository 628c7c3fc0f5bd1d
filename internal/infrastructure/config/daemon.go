package config

import "time"

// DaemonConfig covers process management for the background daemon.
type DaemonConfig struct {
	// PIDFile guards against a second daemon instance.
	PIDFile string `mapstructure:"pid_file"`

	// ShutdownTimeout bounds the graceful drain on SIGTERM.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
