package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Remote RemoteConfig `mapstructure:"remote" validate:"required"`
	Poll   PollConfig   `mapstructure:"poll"   validate:"required"`
}

// ServerConfig contains the control API settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// RemoteConfig describes the task server being tracked.
type RemoteConfig struct {
	BaseURL        string        `mapstructure:"base_url"        validate:"required,url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

// PollConfig controls how often tasks are polled and how many polls run at once.
type PollConfig struct {
	Interval    time.Duration `mapstructure:"interval"     validate:"gt=0"`
	WorkerCount int           `mapstructure:"worker_count" validate:"gte=1"`
	QueueSize   int           `mapstructure:"queue_size"   validate:"gte=1"`
}
