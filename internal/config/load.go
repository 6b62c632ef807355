package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TASKWATCH_REMOTE_BASE_URL.
const EnvPrefix = "TASKWATCH"

// ConfigFlag names the flag that points at an explicit config file.
const ConfigFlag = "config"

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"port":            "server.port",
	"log-level":       "server.log_level",
	"remote-url":      "remote.base_url",
	"request-timeout": "remote.request_timeout",
	"poll-interval":   "poll.interval",
	"workers":         "poll.worker_count",
	"queue-size":      "poll.queue_size",
}

// Load configuration from defaults, an optional taskwatch.yaml in the working
// directory and environment variables. Environment variables take precedence
// over values from the config file.
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags is Load with command-line flags layered on top. Only flags the
// user actually set override other sources. A nil flag set is allowed.
func LoadWithFlags(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	configFile := ""
	if flags != nil {
		if f := flags.Lookup(ConfigFlag); f != nil {
			configFile = f.Value.String()
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("taskwatch")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// RegisterFlags adds the flags understood by LoadWithFlags to fs. Their
// defaults are informational; unset flags never override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(ConfigFlag, "", "path to a YAML config file (default ./taskwatch.yaml)")
	fs.Int("port", 8090, "control API port")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("remote-url", "http://localhost:5000", "base URL of the task server")
	fs.Duration("request-timeout", 10*time.Second, "timeout of every request to the task server")
	fs.Duration("poll-interval", time.Second, "delay between two status queries of a task")
	fs.Int("workers", 4, "number of concurrent poll workers")
	fs.Int("queue-size", 100, "number of due polls that may wait for a worker")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("remote.base_url", "http://localhost:5000")
	v.SetDefault("remote.request_timeout", "10s")
	v.SetDefault("poll.interval", "1s")
	v.SetDefault("poll.worker_count", 4)
	v.SetDefault("poll.queue_size", 100)
}
