package app

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vk/wavegrid/internal/executor"
)

// Defaults for settings that are not resolved from the pipeline file.
const (
	DefaultLogFormat = "text"
	DefaultLogLevel  = "info"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// PipelinePaths are .hcl files or directories containing them.
	PipelinePaths []string

	// Workers and TaskTimeout override the pipeline block when non-zero.
	Workers     int
	TaskTimeout time.Duration

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// EventsURL, when set, streams lifecycle events to a socket.io server.
	EventsURL string
	// Trace exports one span per task execution to the app's output.
	Trace bool
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.PipelinePaths) == 0 {
		return nil, errors.New("at least one pipeline path is required")
	}
	for _, p := range cfg.PipelinePaths {
		if strings.TrimSpace(p) == "" {
			return nil, errors.New("pipeline path cannot be empty")
		}
	}

	if cfg.Workers < 0 || cfg.Workers > executor.MaxWorkers {
		return nil, fmt.Errorf("invalid workers %d: must be between 1 and %d", cfg.Workers, executor.MaxWorkers)
	}
	if cfg.TaskTimeout < 0 {
		return nil, fmt.Errorf("invalid task timeout %s: must not be negative", cfg.TaskTimeout)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}

	if cfg.EventsURL != "" {
		u, err := url.Parse(cfg.EventsURL)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid events url %q", cfg.EventsURL)
		}
	}

	return &cfg, nil
}
