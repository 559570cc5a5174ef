// Package probe checks a running SignalCraft server against its HTTP
// contract: route table, payload shapes, validation and byte-stable repeats.
package probe

import (
	"errors"
	"time"
)

// Defaults for Config fields left at zero.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultWorkers = 4
	DefaultTimeout = 10 * time.Second
	DefaultRepeat  = 3
)

// ErrChecksFailed is returned by Run when at least one check failed.
var ErrChecksFailed = errors.New("probe: checks failed")

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the service
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Repeat  int           // Times each GET is fetched when comparing bytes
	Verbose bool          // Log every passing check
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Repeat < 2 {
		c.Repeat = DefaultRepeat
	}
	return c
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Stats summarizes a probe run.
type Stats struct {
	Checks    int
	Passed    int
	Failed    int
	Results   []Result
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
