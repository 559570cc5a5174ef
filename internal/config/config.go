// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers a YAML file and SIGNALCRAFT_* environment variables on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Host and Port form the HTTP listen address.
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// FrontendDir holds index.html, dashboard.html, login.html and the static/ subdirectory.
	FrontendDir string `koanf:"frontend_dir"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORS lists; "*" permits anything.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
	CORSAllowedMethods []string `koanf:"cors_allowed_methods"`
	CORSAllowedHeaders []string `koanf:"cors_allowed_headers"`
	CORSAllowCreds     bool     `koanf:"cors_allow_credentials"`

	// MetricsEnabled toggles Prometheus recording and the /metrics route.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// Prometheus naming and refresh. Empty buckets keep the client defaults;
	// labels are attached to every series.
	MetricsNamespace        string            `koanf:"metrics_namespace"`
	MetricsSubsystem        string            `koanf:"metrics_subsystem"`
	MetricsRefreshInterval  time.Duration     `koanf:"metrics_refresh_interval"`
	MetricsHistogramBuckets []float64         `koanf:"metrics_histogram_buckets"`
	MetricsLabels           map[string]string `koanf:"metrics_labels"`

	// DocsEnabled toggles /openapi.yaml and /api-docs.
	DocsEnabled bool `koanf:"docs_enabled"`
}

// New creates a Config with defaults: listen on 0.0.0.0:8000, serve the
// frontend directory next to the working directory, allow every origin.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Host:               "0.0.0.0",
		Port:               8000,
		FrontendDir:        "frontend",
		ShutdownTimeout:    10 * time.Second,
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{"*"},
		CORSAllowedHeaders: []string{"*"},
		CORSAllowCreds:     true,
		MetricsEnabled:     true,
		DocsEnabled:        true,

		MetricsNamespace:       "signalcraft",
		MetricsSubsystem:       "api",
		MetricsRefreshInterval: 10 * time.Second,
	}
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
