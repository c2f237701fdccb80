// Package config provides configuration management for accessprobe.
package config

import (
	"time"

	"github.com/probelab/accessprobe/observability"
	"github.com/probelab/accessprobe/pool"
	"github.com/probelab/accessprobe/resilience"
)

// Config is the main configuration for accessprobe.
type Config struct {
	RateLimiter  resilience.RateLimiterConfig
	Telemetry    observability.TelemetryConfig
	PlanPath     string
	PlanBasePath string
	Runner       RunnerConfig
	Audit        observability.AuditConfig
	Pool         pool.Config
}

// RunnerConfig configures the catalogue runner.
type RunnerConfig struct {
	// ResourceDir is the base directory of the file fixtures.
	ResourceDir string

	// DefaultTimeout bounds each catalogue invocation.
	DefaultTimeout time.Duration

	// MaxParallel bounds batch fan-out.
	MaxParallel int

	EnableMetrics bool
	EnableTracing bool
	EnableAudit   bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Runner: RunnerConfig{
			ResourceDir:    "resources",
			DefaultTimeout: 30 * time.Second,
			MaxParallel:    4,
			EnableMetrics:  true,
			EnableTracing:  true,
			EnableAudit:    true,
		},
		Pool:         pool.DefaultConfig(),
		RateLimiter:  resilience.DefaultRateLimiterConfig(),
		Telemetry:    observability.DefaultTelemetryConfig(),
		Audit:        observability.DefaultAuditConfig(),
		PlanPath:     "plan.yaml",
		PlanBasePath: "/etc/accessprobe",
	}
}

// DevelopmentConfig returns configuration suitable for development.
func DevelopmentConfig() Config {
	cfg := DefaultConfig()
	cfg.Runner.DefaultTimeout = 60 * time.Second
	cfg.RateLimiter.DefaultLimit = 1000
	cfg.RateLimiter.DefaultBurst = 2000
	cfg.Audit.LogLevel = observability.AuditLogAll
	cfg.Audit.BasePath = "."
	cfg.Audit.FilePath = "audit.log"
	cfg.PlanBasePath = "."
	return cfg
}

// RestrictedConfig returns a configuration with tight limits.
func RestrictedConfig() Config {
	cfg := DefaultConfig()
	cfg.Runner.MaxParallel = 1
	cfg.RateLimiter.DefaultLimit = 10
	cfg.RateLimiter.DefaultBurst = 20
	cfg.Audit.LogLevel = observability.AuditLogFailures
	return cfg
}

// Validate validates the configuration, filling defaulted fields.
func (c *Config) Validate() error {
	if c.Runner.DefaultTimeout <= 0 {
		c.Runner.DefaultTimeout = 30 * time.Second
	}
	if c.Runner.MaxParallel <= 0 {
		c.Runner.MaxParallel = 4
	}
	if c.Runner.ResourceDir == "" {
		c.Runner.ResourceDir = "resources"
	}
	if c.Pool.Workers <= 0 {
		c.Pool.Workers = 1
	}
	return nil
}
