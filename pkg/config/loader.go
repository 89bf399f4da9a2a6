package config

import (
	"fmt"
	"os"
	"strings"
)

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate re-runs validation, e.g. after flags were applied on top of a file
func (c *Config) Validate() error {
	return validateConfig(c)
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}
	if cfg.LogFormat != "" && cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log_format: %s (must be text or json)", cfg.LogFormat)
	}

	if strings.TrimSpace(cfg.Model) == "" {
		return fmt.Errorf("model cannot be empty")
	}

	if cfg.DataFile == "" {
		validDatasets := map[string]bool{
			"matlab": true,
			"table":  true,
			"all":    true,
		}
		if !validDatasets[strings.ToLower(cfg.Dataset)] {
			return fmt.Errorf("invalid dataset: %s (must be matlab, table, or all)", cfg.Dataset)
		}
	}

	for name, ms := range cfg.Models {
		if err := validateModelSettings(name, ms); err != nil {
			return fmt.Errorf("models validation failed: %w", err)
		}
	}

	if err := validateOptimizer(&cfg.Optimizer); err != nil {
		return fmt.Errorf("optimizer validation failed: %w", err)
	}

	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server validation failed: %w", err)
	}

	return nil
}

// validateModelSettings validates one per-model override
func validateModelSettings(name string, ms ModelSettings) error {
	if name == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	if len(ms.Lower) != len(ms.Upper) && len(ms.Lower) > 0 && len(ms.Upper) > 0 {
		return fmt.Errorf("model %s: lower has %d entries, upper has %d", name, len(ms.Lower), len(ms.Upper))
	}
	if len(ms.Lower) > 0 && len(ms.Upper) > 0 {
		for i := range ms.Lower {
			if ms.Lower[i] > ms.Upper[i] {
				return fmt.Errorf("model %s: bound %d lower %g exceeds upper %g", name, i, ms.Lower[i], ms.Upper[i])
			}
		}
	}
	return nil
}

// validateOptimizer validates the optimizer configuration
func validateOptimizer(o *Optimizer) error {
	validMethods := map[string]bool{
		"nelder-mead": true,
		"lbfgs":       true,
		"compass":     true,
	}
	if !validMethods[o.Method] {
		return fmt.Errorf("invalid method: %s (must be nelder-mead, lbfgs, or compass)", o.Method)
	}
	if o.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", o.MaxIterations)
	}
	if o.FunctionTolerance < 0 {
		return fmt.Errorf("ftol cannot be negative")
	}
	if o.StallIterations < 0 {
		return fmt.Errorf("stall_iterations cannot be negative")
	}
	if o.StepTolerance < 0 || o.GradientTolerance < 0 {
		return fmt.Errorf("step_tol and grad_tol cannot be negative")
	}
	if o.Starts < 1 {
		return fmt.Errorf("starts must be at least 1, got %d", o.Starts)
	}
	if o.MaxParallel < 1 {
		return fmt.Errorf("max_parallel must be at least 1, got %d", o.MaxParallel)
	}

	validSchedules := map[string]bool{
		"exponential": true,
		"linear":      true,
		"constant":    true,
	}
	if o.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries cannot be negative")
	}
	if !validSchedules[o.Retry.Schedule] {
		return fmt.Errorf("invalid retry.schedule: %s (must be exponential, linear, or constant)", o.Retry.Schedule)
	}
	if o.Retry.Base < 0 || o.Retry.Max < 0 {
		return fmt.Errorf("retry.base and retry.max cannot be negative")
	}

	return nil
}

// validateServer validates the service configuration
func validateServer(s *Server) error {
	if s.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit_rps cannot be negative")
	}
	if s.RateLimitRPS > 0 && s.Burst <= 0 {
		return fmt.Errorf("burst must be positive when rate limiting is enabled")
	}
	if s.MaxObservations < 0 {
		return fmt.Errorf("max_observations cannot be negative")
	}
	if s.MaxStarts < 0 {
		return fmt.Errorf("max_starts cannot be negative")
	}
	if s.MaxIterations < 0 {
		return fmt.Errorf("max_iterations cannot be negative")
	}
	return nil
}
