package config

import (
	"fmt"
	"os"
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

// LoadBatch loads and parses a batch file
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file %s: %w", path, err)
	}
	batch, err := ParseBatchYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}
	return batch, nil
}

// Validate performs validation on the configuration
func Validate(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return fmt.Errorf("invalid log_format: %s (must be json or text)", cfg.LogFormat)
	}

	if cfg.Server.GRPCAddr == "" && cfg.Server.HTTPAddr == "" {
		return fmt.Errorf("server: at least one of grpc_addr or http_addr must be set")
	}
	if _, err := cfg.Server.GetShutdownTimeout(); err != nil {
		return fmt.Errorf("server: invalid shutdown_timeout %s: %w", cfg.Server.ShutdownTimeout, err)
	}
	if cfg.Server.MaxRuns < 0 {
		return fmt.Errorf("server: max_runs cannot be negative, got %d", cfg.Server.MaxRuns)
	}

	if err := validateSimulation(&cfg.Simulation); err != nil {
		return fmt.Errorf("simulation validation failed: %w", err)
	}
	if err := validateNotifications(&cfg.Notifications); err != nil {
		return fmt.Errorf("notifications validation failed: %w", err)
	}
	return nil
}

func validateSimulation(s *SimulationConfig) error {
	if s.DefaultCustomers <= 0 {
		return fmt.Errorf("default_customers must be positive, got %d", s.DefaultCustomers)
	}
	if s.MaxCustomers < s.DefaultCustomers {
		return fmt.Errorf("max_customers (%d) must be at least default_customers (%d)", s.MaxCustomers, s.DefaultCustomers)
	}
	return nil
}

func validateNotifications(n *NotificationConfig) error {
	if n.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative, got %d", n.MaxRetries)
	}
	validBackoffs := map[string]bool{
		"exponential": true,
		"linear":      true,
		"constant":    true,
	}
	if !validBackoffs[n.Backoff] {
		return fmt.Errorf("invalid backoff type: %s (must be exponential, linear, or constant)", n.Backoff)
	}
	if n.BaseMs < 0 || n.MaxMs < 0 {
		return fmt.Errorf("base_ms and max_ms cannot be negative")
	}
	if n.TimeoutMs <= 0 {
		return fmt.Errorf("timeout_ms must be positive, got %d", n.TimeoutMs)
	}
	return nil
}

// validateBatch checks structure only; queue parameters are validated by the resolver
// so that batch runs report the same errors as interactive ones.
func validateBatch(b *Batch) error {
	if len(b.Cases) == 0 {
		return fmt.Errorf("at least one case must be defined")
	}
	names := make(map[string]bool)
	for i, c := range b.Cases {
		if c.Name == "" {
			return fmt.Errorf("case %d: name cannot be empty", i)
		}
		if names[c.Name] {
			return fmt.Errorf("duplicate case name: %s", c.Name)
		}
		names[c.Name] = true
		if c.Customers < 0 {
			return fmt.Errorf("case %s: customers cannot be negative", c.Name)
		}
		if c.Compare && c.Customers == 0 {
			return fmt.Errorf("case %s: compare requires customers > 0", c.Name)
		}
	}
	return nil
}
