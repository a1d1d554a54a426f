package config

import (
	"time"

	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

// Config is the CLI and daemon configuration. The mapstructure tags let viper
// overlay flags and QUEUESIM_* environment variables on the same struct.
type Config struct {
	LogLevel      string             `yaml:"log_level" mapstructure:"log_level"`
	LogFormat     string             `yaml:"log_format" mapstructure:"log_format"`
	Server        ServerConfig       `yaml:"server" mapstructure:"server"`
	Simulation    SimulationConfig   `yaml:"simulation" mapstructure:"simulation"`
	Notifications NotificationConfig `yaml:"notifications" mapstructure:"notifications"`
}

// ServerConfig holds the daemon listen addresses
type ServerConfig struct {
	GRPCAddr        string `yaml:"grpc_addr" mapstructure:"grpc_addr"`
	HTTPAddr        string `yaml:"http_addr" mapstructure:"http_addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"` // e.g. "10s"
	MaxRuns         int    `yaml:"max_runs" mapstructure:"max_runs"`
}

// SimulationConfig holds simulator defaults
type SimulationConfig struct {
	Seed             int64 `yaml:"seed" mapstructure:"seed"` // 0 = time-based
	DefaultCustomers int   `yaml:"default_customers" mapstructure:"default_customers"`
	MaxCustomers     int   `yaml:"max_customers" mapstructure:"max_customers"`
}

// NotificationConfig controls webhook delivery of completed runs
type NotificationConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	MaxRetries int    `yaml:"max_retries" mapstructure:"max_retries"`
	Backoff    string `yaml:"backoff" mapstructure:"backoff"` // exponential, linear, constant
	BaseMs     int    `yaml:"base_ms" mapstructure:"base_ms"`
	MaxMs      int    `yaml:"max_ms" mapstructure:"max_ms"`
	TimeoutMs  int    `yaml:"timeout_ms" mapstructure:"timeout_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Server: ServerConfig{
			GRPCAddr:        ":50051",
			HTTPAddr:        ":8080",
			ShutdownTimeout: "10s",
			MaxRuns:         1000,
		},
		Simulation: SimulationConfig{
			DefaultCustomers: 20,
			MaxCustomers:     1_000_000,
		},
		Notifications: NotificationConfig{
			Enabled:    true,
			MaxRetries: 3,
			Backoff:    "exponential",
			BaseMs:     1000,
			MaxMs:      30000,
			TimeoutMs:  10000,
		},
	}
}

// GetShutdownTimeout parses the shutdown timeout string
func (s ServerConfig) GetShutdownTimeout() (time.Duration, error) {
	return time.ParseDuration(s.ShutdownTimeout)
}

// Batch is a file of solve/simulate cases run by `queuesim batch`.
type Batch struct {
	Seed  int64  `yaml:"seed"`
	Cases []Case `yaml:"cases"`
}

// Case is one queue configuration in a batch file. Customers > 0 also runs the simulator.
type Case struct {
	Name        string           `yaml:"name"`
	ArrivalRate float64          `yaml:"arrival_rate"`
	ServiceRate float64          `yaml:"service_rate"`
	Servers     int              `yaml:"servers,omitempty"`
	Capacity    *models.Capacity `yaml:"capacity,omitempty"`
	Customers   int              `yaml:"customers,omitempty"`
	Compare     bool             `yaml:"compare,omitempty"`
}

// Params converts the case into QueueParameters. Missing servers default to 1 and
// a missing capacity means unbounded.
func (c Case) Params() models.QueueParameters {
	p := models.NewQueueParameters(c.ArrivalRate, c.ServiceRate)
	if c.Servers != 0 {
		p.Servers = c.Servers
	}
	if c.Capacity != nil {
		p.Capacity = *c.Capacity
	}
	return p
}
