package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GoSim-25-26J-441/queueing-core/pkg/config"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/logger"
)

// envPrefix namespaces environment overrides, e.g. QUEUESIM_SERVER_HTTP_ADDR.
const envPrefix = "QUEUESIM"

// app is the state shared by every subcommand once the root has loaded config.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "queuesim",
		Short: "Markovian queue solver and single-server simulator",
		Long: `queuesim computes steady-state measures of M/M/1, M/M/1/K, M/M/c and
M/M/c/K queues, simulates single-server queues customer by customer and
compares the two. Configuration is read from --config, then QUEUESIM_*
environment variables, then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: json or text")
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log_format", flags.Lookup("log-format"))

	root.AddCommand(
		newSolveCmd(a),
		newSimulateCmd(a),
		newCompareCmd(a),
		newBatchCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	logger.SetDefault(a.log)
	a.log.Debug("configuration loaded", "config", a.cfgFile, "log_level", cfg.LogLevel)
	return nil
}

// loadConfig layers flags over environment over the config file over the
// built-in defaults.
func (a *app) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if a.cfgFile != "" {
		loaded, err := config.LoadConfig(a.cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()
	for key, value := range configKeys(cfg) {
		a.v.SetDefault(key, value)
	}

	if err := a.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("applying configuration overrides: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// configKeys registers every overridable key with viper so that Unmarshal
// consults the environment for it.
func configKeys(cfg *config.Config) map[string]any {
	return map[string]any{
		"log_level":                    cfg.LogLevel,
		"log_format":                   cfg.LogFormat,
		"server.grpc_addr":             cfg.Server.GRPCAddr,
		"server.http_addr":             cfg.Server.HTTPAddr,
		"server.shutdown_timeout":      cfg.Server.ShutdownTimeout,
		"server.max_runs":              cfg.Server.MaxRuns,
		"simulation.seed":              cfg.Simulation.Seed,
		"simulation.default_customers": cfg.Simulation.DefaultCustomers,
		"simulation.max_customers":     cfg.Simulation.MaxCustomers,
		"notifications.enabled":        cfg.Notifications.Enabled,
		"notifications.max_retries":    cfg.Notifications.MaxRetries,
		"notifications.backoff":        cfg.Notifications.Backoff,
		"notifications.base_ms":        cfg.Notifications.BaseMs,
		"notifications.max_ms":         cfg.Notifications.MaxMs,
		"notifications.timeout_ms":     cfg.Notifications.TimeoutMs,
	}
}

// addRateFlags registers the arrival and service rate flags shared by most commands.
func addRateFlags(cmd *cobra.Command) {
	cmd.Flags().Float64P("arrival", "a", 0, "arrival rate λ (customers per unit time)")
	cmd.Flags().Float64P("service", "s", 0, "service rate μ per server")
	_ = cmd.MarkFlagRequired("arrival")
	_ = cmd.MarkFlagRequired("service")
}

func rates(cmd *cobra.Command) (lambda, mu float64) {
	lambda, _ = cmd.Flags().GetFloat64("arrival")
	mu, _ = cmd.Flags().GetFloat64("service")
	return lambda, mu
}
