package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/queueing-core/internal/report"
	"github.com/GoSim-25-26J-441/queueing-core/internal/simulation"
)

func newSimulateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a single-server queue customer by customer",
		Example: `  queuesim simulate -a 3 -s 5 -n 20 --table
  queuesim simulate -a 3 -s 5 -n 500 --seed 7 --csv records.csv --chart occupancy.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lambda, mu := rates(cmd)
			n, seed := a.simulationInputs(cmd)
			table, _ := cmd.Flags().GetBool("table")
			csvPath, _ := cmd.Flags().GetString("csv")
			chartPath, _ := cmd.Flags().GetString("chart")

			session := simulation.NewSession(a.simulator(seed))
			res, err := session.Run(lambda, mu, n)
			if err != nil {
				return err
			}
			rendered, err := report.Render(res)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if table {
				fmt.Fprintln(out, rendered.Table)
			}
			fmt.Fprint(out, rendered.Stats)
			fmt.Fprintf(out, "Seed: %d\n", res.Seed)

			if csvPath != "" {
				if err := writeFile(csvPath, func(f *os.File) error {
					return report.WriteRecordsCSV(f, res.Records)
				}); err != nil {
					return err
				}
				a.log.Info("records written", "path", csvPath, "customers", len(res.Records))
			}
			if chartPath != "" {
				format := chartFormat(chartPath)
				if err := writeFile(chartPath, func(f *os.File) error {
					return report.OccupancyChart(f, rendered.Occupancy, format)
				}); err != nil {
					return err
				}
				a.log.Info("chart written", "path", chartPath, "format", format)
			}
			return nil
		},
	}
	addRateFlags(cmd)
	addSimulationFlags(cmd)
	cmd.Flags().Bool("table", false, "print the per-customer table")
	cmd.Flags().String("csv", "", "write per-customer records to this CSV file")
	cmd.Flags().String("chart", "", "write the customer-count chart to this file (.png or .svg)")
	return cmd
}

func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("customers", "n", 0, "number of customers (default from config)")
	cmd.Flags().Int64("seed", 0, "random seed, 0 uses the configured seed or the clock")
}

// simulationInputs reads --customers and --seed, falling back to the config.
func (a *app) simulationInputs(cmd *cobra.Command) (customers int, seed int64) {
	customers, _ = cmd.Flags().GetInt("customers")
	seed, _ = cmd.Flags().GetInt64("seed")
	if customers == 0 {
		customers = a.cfg.Simulation.DefaultCustomers
	}
	if seed == 0 {
		seed = a.cfg.Simulation.Seed
	}
	return customers, seed
}

func (a *app) simulator(seed int64) *simulation.Simulator {
	return simulation.New(simulation.WithSeed(seed), simulation.WithLogger(a.log))
}

func chartFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return report.FormatSVG
	}
	return report.FormatPNG
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
