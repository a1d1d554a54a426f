package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/queueing-core/internal/analytic"
	"github.com/GoSim-25-26J-441/queueing-core/internal/metrics"
	"github.com/GoSim-25-26J-441/queueing-core/internal/report"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/config"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Solve (and optionally simulate) every case in a YAML batch file",
		Example: `  queuesim batch examples/batch.yaml
  queuesim batch examples/batch.yaml --summary summary.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaryPath, _ := cmd.Flags().GetString("summary")

			batch, err := config.LoadBatch(args[0])
			if err != nil {
				return err
			}
			a.log.Info("running batch", "file", args[0], "cases", len(batch.Cases))

			out := cmd.OutOrStdout()
			rows := make([]report.SummaryRow, 0, len(batch.Cases))
			failed := 0
			for _, c := range batch.Cases {
				row := a.runCase(out, c, batch.Seed)
				if row.Err != nil {
					failed++
					fmt.Fprintf(out, "error: %v\n", row.Err)
				}
				fmt.Fprintln(out)
				rows = append(rows, row)
			}

			switch summaryPath {
			case "":
			case "-":
				if err := report.WriteSummaryCSV(out, rows); err != nil {
					return err
				}
			default:
				if err := writeFile(summaryPath, func(f *os.File) error {
					return report.WriteSummaryCSV(f, rows)
				}); err != nil {
					return err
				}
				a.log.Info("summary written", "path", summaryPath)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d cases failed", failed, len(rows))
			}
			return nil
		},
	}
	cmd.Flags().String("summary", "", "write a summary CSV to this file, - for stdout")
	return cmd
}

// runCase solves one case and, when it asks for customers, simulates it too.
// Failures are carried on the row so the remaining cases still run.
func (a *app) runCase(out io.Writer, c config.Case, seed int64) report.SummaryRow {
	params := analytic.Normalize(c.Params())
	row := report.SummaryRow{Name: c.Name, Params: params}
	fmt.Fprintf(out, "== %s ==\n", c.Name)

	m, err := analytic.Resolve(params)
	if err != nil {
		row.Err = err
		return row
	}
	measures := analytic.Measure(m)
	row.Measures = &measures
	fmt.Fprint(out, report.SolveDetail(m))

	if c.Customers == 0 {
		return row
	}
	if params.Servers != 1 {
		row.Err = &models.InvalidParameterError{Param: "servers", Value: params.Servers, Reason: "simulation supports a single server"}
		return row
	}
	if seed == 0 {
		seed = a.cfg.Simulation.Seed
	}
	res, err := a.simulator(seed).Simulate(params.ArrivalRate, params.ServiceRate, c.Customers)
	if err != nil {
		row.Err = err
		return row
	}
	row.Stats = &res.Stats
	fmt.Fprint(out, report.StatsText(res.Stats))

	if c.Compare {
		cmp, err := metrics.Compare(m, metrics.Observe(res))
		if err != nil {
			row.Err = err
			return row
		}
		fmt.Fprint(out, report.ComparisonText(cmp))
	}
	return row
}
