package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/queueing-core/internal/analytic"
	"github.com/GoSim-25-26J-441/queueing-core/internal/metrics"
	"github.com/GoSim-25-26J-441/queueing-core/internal/report"
)

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "compare",
		Short:   "Simulate an M/M/1 queue and compare it with the closed-form measures",
		Example: `  queuesim compare -a 2 -s 5 -n 100000 --seed 1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lambda, mu := rates(cmd)
			n, seed := a.simulationInputs(cmd)
			tolerance, _ := cmd.Flags().GetFloat64("tolerance")

			m, err := analytic.ResolveRates(lambda, mu, 1, 0)
			if err != nil {
				return err
			}
			res, err := a.simulator(seed).Simulate(lambda, mu, n)
			if err != nil {
				return err
			}
			cmp, err := metrics.Compare(m, metrics.Observe(res))
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), report.ComparisonText(cmp))
			if tolerance > 0 && cmp.MaxRelativeError() > tolerance {
				return fmt.Errorf("max relative error %.4f exceeds tolerance %.4f", cmp.MaxRelativeError(), tolerance)
			}
			return nil
		},
	}
	addRateFlags(cmd)
	addSimulationFlags(cmd)
	cmd.Flags().Float64("tolerance", 0, "fail when any relative error exceeds this fraction")
	return cmd
}
