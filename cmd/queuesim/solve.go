package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/queueing-core/internal/analytic"
	"github.com/GoSim-25-26J-441/queueing-core/internal/report"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

func newSolveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Compute steady-state measures of a Markovian queue",
		Example: `  queuesim solve -a 2 -s 5
  queuesim solve -a 6 -s 2 --servers 4
  queuesim solve -a 9 -s 2 --servers 3 --capacity 8 --detail --distribution 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			arrival, _ := cmd.Flags().GetString("arrival")
			service, _ := cmd.Flags().GetString("service")
			servers, _ := cmd.Flags().GetString("servers")
			capacity, _ := cmd.Flags().GetString("capacity")
			detail, _ := cmd.Flags().GetBool("detail")
			n, _ := cmd.Flags().GetInt("distribution")

			params, err := models.ParseQueueParameters(arrival, service, servers, capacity)
			if err != nil {
				return err
			}
			m, err := analytic.Resolve(params)
			if err != nil {
				return err
			}
			a.log.Debug("model resolved", "variant", m.Variant(), "params", m.Params())

			out := cmd.OutOrStdout()
			if detail {
				fmt.Fprint(out, report.SolveDetail(m))
			} else {
				fmt.Fprint(out, report.SolveText(m))
			}
			for k, p := range analytic.Distribution(m, n) {
				fmt.Fprintf(out, "P%d: %g\n", k, p)
			}
			return nil
		},
	}
	// text flags so malformed numbers surface as parameter errors
	cmd.Flags().StringP("arrival", "a", "", "arrival rate λ (customers per unit time)")
	cmd.Flags().StringP("service", "s", "", "service rate μ per server")
	cmd.Flags().StringP("servers", "c", "1", "number of parallel servers")
	cmd.Flags().StringP("capacity", "k", "", "system capacity K, empty or \"inf\" for unbounded")
	cmd.Flags().Bool("detail", false, "also print the variant, P0, effective arrival rate and blocking probability")
	cmd.Flags().Int("distribution", -1, "print P0..Pn")
	_ = cmd.MarkFlagRequired("arrival")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}
