// Package report renders solver and simulator output for people and
// spreadsheets: fixed-order text, tables, CSV and the occupancy chart.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/GoSim-25-26J-441/queueing-core/internal/analytic"
	"github.com/GoSim-25-26J-441/queueing-core/internal/metrics"
	"github.com/GoSim-25-26J-441/queueing-core/internal/simulation"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

// RecordColumns are the per-customer table headers, in order.
var RecordColumns = []string{
	"Customer",
	"Arrival Time",
	"Service Begin Time",
	"Service Time",
	"Service End Time",
	"Time in Queue",
	"Time in System",
}

// SolveText is the "<name>: <value>" block for L, Lq, W, Wq and Ru.
func SolveText(m analytic.Model) string {
	return string(analytic.Text(m))
}

// SolveDetail extends SolveText with the variant, P0, λ' and blocking probability.
func SolveDetail(m analytic.Model) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model: %s\n", m.Variant())
	b.WriteString(SolveText(m))
	fmt.Fprintf(&b, "P0: %g\n", m.P0())
	fmt.Fprintf(&b, "Effective Arrival Rate: %g\n", m.EffectiveArrivalRate())
	fmt.Fprintf(&b, "Blocking Probability: %g\n", m.BlockingProbability())
	return b.String()
}

// StatsText prints the aggregate means with two decimals, one per line.
func StatsText(s models.AggregateStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Average Waiting Time: %.2f\n", s.MeanWaitingTime)
	fmt.Fprintf(&b, "Average Service Time: %.2f\n", s.MeanServiceTime)
	fmt.Fprintf(&b, "Average Time Between Arrivals: %.2f\n", s.MeanInterarrivalTime)
	fmt.Fprintf(&b, "Average Waiting Time of Those Who Wait: %.2f\n", s.MeanWaitingTimeGivenWaited)
	fmt.Fprintf(&b, "Average Time a Customer Spends in the System: %.2f\n", s.MeanTimeInSystem)
	return b.String()
}

// RecordsTable writes one aligned row per customer.
func RecordsTable(w io.Writer, records []models.SimulationRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(RecordColumns, "\t")+"\t")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			r.Index, r.ArrivalTime, r.ServiceStartTime, r.ServiceTime,
			r.CompletionTime, r.TimeInQueue, r.TimeInSystem)
	}
	return tw.Flush()
}

// ComparisonText lays out analytic against simulated values.
func ComparisonText(c metrics.Comparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model: %s, customers: %d\n", c.Variant, c.Customers)
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Measure\tAnalytic\tSimulated\tRel. Error")
	for _, m := range c.Measures {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.2f%%\n", m.Name, m.Analytic, m.Simulated, 100*m.RelativeError)
	}
	tw.Flush()
	return b.String()
}

// SimulationReport is the presentation bundle for one simulation run.
type SimulationReport struct {
	Table     string
	Stats     string
	Occupancy *simulation.Series
}

// Render builds the table and stats text for res.
func Render(res *simulation.Result) (SimulationReport, error) {
	var table strings.Builder
	if err := RecordsTable(&table, res.Records); err != nil {
		return SimulationReport{}, fmt.Errorf("rendering records: %w", err)
	}
	return SimulationReport{
		Table:     table.String(),
		Stats:     StatsText(res.Stats),
		Occupancy: res.Occupancy,
	}, nil
}
