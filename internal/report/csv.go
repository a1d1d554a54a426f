package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/GoSim-25-26J-441/queueing-core/internal/analytic"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteRecordsCSV writes every record field, including interarrival and idle time.
func WriteRecordsCSV(w io.Writer, records []models.SimulationRecord) error {
	cw := csv.NewWriter(w)
	header := []string{
		"customer", "interarrival_time", "arrival_time", "service_time",
		"service_start_time", "completion_time", "time_in_queue",
		"time_in_system", "server_idle_time",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Index),
			formatFloat(r.InterarrivalTime),
			formatFloat(r.ArrivalTime),
			formatFloat(r.ServiceTime),
			formatFloat(r.ServiceStartTime),
			formatFloat(r.CompletionTime),
			formatFloat(r.TimeInQueue),
			formatFloat(r.TimeInSystem),
			formatFloat(r.ServerIdleTime),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record %d: %w", r.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SummaryRow is one batch case in the summary CSV. Stats is nil for cases
// that were only solved.
type SummaryRow struct {
	Name     string
	Params   models.QueueParameters
	Measures *analytic.Measures
	Stats    *models.AggregateStats
	Err      error
}

// WriteSummaryCSV writes one line per batch case; failed cases carry their error text.
func WriteSummaryCSV(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	header := []string{
		"case", "arrival_rate", "service_rate", "servers", "capacity", "variant",
		"l", "lq", "w", "wq", "utilization", "blocking_probability",
		"sim_mean_waiting_time", "sim_mean_time_in_system", "error",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range rows {
		row := []string{
			r.Name,
			formatFloat(r.Params.ArrivalRate),
			formatFloat(r.Params.ServiceRate),
			strconv.Itoa(r.Params.Servers),
			r.Params.Capacity.String(),
		}
		if m := r.Measures; m != nil {
			row = append(row, m.Variant, formatFloat(m.L), formatFloat(m.Lq), formatFloat(m.W),
				formatFloat(m.Wq), formatFloat(m.Utilization), formatFloat(m.BlockingProbability))
		} else {
			row = append(row, "", "", "", "", "", "", "")
		}
		if s := r.Stats; s != nil {
			row = append(row, formatFloat(s.MeanWaitingTime), formatFloat(s.MeanTimeInSystem))
		} else {
			row = append(row, "", "")
		}
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		row = append(row, errText)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing case %s: %w", r.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
