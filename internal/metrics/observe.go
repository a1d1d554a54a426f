// Package metrics turns a simulation run into steady-state estimates and
// compares them with the closed-form model. It also keeps the daemon's run
// counters.
package metrics

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/GoSim-25-26J-441/queueing-core/internal/simulation"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

// Observed holds estimates from one simulation run, in the model's time units
// (the display scale is divided out of every time and rate).
type Observed struct {
	Params    models.QueueParameters `json:"params"`
	Customers int                    `json:"customers"`
	Horizon   float64                `json:"horizon"`

	L           float64 `json:"l"`
	Lq          float64 `json:"lq"`
	W           float64 `json:"w"`
	Wq          float64 `json:"wq"`
	Utilization float64 `json:"utilization"`
	Throughput  float64 `json:"throughput"`

	TimeInSystemStdDev float64 `json:"time_in_system_stddev"`
	TimeInSystemP50    float64 `json:"time_in_system_p50"`
	TimeInSystemP95    float64 `json:"time_in_system_p95"`
}

// Observe derives time-averaged population measures from the occupancy series
// and per-customer means from the records.
func Observe(res *simulation.Result) Observed {
	o := Observed{Params: res.Params, Customers: len(res.Records)}
	if len(res.Records) == 0 {
		return o
	}

	inSystem := make([]float64, len(res.Records))
	waits := make([]float64, len(res.Records))
	for i, r := range res.Records {
		inSystem[i] = r.TimeInSystem / simulation.DisplayScale
		waits[i] = r.TimeInQueue / simulation.DisplayScale
	}
	o.W = stat.Mean(inSystem, nil)
	o.Wq = stat.Mean(waits, nil)
	o.TimeInSystemStdDev = stat.StdDev(inSystem, nil)

	sorted := append([]float64(nil), inSystem...)
	sort.Float64s(sorted)
	o.TimeInSystemP50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	o.TimeInSystemP95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)

	points := res.Occupancy.Points()
	if len(points) < 2 {
		return o
	}
	// step i holds from points[i].Time until points[i+1].Time
	durations := make([]float64, len(points)-1)
	inSys := make([]float64, len(points)-1)
	queued := make([]float64, len(points)-1)
	busy := make([]float64, len(points)-1)
	for i := range durations {
		durations[i] = points[i+1].Time - points[i].Time
		n := points[i].Count
		inSys[i] = float64(n)
		queued[i] = float64(max(n-1, 0))
		if n > 0 {
			busy[i] = 1
		}
	}

	span := floats.Sum(durations)
	if span <= 0 {
		return o
	}
	o.Horizon = span / simulation.DisplayScale
	o.L = stat.Mean(inSys, durations)
	o.Lq = stat.Mean(queued, durations)
	o.Utilization = stat.Mean(busy, durations)
	o.Throughput = float64(o.Customers) / o.Horizon
	return o
}
