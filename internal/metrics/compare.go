package metrics

import (
	"github.com/GoSim-25-26J-441/queueing-core/internal/analytic"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/utils"
)

// MeasureComparison pairs one analytic measure with its simulated estimate.
type MeasureComparison struct {
	Name          string  `json:"name"`
	Analytic      float64 `json:"analytic"`
	Simulated     float64 `json:"simulated"`
	RelativeError float64 `json:"relative_error"`
}

// Comparison is the cross-check of a single-server model against a run.
type Comparison struct {
	Variant   string              `json:"variant"`
	Customers int                 `json:"customers"`
	Measures  []MeasureComparison `json:"measures"`
}

// Compare lines up L, Lq, W, Wq and utilization. The simulator replays an
// unbounded single-server queue, so m must be M/M/1 with the same rates.
func Compare(m analytic.Model, o Observed) (Comparison, error) {
	if m.Variant() != analytic.MM1 {
		return Comparison{}, &models.InvalidParameterError{
			Param:  "servers",
			Value:  m.Params().Servers,
			Reason: "simulation cross-check supports M/M/1 only, got " + m.Variant().String(),
		}
	}
	p := m.Params()
	if p.ArrivalRate != o.Params.ArrivalRate || p.ServiceRate != o.Params.ServiceRate {
		return Comparison{}, &models.InvalidParameterError{
			Param:  "params",
			Value:  o.Params,
			Reason: "simulation rates differ from the model's",
		}
	}

	row := func(name string, want, got float64) MeasureComparison {
		return MeasureComparison{Name: name, Analytic: want, Simulated: got, RelativeError: utils.RelativeError(got, want)}
	}
	return Comparison{
		Variant:   m.Variant().String(),
		Customers: o.Customers,
		Measures: []MeasureComparison{
			row("L", m.L(), o.L),
			row("Lq", m.Lq(), o.Lq),
			row("W", m.W(), o.W),
			row("Wq", m.Wq(), o.Wq),
			row("Ru", m.Utilization(), o.Utilization),
		},
	}, nil
}

// MaxRelativeError returns the worst relative error across all measures.
func (c Comparison) MaxRelativeError() float64 {
	var worst float64
	for _, m := range c.Measures {
		worst = max(worst, m.RelativeError)
	}
	return worst
}
