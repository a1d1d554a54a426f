package analytic

import (
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

// Variant names one of the four supported queue families
type Variant int

const (
	MM1 Variant = iota
	MM1K
	MMC
	MMCK
)

func (v Variant) String() string {
	switch v {
	case MM1:
		return "M/M/1"
	case MM1K:
		return "M/M/1/K"
	case MMC:
		return "M/M/c"
	case MMCK:
		return "M/M/c/K"
	default:
		return "unknown"
	}
}

// Model exposes the steady-state measures of a resolved queue. The set of
// implementations is closed: only this package can construct one.
type Model interface {
	Variant() Variant
	Params() models.QueueParameters

	// L is the expected number of customers in the system.
	L() float64
	// Lq is the expected number of customers waiting.
	Lq() float64
	// W is the expected time in the system.
	W() float64
	// Wq is the expected time waiting.
	Wq() float64
	// Pk is the probability of exactly k customers present.
	Pk(k int) float64
	// Utilization is the offered load per server (λ/μ or λ/(cμ)).
	Utilization() float64

	P0() float64
	EffectiveArrivalRate() float64
	// BlockingProbability is Pk(K) for bounded queues and 0 otherwise.
	BlockingProbability() float64

	sealed()
}

// Measures is a snapshot of a Model for reports and transports.
type Measures struct {
	Variant              string  `json:"variant"`
	L                    float64 `json:"l"`
	Lq                   float64 `json:"lq"`
	W                    float64 `json:"w"`
	Wq                   float64 `json:"wq"`
	Utilization          float64 `json:"utilization"`
	P0                   float64 `json:"p0"`
	EffectiveArrivalRate float64 `json:"effective_arrival_rate"`
	BlockingProbability  float64 `json:"blocking_probability"`
}

// Measure evaluates every accessor of m once.
func Measure(m Model) Measures {
	return Measures{
		Variant:              m.Variant().String(),
		L:                    m.L(),
		Lq:                   m.Lq(),
		W:                    m.W(),
		Wq:                   m.Wq(),
		Utilization:          m.Utilization(),
		P0:                   m.P0(),
		EffectiveArrivalRate: m.EffectiveArrivalRate(),
		BlockingProbability:  m.BlockingProbability(),
	}
}

// Distribution returns Pk(0..n).
func Distribution(m Model, n int) []float64 {
	if n < 0 {
		return nil
	}
	out := make([]float64, n+1)
	for k := range out {
		out[k] = m.Pk(k)
	}
	return out
}
