package analytic

import (
	"math"

	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

type mm1k struct {
	params models.QueueParameters
	k      int
	rho    float64
	norm   float64 // Σ_{n≤K} ρ^n

	blocking  float64
	lambdaEff float64
	l         float64
}

func newMM1K(p models.QueueParameters) (*mm1k, error) {
	m := &mm1k{params: p, k: p.Capacity.Int(), rho: p.ArrivalRate / p.ServiceRate}
	m.norm = geomSum(m.rho, m.k+1)
	m.l = geomMean(m.rho, m.k)
	m.blocking = m.Pk(m.k)
	m.lambdaEff = p.ArrivalRate * (1 - m.blocking)

	if err := checkFinite("M/M/1/K", m.norm, m.l, m.blocking, m.lambdaEff); err != nil {
		return nil, err
	}
	if m.lambdaEff <= 0 {
		return nil, &models.DegenerateComputationError{Op: "M/M/1/K", Reason: "effective arrival rate is zero"}
	}
	return m, nil
}

func (m *mm1k) sealed() {}

func (m *mm1k) Variant() Variant               { return MM1K }
func (m *mm1k) Params() models.QueueParameters { return m.params }
func (m *mm1k) Utilization() float64           { return m.rho }

func (m *mm1k) L() float64  { return m.l }
func (m *mm1k) W() float64  { return m.l / m.lambdaEff }
func (m *mm1k) Wq() float64 { return m.W() - 1/m.params.ServiceRate }
func (m *mm1k) Lq() float64 { return m.lambdaEff * m.Wq() }

func (m *mm1k) Pk(n int) float64 {
	if n < 0 || n > m.k {
		return 0
	}
	return math.Pow(m.rho, float64(n)) / m.norm
}

func (m *mm1k) P0() float64                   { return m.Pk(0) }
func (m *mm1k) EffectiveArrivalRate() float64 { return m.lambdaEff }
func (m *mm1k) BlockingProbability() float64  { return m.blocking }
