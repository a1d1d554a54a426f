package analytic

import (
	"math"

	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

type mm1 struct {
	params models.QueueParameters
	rho    float64
}

func newMM1(p models.QueueParameters) (*mm1, error) {
	m := &mm1{params: p, rho: p.ArrivalRate / p.ServiceRate}
	if err := checkFinite("M/M/1", m.rho); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *mm1) sealed() {}

func (m *mm1) Variant() Variant               { return MM1 }
func (m *mm1) Params() models.QueueParameters { return m.params }
func (m *mm1) Utilization() float64           { return m.rho }

func (m *mm1) L() float64  { return m.rho / (1 - m.rho) }
func (m *mm1) Lq() float64 { return m.L() * m.rho }
func (m *mm1) W() float64  { return 1 / (m.params.ServiceRate - m.params.ArrivalRate) }
func (m *mm1) Wq() float64 { return m.W() * m.rho }

func (m *mm1) Pk(k int) float64 {
	if k < 0 {
		return 0
	}
	return math.Pow(m.rho, float64(k)) * (1 - m.rho)
}

func (m *mm1) P0() float64                   { return 1 - m.rho }
func (m *mm1) EffectiveArrivalRate() float64 { return m.params.ArrivalRate }
func (m *mm1) BlockingProbability() float64  { return 0 }
