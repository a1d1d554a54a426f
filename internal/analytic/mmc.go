package analytic

import (
	"math"

	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/utils"
)

type mmc struct {
	params models.QueueParameters
	c      int
	r      float64 // λ/μ
	rho    float64 // r/c
	cFact  float64 // c!
	rc     float64 // r^c/c!
	p0     float64
	lq     float64
}

func newMMC(p models.QueueParameters) (*mmc, error) {
	m := &mmc{params: p, c: p.Servers, r: p.ArrivalRate / p.ServiceRate}
	c := float64(m.c)
	m.rho = m.r / c
	m.cFact = utils.Factorial(m.c)

	var sum float64
	term := 1.0
	for i := 0; i < m.c; i++ {
		sum += term
		term *= m.r / float64(i+1)
	}
	m.rc = term
	if m.rho < 1 {
		m.p0 = 1 / (sum + m.rc/(1-m.rho))
	} else {
		slack := c*p.ServiceRate - p.ArrivalRate
		if slack == 0 {
			return nil, &models.DegenerateComputationError{Op: "M/M/c", Reason: "cμ-λ is zero"}
		}
		m.p0 = 1 / (sum + m.rc*(c*p.ServiceRate/slack))
	}

	oneMinus := 1 - m.rho
	if oneMinus == 0 {
		return nil, &models.DegenerateComputationError{Op: "M/M/c", Reason: "ρ is one"}
	}
	// r^(c+1)/(c·c!) folded into rc·ρ
	m.lq = m.rc * m.rho / (oneMinus * oneMinus) * m.p0

	if err := checkFinite("M/M/c", m.cFact, m.rc, m.p0, m.lq); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *mmc) sealed() {}

func (m *mmc) Variant() Variant               { return MMC }
func (m *mmc) Params() models.QueueParameters { return m.params }
func (m *mmc) Utilization() float64           { return m.rho }

func (m *mmc) Lq() float64 { return m.lq }
func (m *mmc) L() float64  { return m.lq + m.r }
func (m *mmc) Wq() float64 { return m.lq / m.params.ArrivalRate }
func (m *mmc) W() float64  { return m.Wq() + 1/m.params.ServiceRate }

func (m *mmc) Pk(k int) float64 {
	return multiServerPk(k, m.c, m.r, m.rho, m.rc, m.p0)
}

func (m *mmc) P0() float64                   { return m.p0 }
func (m *mmc) EffectiveArrivalRate() float64 { return m.params.ArrivalRate }
func (m *mmc) BlockingProbability() float64  { return 0 }

// multiServerPk is r^k/k!·P0 below c servers and r^k/(c^(k-c)·c!)·P0 from c
// up. The second form is evaluated as (r^c/c!)·ρ^(k-c)·P0 so the tail stays
// finite for large k.
func multiServerPk(k, c int, r, rho, rc, p0 float64) float64 {
	if k < 0 {
		return 0
	}
	if k < c {
		return math.Pow(r, float64(k)) / utils.Factorial(k) * p0
	}
	return rc * math.Pow(rho, float64(k-c)) * p0
}
