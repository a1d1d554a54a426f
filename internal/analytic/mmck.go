package analytic

import (
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/utils"
)

type mmck struct {
	params models.QueueParameters
	c, k   int
	r      float64
	rho    float64
	cFact  float64
	rc     float64 // r^c/c!
	p0     float64

	blocking  float64
	lambdaEff float64
	lq        float64
	l         float64
}

func newMMCK(p models.QueueParameters) (*mmck, error) {
	m := &mmck{params: p, c: p.Servers, k: p.Capacity.Int(), r: p.ArrivalRate / p.ServiceRate}
	c := float64(m.c)
	m.rho = m.r / c
	m.cFact = utils.Factorial(m.c)

	// head = Σ_{i<c} r^i/i!, busy = Σ_{i<c} (c-i)·r^i/i!
	var head, busy float64
	term := 1.0
	for i := 0; i < m.c; i++ {
		head += term
		busy += float64(m.c-i) * term
		term *= m.r / float64(i+1)
	}
	m.rc = term

	// the queue holds 0..K-c customers with weights ρ^j
	queueCap := m.k - m.c
	tail := geomSum(m.rho, queueCap+1)
	m.p0 = 1 / (head + m.rc*tail)

	m.blocking = m.Pk(m.k)
	m.lambdaEff = p.ArrivalRate * (1 - m.blocking)

	m.lq = m.rc * m.p0 * tail * geomMean(m.rho, queueCap)
	m.l = m.lq + c - m.p0*busy

	if err := checkFinite("M/M/c/K", m.cFact, m.rc, m.p0, m.blocking, m.lambdaEff, m.lq, m.l); err != nil {
		return nil, err
	}
	if m.lambdaEff <= 0 {
		return nil, &models.DegenerateComputationError{Op: "M/M/c/K", Reason: "effective arrival rate is zero"}
	}
	return m, nil
}

func (m *mmck) sealed() {}

func (m *mmck) Variant() Variant               { return MMCK }
func (m *mmck) Params() models.QueueParameters { return m.params }
func (m *mmck) Utilization() float64           { return m.rho }

func (m *mmck) L() float64  { return m.l }
func (m *mmck) Lq() float64 { return m.lq }
func (m *mmck) W() float64  { return m.l / m.lambdaEff }
func (m *mmck) Wq() float64 { return m.lq / m.lambdaEff }

func (m *mmck) Pk(n int) float64 {
	if n > m.k {
		return 0
	}
	return multiServerPk(n, m.c, m.r, m.rho, m.rc, m.p0)
}

func (m *mmck) P0() float64                   { return m.p0 }
func (m *mmck) EffectiveArrivalRate() float64 { return m.lambdaEff }
func (m *mmck) BlockingProbability() float64  { return m.blocking }
