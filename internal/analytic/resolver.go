package analytic

import (
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

// Resolve validates p and builds the matching variant:
//
//	c == 1, K unbounded (or 0) -> M/M/1
//	c == 1, K finite           -> M/M/1/K
//	c  > 1, K unbounded        -> M/M/c
//	c  > 1, K finite           -> M/M/c/K
func Resolve(p models.QueueParameters) (Model, error) {
	p = Normalize(p)
	if err := Validate(p); err != nil {
		return nil, err
	}

	switch {
	case p.Servers == 1 && !p.Capacity.IsFinite():
		return newMM1(p)
	case p.Servers == 1:
		return newMM1K(p)
	case !p.Capacity.IsFinite():
		return newMMC(p)
	default:
		return newMMCK(p)
	}
}

// ResolveRates is Resolve for positional inputs.
func ResolveRates(lambda, mu float64, c int, k models.Capacity) (Model, error) {
	return Resolve(models.QueueParameters{ArrivalRate: lambda, ServiceRate: mu, Servers: c, Capacity: k})
}
