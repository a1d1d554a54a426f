package analytic

import (
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/utils"
)

// Normalize applies the single-server convention that K = 0 means "no limit".
func Normalize(p models.QueueParameters) models.QueueParameters {
	if p.Servers == 1 && p.Capacity.IsFinite() && p.Capacity == 0 {
		p.Capacity = models.Unbounded
	}
	return p
}

// Validate is the one parameter check every variant relies on. It expects
// normalized parameters.
func Validate(p models.QueueParameters) error {
	if !(p.ArrivalRate > 0) || !utils.IsFinite(p.ArrivalRate) {
		return &models.InvalidParameterError{Param: "arrival_rate", Value: p.ArrivalRate, Reason: "must be a positive number"}
	}
	if !(p.ServiceRate > 0) || !utils.IsFinite(p.ServiceRate) {
		return &models.InvalidParameterError{Param: "service_rate", Value: p.ServiceRate, Reason: "must be a positive number"}
	}
	if p.Servers <= 0 {
		return &models.InvalidParameterError{Param: "servers", Value: p.Servers, Reason: "must be a positive integer"}
	}

	if p.Capacity.IsFinite() {
		k := float64(p.Capacity)
		if math.IsNaN(k) || k <= 0 || k != math.Trunc(k) {
			return &models.InvalidParameterError{Param: "capacity", Value: p.Capacity, Reason: "must be a positive integer"}
		}
		if k > math.MaxInt32 {
			return &models.InvalidParameterError{Param: "capacity", Value: p.Capacity, Reason: fmt.Sprintf("must not exceed %d", math.MaxInt32)}
		}
		if p.Capacity.Int() < p.Servers {
			return &models.InvalidParameterError{Param: "capacity", Value: p.Capacity, Reason: "must be at least the number of servers"}
		}
		// Blocking caps the population, so finite buffers are stable for any λ.
		return nil
	}

	if p.ArrivalRate >= p.ServiceRate*float64(p.Servers) {
		return &models.InvalidParameterError{
			Param:  "arrival_rate",
			Value:  p.ArrivalRate,
			Reason: "must be less than service_rate*servers for an unbounded queue to reach steady state",
		}
	}
	return nil
}
