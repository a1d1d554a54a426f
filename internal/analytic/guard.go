package analytic

import (
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/utils"
)

// checkFinite fails construction when a memoized constant overflowed, which
// happens once c! or r^K leave float64 range.
func checkFinite(op string, values ...float64) error {
	if utils.AllFinite(values...) {
		return nil
	}
	return &models.DegenerateComputationError{Op: op, Reason: "intermediate value is not finite (c or K too large)"}
}
