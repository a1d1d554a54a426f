package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter marks malformed or out-of-domain numeric input.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDegenerateComputation marks a formula evaluated outside its domain.
	ErrDegenerateComputation = errors.New("degenerate computation")
)

// InvalidParameterError names the offending input.
type InvalidParameterError struct {
	Param  string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Param, e.Value, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// DegenerateComputationError reports a division by zero or a non-finite intermediate.
type DegenerateComputationError struct {
	Op     string
	Reason string
}

func (e *DegenerateComputationError) Error() string {
	return fmt.Sprintf("degenerate computation in %s: %s", e.Op, e.Reason)
}

func (e *DegenerateComputationError) Is(target error) bool {
	return target == ErrDegenerateComputation
}
