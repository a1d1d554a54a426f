package utils

import (
	"math"
	"time"
)

// BackoffKind selects how retry delays grow
type BackoffKind string

const (
	BackoffConstant    BackoffKind = "constant"
	BackoffLinear      BackoffKind = "linear"
	BackoffExponential BackoffKind = "exponential"
)

// Backoff computes retry delays for webhook delivery.
type Backoff struct {
	Kind   BackoffKind
	Base   time.Duration
	Max    time.Duration
	Jitter bool
}

// NewBackoff creates a backoff from config values. Unknown kinds become exponential,
// and a zero max defaults to 30s.
func NewBackoff(kind string, baseMs, maxMs int, jitter bool) Backoff {
	b := Backoff{
		Kind:   BackoffKind(kind),
		Base:   time.Duration(baseMs) * time.Millisecond,
		Max:    time.Duration(maxMs) * time.Millisecond,
		Jitter: jitter,
	}
	switch b.Kind {
	case BackoffConstant, BackoffLinear, BackoffExponential:
	default:
		b.Kind = BackoffExponential
	}
	if b.Max == 0 {
		b.Max = 30 * time.Second
	}
	return b
}

// NextDelay returns the delay before retry number attempt (0-indexed).
func (b Backoff) NextDelay(attempt int) time.Duration {
	var delay float64
	switch b.Kind {
	case BackoffConstant:
		return b.Base
	case BackoffLinear:
		delay = float64(b.Base) * float64(attempt+1)
	default:
		delay = float64(b.Base) * math.Pow(2, float64(attempt))
	}
	if delay > float64(b.Max) {
		delay = float64(b.Max)
	}
	if b.Jitter {
		// between 0.5x and 1.5x
		delay *= 0.5 + Float64()
	}
	return time.Duration(delay)
}
