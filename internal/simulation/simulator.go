// Package simulation replays a FIFO single-server queue from exponential
// interarrival and service draws, producing per-customer records, aggregate
// means and the number-in-system step function.
package simulation

import (
	"log/slog"

	"github.com/GoSim-25-26J-441/queueing-core/pkg/logger"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/utils"
)

// DisplayScale multiplies every interarrival and service draw. It keeps the
// reported times in the units the tool has always printed; it is not a rate change.
const DisplayScale = 0.1

// Result is everything one Simulate call produced.
type Result struct {
	Params    models.QueueParameters    `json:"params"`
	Customers int                       `json:"customers"`
	Seed      int64                     `json:"seed"`
	Records   []models.SimulationRecord `json:"records"`
	Stats     models.AggregateStats     `json:"stats"`
	Occupancy *Series                   `json:"-"`
}

// Simulator draws from its own random source. A Simulator is safe for
// concurrent use; each call returns an independent Result.
type Simulator struct {
	rng    *utils.RandSource
	logger *slog.Logger
}

// Option configures a Simulator
type Option func(*Simulator)

// WithSeed fixes the random seed. Two simulators with the same seed produce
// identical results for identical inputs.
func WithSeed(seed int64) Option {
	return func(s *Simulator) {
		s.rng = utils.NewRandSource(seed)
	}
}

// WithRandSource shares an existing random source.
func WithRandSource(rng *utils.RandSource) Option {
	return func(s *Simulator) {
		s.rng = rng
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = l
	}
}

// New creates a simulator. Without WithSeed the source is seeded from the clock.
func New(opts ...Option) *Simulator {
	s := &Simulator{logger: logger.Default}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = utils.NewRandSource(0)
	}
	return s
}

// Seed returns the seed of the underlying random source.
func (s *Simulator) Seed() int64 {
	return s.rng.Seed()
}

// Simulate runs n customers through a single server with arrival rate lambda
// and service rate mu. All n interarrival gaps are drawn before the n service
// times.
func (s *Simulator) Simulate(lambda, mu float64, n int) (*Result, error) {
	if err := validate(lambda, mu, n); err != nil {
		return nil, err
	}

	gaps := s.rng.ExpSamples(n, lambda, DisplayScale)
	services := s.rng.ExpSamples(n, mu, DisplayScale)

	records := buildRecords(gaps, services)
	occupancy, err := buildOccupancy(records, s.logger)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Params:    models.NewQueueParameters(lambda, mu),
		Customers: n,
		Seed:      s.rng.Seed(),
		Records:   records,
		Stats:     aggregate(records),
		Occupancy: occupancy,
	}

	s.logger.Debug("Simulation completed",
		"arrival_rate", lambda,
		"service_rate", mu,
		"customers", n,
		"mean_time_in_system", res.Stats.MeanTimeInSystem,
		"occupancy_points", occupancy.Len())
	return res, nil
}

func validate(lambda, mu float64, n int) error {
	if !(lambda > 0) || !utils.IsFinite(lambda) {
		return &models.InvalidParameterError{Param: "arrival_rate", Value: lambda, Reason: "must be a positive number"}
	}
	if !(mu > 0) || !utils.IsFinite(mu) {
		return &models.InvalidParameterError{Param: "service_rate", Value: mu, Reason: "must be a positive number"}
	}
	if n <= 0 {
		return &models.InvalidParameterError{Param: "customers", Value: n, Reason: "must be a positive integer"}
	}
	return nil
}
