package simd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoSim-25-26J-441/queueing-core/internal/analytic"
	"github.com/GoSim-25-26J-441/queueing-core/internal/metrics"
	"github.com/GoSim-25-26J-441/queueing-core/internal/simulation"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/config"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

// SolveRequest asks for the closed-form measures of a queue.
type SolveRequest struct {
	RunID       string                 `json:"run_id,omitempty"`
	Params      models.QueueParameters `json:"params"`
	CallbackURL string                 `json:"callback_url,omitempty"`
}

// SimulateRequest asks for a single-server simulation run.
type SimulateRequest struct {
	RunID       string  `json:"run_id,omitempty"`
	ArrivalRate float64 `json:"arrival_rate"`
	ServiceRate float64 `json:"service_rate"`
	Customers   int     `json:"customers,omitempty"`
	// Seed 0 falls back to the configured seed, then to the clock.
	Seed        int64  `json:"seed,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// Service executes solve, simulate and compare runs synchronously, records
// them in the store and announces every status change on the bus.
type Service struct {
	store     *RunStore
	bus       *EventBus
	collector *metrics.Collector
	cfg       config.SimulationConfig
	logger    *slog.Logger
}

// NewService wires a service. collector may be nil.
func NewService(store *RunStore, bus *EventBus, collector *metrics.Collector, cfg config.SimulationConfig, log *slog.Logger) *Service {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &Service{store: store, bus: bus, collector: collector, cfg: cfg, logger: log}
}

// Store exposes the run store to the transports.
func (s *Service) Store() *RunStore { return s.store }

// Bus exposes the event bus to the transports.
func (s *Service) Bus() *EventBus { return s.bus }

// Collector exposes the run counters.
func (s *Service) Collector() *metrics.Collector { return s.collector }

// Solve resolves the model and stores its measures.
func (s *Service) Solve(ctx context.Context, req SolveRequest) (*RunRecord, error) {
	params := analytic.Normalize(req.Params)
	return s.execute(ctx, req.RunID, models.RunKindSolve, params, 0, req.CallbackURL, func(rec *RunRecord) error {
		m, err := analytic.Resolve(params)
		if err != nil {
			return err
		}
		measures := analytic.Measure(m)
		rec.Measures = &measures
		return nil
	})
}

// Simulate runs the simulator; the run owns its own Result.
func (s *Service) Simulate(ctx context.Context, req SimulateRequest) (*RunRecord, error) {
	customers, err := s.customers(req.Customers)
	if err != nil {
		return nil, err
	}
	params := models.NewQueueParameters(req.ArrivalRate, req.ServiceRate)
	return s.execute(ctx, req.RunID, models.RunKindSimulate, params, customers, req.CallbackURL, func(rec *RunRecord) error {
		res, err := s.simulator(req.Seed).Simulate(req.ArrivalRate, req.ServiceRate, customers)
		if err != nil {
			return err
		}
		rec.Run.Seed = res.Seed
		rec.Result = res
		rec.Stats = &res.Stats
		return nil
	})
}

// Compare solves M/M/1 and simulates the same rates, then lines them up.
func (s *Service) Compare(ctx context.Context, req SimulateRequest) (*RunRecord, error) {
	customers, err := s.customers(req.Customers)
	if err != nil {
		return nil, err
	}
	params := models.NewQueueParameters(req.ArrivalRate, req.ServiceRate)
	return s.execute(ctx, req.RunID, models.RunKindCompare, params, customers, req.CallbackURL, func(rec *RunRecord) error {
		m, err := analytic.Resolve(params)
		if err != nil {
			return err
		}
		res, err := s.simulator(req.Seed).Simulate(req.ArrivalRate, req.ServiceRate, customers)
		if err != nil {
			return err
		}
		observed := metrics.Observe(res)
		cmp, err := metrics.Compare(m, observed)
		if err != nil {
			return err
		}
		measures := analytic.Measure(m)
		rec.Run.Seed = res.Seed
		rec.Measures = &measures
		rec.Result = res
		rec.Stats = &res.Stats
		rec.Observed = &observed
		rec.Comparison = &cmp
		return nil
	})
}

// Get returns a stored run.
func (s *Service) Get(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}
	rec, ok := s.store.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return rec, nil
}

// List returns stored runs, newest first.
func (s *Service) List(f ListFilter) []*RunRecord {
	return s.store.List(f)
}

// SimulationResult returns the simulation output of a simulate or compare run.
func (s *Service) SimulationResult(runID string) (*simulation.Result, error) {
	rec, err := s.Get(runID)
	if err != nil {
		return nil, err
	}
	if rec.Result == nil {
		return nil, fmt.Errorf("%w: %s is a %s run in state %s", ErrNoSimulation, runID, rec.Run.Kind, rec.Run.Status)
	}
	return rec.Result, nil
}

func (s *Service) customers(n int) (int, error) {
	if n == 0 {
		n = s.cfg.DefaultCustomers
	}
	if s.cfg.MaxCustomers > 0 && n > s.cfg.MaxCustomers {
		return 0, &models.InvalidParameterError{Param: "customers", Value: n, Reason: fmt.Sprintf("exceeds the limit of %d", s.cfg.MaxCustomers)}
	}
	return n, nil
}

func (s *Service) simulator(seed int64) *simulation.Simulator {
	if seed == 0 {
		seed = s.cfg.Seed
	}
	return simulation.New(simulation.WithSeed(seed), simulation.WithLogger(s.logger))
}

// execute runs work between the running and terminal transitions. A failed
// run stays in the store and its error is returned to the caller.
func (s *Service) execute(ctx context.Context, runID string, kind models.RunKind, params models.QueueParameters, customers int, callbackURL string, work func(*RunRecord) error) (*RunRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if callbackURL != "" {
		if err := validateCallbackURL(callbackURL); err != nil {
			return nil, &models.InvalidParameterError{Param: "callback_url", Value: callbackURL, Reason: err.Error()}
		}
	}

	rec, err := s.store.Create(runID, kind, params, customers)
	if err != nil {
		return nil, err
	}
	if callbackURL != "" {
		_, _ = s.store.Update(rec.Run.ID, func(r *RunRecord) { r.CallbackURL = callbackURL })
	}
	s.transition(rec.Run.ID, kind, models.RunStatusPending, models.RunStatusRunning, "")

	start := time.Now()
	var output RunRecord
	workErr := work(&output)
	s.collector.RecordRun(string(kind), time.Since(start), customers, workErr)

	if workErr != nil {
		s.logger.Info("run failed", "run_id", rec.Run.ID, "kind", kind, "error", workErr)
		s.transition(rec.Run.ID, kind, models.RunStatusRunning, models.RunStatusFailed, workErr.Error())
		return nil, workErr
	}

	if _, err := s.store.Update(rec.Run.ID, func(r *RunRecord) {
		if output.Run.Seed != 0 {
			r.Run.Seed = output.Run.Seed
		}
		r.Measures = output.Measures
		r.Result = output.Result
		r.Stats = output.Stats
		r.Observed = output.Observed
		r.Comparison = output.Comparison
	}); err != nil {
		return nil, err
	}
	final := s.transition(rec.Run.ID, kind, models.RunStatusRunning, models.RunStatusCompleted, "")
	s.logger.Info("run completed", "run_id", rec.Run.ID, "kind", kind, "elapsed", time.Since(start))
	if final == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, rec.Run.ID)
	}
	return final, nil
}

func (s *Service) transition(runID string, kind models.RunKind, from, to models.RunStatus, errMsg string) *RunRecord {
	rec, err := s.store.SetStatus(runID, to, errMsg)
	if err != nil {
		// evicted between steps; nothing left to announce
		s.logger.Warn("run status update failed", "run_id", runID, "status", to, "error", err)
		return nil
	}
	if s.bus == nil {
		return rec
	}
	ev := RunEvent{RunID: runID, Kind: kind, Status: to, Previous: from, Error: errMsg, At: time.Now().UTC()}
	if err := s.bus.Publish(ev); err != nil {
		s.logger.Warn("run event not published", "run_id", runID, "error", err)
	}
	return rec
}
