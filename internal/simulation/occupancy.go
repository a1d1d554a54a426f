package simulation

import (
	"context"
	"iter"
	"log/slog"

	"github.com/GoSim-25-26J-441/queueing-core/internal/engine"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

// Series is the number-in-system step function: one point per arrival or
// departure, holding the population right after that event. It is read-only.
type Series struct {
	points []models.OccupancyPoint
}

// NewSeries wraps points in a Series. The slice is copied.
func NewSeries(points []models.OccupancyPoint) *Series {
	return &Series{points: append([]models.OccupancyPoint(nil), points...)}
}

// All yields the points in time order. Each call starts from the beginning.
func (s *Series) All() iter.Seq[models.OccupancyPoint] {
	return func(yield func(models.OccupancyPoint) bool) {
		for _, p := range s.points {
			if !yield(p) {
				return
			}
		}
	}
}

// Points returns a copy of the points.
func (s *Series) Points() []models.OccupancyPoint {
	return append([]models.OccupancyPoint(nil), s.points...)
}

// Len returns the number of points.
func (s *Series) Len() int {
	return len(s.points)
}

// Final returns the last point. ok is false for an empty series.
func (s *Series) Final() (p models.OccupancyPoint, ok bool) {
	if len(s.points) == 0 {
		return p, false
	}
	return s.points[len(s.points)-1], true
}

// buildOccupancy replays +1 at every arrival and -1 at every completion on the
// event engine. Events at the same instant are applied in the order they were
// generated: arrival i, then departure i, then customer i+1.
func buildOccupancy(records []models.SimulationRecord, log *slog.Logger) (*Series, error) {
	eng := engine.NewEngine()
	eng.SetLogger(log)

	points := make([]models.OccupancyPoint, 0, 2*len(records))
	var population int
	step := func(e *engine.Engine, ev *engine.Event) error {
		population += ev.Delta
		points = append(points, models.OccupancyPoint{Time: e.Now(), Count: population})
		return nil
	}
	eng.RegisterHandler(engine.EventTypeArrival, step)
	eng.RegisterHandler(engine.EventTypeDeparture, step)

	for _, r := range records {
		if err := eng.ScheduleAt(engine.EventTypeArrival, r.ArrivalTime, r.Index, +1); err != nil {
			return nil, err
		}
		if err := eng.ScheduleAt(engine.EventTypeDeparture, r.CompletionTime, r.Index, -1); err != nil {
			return nil, err
		}
	}
	if err := eng.Run(context.Background()); err != nil {
		return nil, err
	}
	stats := eng.GetStats()
	log.Debug("occupancy replayed",
		"events_scheduled", stats["events_scheduled"],
		"events_processed", stats["events_processed"])
	return &Series{points: points}, nil
}
