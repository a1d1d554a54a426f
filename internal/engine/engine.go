package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/GoSim-25-26J-441/queueing-core/pkg/logger"
)

// ErrTimeReversal is returned when an event is scheduled before the current clock.
var ErrTimeReversal = errors.New("event scheduled in the past")

// Engine drains an EventQueue in timestamp order, advancing a float64 clock
// and dispatching each event to the handler registered for its type.
type Engine struct {
	eventQueue *EventQueue
	clock      float64
	handlers   map[EventType]EventHandler
	logger     *slog.Logger
	scheduled  int64
	processed  int64
}

// EventHandler is a function that handles a specific event type
type EventHandler func(*Engine, *Event) error

// NewEngine creates an engine with its clock at zero.
func NewEngine() *Engine {
	return &Engine{
		eventQueue: NewEventQueue(),
		handlers:   make(map[EventType]EventHandler),
		logger:     logger.Default,
	}
}

// SetLogger sets the engine's logger
func (e *Engine) SetLogger(l *slog.Logger) {
	e.logger = l
}

// RegisterHandler registers an event handler
func (e *Engine) RegisterHandler(eventType EventType, handler EventHandler) {
	e.handlers[eventType] = handler
}

// ScheduleEvent schedules an event. Events earlier than the current clock are rejected.
func (e *Engine) ScheduleEvent(event *Event) error {
	if event.Time < e.clock {
		return fmt.Errorf("%w: %s at %g, clock %g", ErrTimeReversal, event.Type, event.Time, e.clock)
	}
	atomic.AddInt64(&e.scheduled, 1)
	e.eventQueue.Schedule(event)
	return nil
}

// ScheduleAt schedules an event for a customer at an absolute time
func (e *Engine) ScheduleAt(eventType EventType, at float64, customer, delta int) error {
	return e.ScheduleEvent(&Event{
		Type:     eventType,
		Time:     at,
		Customer: customer,
		Delta:    delta,
	})
}

// Run processes events until the queue is empty or ctx is cancelled. The
// first handler error stops the loop and is returned.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Debug("Starting event loop", "queued", e.eventQueue.Size())

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("event loop cancelled at t=%g: %w", e.clock, ctx.Err())
		default:
		}

		event := e.eventQueue.Next()
		if event == nil {
			break
		}
		e.clock = event.Time
		atomic.AddInt64(&e.processed, 1)

		handler, ok := e.handlers[event.Type]
		if !ok {
			e.logger.Warn("No handler for event type",
				"event_type", event.Type,
				"customer", event.Customer)
			continue
		}
		if err := handler(e, event); err != nil {
			return fmt.Errorf("handling %s for customer %d at t=%g: %w", event.Type, event.Customer, event.Time, err)
		}
	}

	e.logger.Debug("Event loop completed",
		"sim_time", e.clock,
		"events_processed", atomic.LoadInt64(&e.processed))
	return nil
}

// Now returns the current simulation clock
func (e *Engine) Now() float64 {
	return e.clock
}

// GetStats returns current engine counters
func (e *Engine) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"sim_time":         e.clock,
		"events_in_queue":  e.eventQueue.Size(),
		"events_scheduled": atomic.LoadInt64(&e.scheduled),
		"events_processed": atomic.LoadInt64(&e.processed),
	}
}
