package engine

import (
	"container/heap"
	"sync"
)

// EventType represents the type of simulation event
type EventType string

const (
	// EventTypeArrival is a customer entering the system
	EventTypeArrival EventType = "arrival"

	// EventTypeDeparture is a customer leaving the system after service
	EventTypeDeparture EventType = "departure"
)

// Event is a discrete event on the simulation timeline.
type Event struct {
	Type     EventType `json:"type"`
	Time     float64   `json:"time"`
	Customer int       `json:"customer"`
	// Delta is the change in system population the event causes.
	Delta int `json:"delta"`

	seq uint64
}

// Seq is the insertion sequence assigned when the event was scheduled.
func (e *Event) Seq() uint64 {
	return e.seq
}

// EventQueue is a priority queue of events ordered by time, then insertion
// order. Events at the same instant therefore come out in the
// order they were scheduled.
type EventQueue struct {
	events  []*Event
	nextSeq uint64
	mu      sync.RWMutex
}

// NewEventQueue creates a new event queue
func NewEventQueue() *EventQueue {
	eq := &EventQueue{
		events: make([]*Event, 0),
	}
	heap.Init(eq)
	return eq
}

// Len returns the number of events in the queue
func (eq *EventQueue) Len() int {
	return len(eq.events)
}

func (eq *EventQueue) Less(i, j int) bool {
	a, b := eq.events[i], eq.events[j]
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.seq < b.seq
}

func (eq *EventQueue) Swap(i, j int) {
	eq.events[i], eq.events[j] = eq.events[j], eq.events[i]
}

// Push implements heap.Interface; use Schedule instead.
func (eq *EventQueue) Push(x interface{}) {
	eq.events = append(eq.events, x.(*Event))
}

// Pop implements heap.Interface; use Next instead.
func (eq *EventQueue) Pop() interface{} {
	old := eq.events
	n := len(old)
	event := old[n-1]
	old[n-1] = nil // avoid memory leak
	eq.events = old[0 : n-1]
	return event
}

// Schedule adds an event to the queue (thread-safe)
func (eq *EventQueue) Schedule(event *Event) {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	eq.nextSeq++
	event.seq = eq.nextSeq
	heap.Push(eq, event)
}

// Next removes and returns the next event (thread-safe)
func (eq *EventQueue) Next() *Event {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	if eq.Len() == 0 {
		return nil
	}
	return heap.Pop(eq).(*Event)
}

// Size returns the current queue size (thread-safe)
func (eq *EventQueue) Size() int {
	eq.mu.RLock()
	defer eq.mu.RUnlock()
	return eq.Len()
}
