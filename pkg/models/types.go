package models

import (
	"time"
)

// QueueParameters is the immutable input shared by the resolver and the simulator.
type QueueParameters struct {
	ArrivalRate float64  `json:"arrival_rate" yaml:"arrival_rate"`
	ServiceRate float64  `json:"service_rate" yaml:"service_rate"`
	Servers     int      `json:"servers" yaml:"servers"`
	Capacity    Capacity `json:"capacity" yaml:"capacity"`
}

// NewQueueParameters builds parameters for an unbounded single-server queue.
func NewQueueParameters(lambda, mu float64) QueueParameters {
	return QueueParameters{
		ArrivalRate: lambda,
		ServiceRate: mu,
		Servers:     1,
		Capacity:    Unbounded,
	}
}

// WithServers returns a copy with the server count replaced.
func (p QueueParameters) WithServers(c int) QueueParameters {
	p.Servers = c
	return p
}

// WithCapacity returns a copy with the capacity replaced.
func (p QueueParameters) WithCapacity(k Capacity) QueueParameters {
	p.Capacity = k
	return p
}

// SimulationRecord is the timing of one simulated customer.
type SimulationRecord struct {
	Index            int     `json:"index"`
	InterarrivalTime float64 `json:"interarrival_time"`
	ArrivalTime      float64 `json:"arrival_time"`
	ServiceTime      float64 `json:"service_time"`
	ServiceStartTime float64 `json:"service_start_time"`
	CompletionTime   float64 `json:"completion_time"`
	TimeInQueue      float64 `json:"time_in_queue"`
	TimeInSystem     float64 `json:"time_in_system"`
	ServerIdleTime   float64 `json:"server_idle_time"`
}

// AggregateStats are the per-run means derived from the records.
type AggregateStats struct {
	MeanWaitingTime            float64 `json:"mean_waiting_time"`
	MeanServiceTime            float64 `json:"mean_service_time"`
	MeanInterarrivalTime       float64 `json:"mean_interarrival_time"`
	MeanWaitingTimeGivenWaited float64 `json:"mean_waiting_time_given_waited"`
	MeanTimeInSystem           float64 `json:"mean_time_in_system"`
}

// OccupancyPoint is one step of the number-in-system step function.
type OccupancyPoint struct {
	Time  float64 `json:"time"`
	Count int     `json:"count"`
}

// RunKind identifies what a daemon run computed
type RunKind string

const (
	RunKindSolve    RunKind = "solve"
	RunKindSimulate RunKind = "simulate"
	RunKindCompare  RunKind = "compare"
)

// RunStatus represents the status of a daemon run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// IsTerminal reports whether no further transitions are expected.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// Run is the daemon-side bookkeeping for one solve/simulate/compare request.
type Run struct {
	ID        string            `json:"id"`
	Kind      RunKind           `json:"kind"`
	Status    RunStatus         `json:"status"`
	Params    QueueParameters   `json:"params"`
	Customers int               `json:"customers,omitempty"`
	Seed      int64             `json:"seed,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	StartedAt time.Time         `json:"started_at,omitempty"`
	EndedAt   time.Time         `json:"ended_at,omitempty"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
