package simulation

import (
	"math"

	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/utils"
)

// buildRecords applies the single-server recurrence. The first customer
// arrives at 0 and its drawn gap is discarded.
func buildRecords(gaps, services []float64) []models.SimulationRecord {
	records := make([]models.SimulationRecord, len(gaps))
	var prevCompletion float64
	for i := range records {
		r := &records[i]
		r.Index = i + 1
		r.ServiceTime = services[i]

		if i > 0 {
			r.InterarrivalTime = gaps[i]
			r.ArrivalTime = records[i-1].ArrivalTime + gaps[i]
			r.ServerIdleTime = math.Max(0, r.ArrivalTime-prevCompletion)
		}
		r.ServiceStartTime = math.Max(r.ArrivalTime, prevCompletion)
		r.CompletionTime = r.ServiceStartTime + r.ServiceTime
		r.TimeInQueue = r.ServiceStartTime - r.ArrivalTime
		r.TimeInSystem = r.CompletionTime - r.ArrivalTime

		prevCompletion = r.CompletionTime
	}
	return records
}

func aggregate(records []models.SimulationRecord) models.AggregateStats {
	n := len(records)
	waits := make([]float64, 0, n)
	services := make([]float64, 0, n)
	inSystem := make([]float64, 0, n)
	gaps := make([]float64, 0, n)
	var waited []float64

	for i, r := range records {
		waits = append(waits, r.TimeInQueue)
		services = append(services, r.ServiceTime)
		inSystem = append(inSystem, r.TimeInSystem)
		if i > 0 {
			gaps = append(gaps, r.InterarrivalTime)
		}
		if r.TimeInQueue > 0 {
			waited = append(waited, r.TimeInQueue)
		}
	}

	// utils.Mean is 0 for an empty slice, which covers a single customer
	// and the nobody-waited case.
	return models.AggregateStats{
		MeanWaitingTime:            utils.Mean(waits),
		MeanServiceTime:            utils.Mean(services),
		MeanInterarrivalTime:       utils.Mean(gaps),
		MeanWaitingTimeGivenWaited: utils.Mean(waited),
		MeanTimeInSystem:           utils.Mean(inSystem),
	}
}
