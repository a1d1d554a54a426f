package simd

import (
	"testing"

	"github.com/GoSim-25-26J-441/queueing-core/internal/metrics"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/config"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	log := logger.Discard()
	bus := NewEventBus(log)
	t.Cleanup(func() { _ = bus.Close() })
	cfg := config.SimulationConfig{Seed: 42, DefaultCustomers: 20, MaxCustomers: 10000}
	return NewService(NewRunStore(100), bus, metrics.NewCollector(), cfg, log)
}
