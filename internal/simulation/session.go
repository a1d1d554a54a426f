package simulation

import (
	"sync"
)

// Session owns the latest result of one logical user session, the dataset a
// chart is drawn from. Every Run replaces it in full. Separate sessions never
// share data.
type Session struct {
	sim *Simulator

	mu     sync.RWMutex
	latest *Result
}

// NewSession binds a session to a simulator.
func NewSession(sim *Simulator) *Session {
	return &Session{sim: sim}
}

// Run simulates and, on success, replaces the session's result. On error the
// previous result is kept.
func (s *Session) Run(lambda, mu float64, n int) (*Result, error) {
	res, err := s.sim.Simulate(lambda, mu, n)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.latest = res
	s.mu.Unlock()
	return res, nil
}

// Latest returns the most recent result, or nil before the first run.
func (s *Session) Latest() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}
