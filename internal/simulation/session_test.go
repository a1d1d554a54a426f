package simulation

import (
	"sync"
	"testing"

	"github.com/GoSim-25-26J-441/queueing-core/pkg/logger"
)

func TestSessionReplacesResult(t *testing.T) {
	s := NewSession(newTestSimulator(9))
	if s.Latest() != nil {
		t.Fatal("Latest() before any run should be nil")
	}

	first, err := s.Run(3, 5, 10)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	second, err := s.Run(3, 5, 25)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.Latest() != second || len(s.Latest().Records) != 25 {
		t.Error("Latest() should be the second result")
	}
	if len(first.Records) != 10 {
		t.Error("earlier results must not be modified by later runs")
	}

	if _, err := s.Run(3, 5, 0); err == nil {
		t.Fatal("Run() with zero customers should fail")
	}
	if s.Latest() != second {
		t.Error("a failed run must keep the previous result")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	var wg sync.WaitGroup
	sessions := make([]*Session, 8)
	for i := range sessions {
		sessions[i] = NewSession(New(WithSeed(int64(i+1)), WithLogger(logger.Discard())))
		wg.Add(1)
		go func(s *Session, n int) {
			defer wg.Done()
			if _, err := s.Run(3, 5, n); err != nil {
				t.Errorf("Run() error = %v", err)
			}
		}(sessions[i], 10*(i+1))
	}
	wg.Wait()

	for i, s := range sessions {
		if got := len(s.Latest().Records); got != 10*(i+1) {
			t.Errorf("session %d holds %d records, want %d", i, got, 10*(i+1))
		}
	}
}
