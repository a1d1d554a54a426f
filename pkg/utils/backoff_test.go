package utils

import (
	"testing"
	"time"
)

func TestBackoffNextDelay(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		attempt  int
		expected time.Duration
	}{
		{"constant", "constant", 5, 100 * time.Millisecond},
		{"linear first", "linear", 0, 100 * time.Millisecond},
		{"linear third", "linear", 2, 300 * time.Millisecond},
		{"linear capped", "linear", 50, time.Second},
		{"exponential first", "exponential", 0, 100 * time.Millisecond},
		{"exponential fourth", "exponential", 3, 800 * time.Millisecond},
		{"exponential capped", "exponential", 10, time.Second},
		{"unknown is exponential", "bogus", 1, 200 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackoff(tt.kind, 100, 1000, false)
			if got := b.NextDelay(tt.attempt); got != tt.expected {
				t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestBackoffDefaultMax(t *testing.T) {
	b := NewBackoff("exponential", 1000, 0, false)
	if b.Max != 30*time.Second {
		t.Errorf("expected 30s default max, got %v", b.Max)
	}
	if got := b.NextDelay(20); got != 30*time.Second {
		t.Errorf("expected cap at 30s, got %v", got)
	}
}

func TestBackoffJitterRange(t *testing.T) {
	b := NewBackoff("exponential", 100, 10000, true)
	for attempt := 0; attempt < 5; attempt++ {
		base := time.Duration(100*(1<<attempt)) * time.Millisecond
		delay := b.NextDelay(attempt)
		if delay < base/2 || delay > base*3/2 {
			t.Errorf("attempt %d: delay %v outside [%v, %v]", attempt, delay, base/2, base*3/2)
		}
	}
}
