package engine

import (
	"testing"
)

func TestNewEventQueue(t *testing.T) {
	eq := NewEventQueue()
	if eq == nil {
		t.Fatal("NewEventQueue returned nil")
	}
	if eq.Size() != 0 {
		t.Error("New event queue should be empty")
	}
	if eq.Next() != nil {
		t.Error("Next on an empty queue should return nil")
	}
}

func TestEventQueueOrdersByTime(t *testing.T) {
	eq := NewEventQueue()
	eq.Schedule(&Event{Type: EventTypeArrival, Time: 1.0, Customer: 1})
	eq.Schedule(&Event{Type: EventTypeDeparture, Time: 2.0, Customer: 2})
	eq.Schedule(&Event{Type: EventTypeArrival, Time: 0.5, Customer: 3})

	if eq.Size() != 3 {
		t.Fatalf("Expected queue size 3, got %d", eq.Size())
	}
	for _, want := range []int{3, 1, 2} {
		if got := eq.Next().Customer; got != want {
			t.Errorf("Expected customer %d, got %d", want, got)
		}
	}
	if eq.Size() != 0 {
		t.Error("Queue should be empty after draining")
	}
}

func TestEventQueueTiesKeepInsertionOrder(t *testing.T) {
	eq := NewEventQueue()
	// interleave types at one instant; insertion order must win
	for i := 0; i < 20; i++ {
		typ := EventTypeArrival
		if i%3 == 0 {
			typ = EventTypeDeparture
		}
		eq.Schedule(&Event{Type: typ, Time: 4.2, Customer: i})
	}
	for i := 0; i < 20; i++ {
		ev := eq.Next()
		if ev.Customer != i {
			t.Fatalf("position %d: got customer %d", i, ev.Customer)
		}
		if ev.Seq() != uint64(i+1) {
			t.Errorf("position %d: Seq() = %d", i, ev.Seq())
		}
	}
}
