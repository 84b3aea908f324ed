package pipeline

import "testing"

// TestBusSince verifies incremental event reads by sequence.
func TestBusSince(t *testing.T) {
	bus := NewBus(3)
	bus.Publish(Event{Type: EventTypeStatus, Message: "1"})
	bus.Publish(Event{Type: EventTypeStatus, Message: "2"})
	bus.Publish(Event{Type: EventTypeStatus, Message: "3"})

	events := bus.Since(1)
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Seq != 2 || events[1].Seq != 3 {
		t.Fatalf("unexpected seqs: %+v", events)
	}
}

// TestBusCapsHistory verifies buffer limit trimming behavior.
func TestBusCapsHistory(t *testing.T) {
	bus := NewBus(2)
	bus.Publish(Event{Message: "1"})
	bus.Publish(Event{Message: "2"})
	bus.Publish(Event{Message: "3"})

	events := bus.Since(0)
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Message != "2" || events[1].Message != "3" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

// TestBusChannelDelivery verifies live fan-out and seq assignment.
func TestBusChannelDelivery(t *testing.T) {
	bus := NewBus(4)
	published := bus.Publish(Event{Type: EventTypeProgress, Percent: 50})
	if published.Seq != 1 {
		t.Fatalf("seq = %d, want 1", published.Seq)
	}
	if published.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}

	select {
	case got := <-bus.Events():
		if got.Seq != published.Seq || got.Percent != 50 {
			t.Fatalf("unexpected event: %+v", got)
		}
	default:
		t.Fatal("expected event on channel")
	}
}

// TestBusPublishNeverBlocks verifies slow consumers cannot stall publishers.
func TestBusPublishNeverBlocks(t *testing.T) {
	bus := NewBus(2)
	for i := 0; i < 10; i++ {
		bus.Publish(Event{Type: EventTypeStatus})
	}

	// The channel dropped some events; history still holds the newest.
	events := bus.Since(0)
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[1].Seq != 10 {
		t.Fatalf("last seq = %d, want 10", events[1].Seq)
	}
}

// TestEventTerminal verifies terminal event classification.
func TestEventTerminal(t *testing.T) {
	cases := []struct {
		eventType EventType
		want      bool
	}{
		{EventTypeProgress, false},
		{EventTypeStatus, false},
		{EventTypeResult, true},
		{EventTypeError, true},
	}

	for _, tc := range cases {
		if got := (Event{Type: tc.eventType}).Terminal(); got != tc.want {
			t.Fatalf("Terminal(%s) = %v, want %v", tc.eventType, got, tc.want)
		}
	}
}
