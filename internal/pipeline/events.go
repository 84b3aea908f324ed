package pipeline

import (
	"sync"
	"time"
)

// EventType classifies messages emitted during run execution.
type EventType string

const (
	EventTypeProgress EventType = "progress"
	EventTypeStatus   EventType = "status"
	EventTypeResult   EventType = "result"
	EventTypeError    EventType = "error"
)

// Event is a sequenced payload consumed by subscribers. Result and error
// events are terminal; a run emits exactly one of them, always last.
type Event struct {
	Seq        int64     `json:"seq"`
	Timestamp  time.Time `json:"timestamp"`
	RunID      string    `json:"runId"`
	Type       EventType `json:"type"`
	Percent    float64   `json:"percent,omitempty"`
	Message    string    `json:"message,omitempty"`
	OutputPath string    `json:"outputPath,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
	Partial    bool      `json:"partial,omitempty"`
}

// Terminal reports whether the event ends its run.
func (e Event) Terminal() bool {
	return e.Type == EventTypeResult || e.Type == EventTypeError
}

// Bus stores recent events, provides incremental reads, and fans out to a
// buffered channel for live consumers.
type Bus struct {
	mu        sync.RWMutex
	nextSeq   int64
	maxEvents int
	events    []Event
	out       chan Event
}

// NewBus creates a bounded in-memory event buffer.
func NewBus(maxEvents int) *Bus {
	if maxEvents <= 0 {
		maxEvents = 500
	}

	return &Bus{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		out:       make(chan Event, maxEvents),
	}
}

// Publish appends one event and assigns sequence and timestamp. Slow channel
// consumers never block publication; they can catch up through Since.
func (b *Bus) Publish(event Event) Event {
	b.mu.Lock()

	b.nextSeq++
	event.Seq = b.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.events = append(b.events, event)
	if len(b.events) > b.maxEvents {
		trim := len(b.events) - b.maxEvents
		b.events = append([]Event(nil), b.events[trim:]...)
	}
	b.mu.Unlock()

	select {
	case b.out <- event:
	default:
	}

	return event
}

// Events exposes the live delivery channel.
func (b *Bus) Events() <-chan Event {
	return b.out
}

// Since returns events with sequence strictly greater than seq.
func (b *Bus) Since(seq int64) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.events) == 0 {
		return nil
	}

	out := make([]Event, 0, len(b.events))
	for _, event := range b.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}
