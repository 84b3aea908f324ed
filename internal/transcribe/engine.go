// Package transcribe turns a working audio file into text by streaming
// decoded segments out of a speech-recognition engine, mapping segment
// counts onto the upper portion of the unified progress scale.
package transcribe

import (
	"context"
	"fmt"
	"time"
)

// Segment is one timed span of decoded speech.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// EngineOptions configures decoding for one transcription.
type EngineOptions struct {
	ModelFile string
	BeamSize  int
}

// SegmentStream is a lazy, forward-only, non-restartable segment sequence.
// Next returns io.EOF when the stream is exhausted.
type SegmentStream interface {
	Next() (Segment, error)
}

// Engine produces decoded segments for an audio file.
type Engine interface {
	// Available reports whether the engine can run at all; a missing
	// binary surfaces as *MissingDependencyError.
	Available() error
	Transcribe(ctx context.Context, audioPath string, opts EngineOptions) (SegmentStream, error)
}

// MissingDependencyError indicates the recognition engine is not installed.
// The pipeline fails fast on this instead of mutating the environment.
type MissingDependencyError struct {
	Name string
	Hint string
}

// Error formats the missing dependency for terminal events.
func (e *MissingDependencyError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("missing dependency: %s", e.Name)
	}
	return fmt.Sprintf("missing dependency: %s (%s)", e.Name, e.Hint)
}
