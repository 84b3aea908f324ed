package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/markpast92/YT-Transcriber/internal/domain"
)

// ErrRunInProgress is returned when starting a second active run.
var ErrRunInProgress = errors.New("run already in progress")

// Tracker tracks the single allowed active run and its phase transitions.
type Tracker struct {
	mu      sync.RWMutex
	current domain.Run
}

// NewTracker creates a tracker in idle state.
func NewTracker() *Tracker {
	return &Tracker{
		current: domain.Run{
			Phase: domain.RunPhaseIdle,
		},
	}
}

// Start registers a new run and moves it to provisioning phase.
func (t *Tracker) Start(runID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if isActive(t.current.Phase) {
		return ErrRunInProgress
	}

	t.current = domain.Run{
		ID:    runID,
		Phase: domain.RunPhaseProvisioning,
	}
	return nil
}

// Transition validates and applies a phase change for the current run.
func (t *Tracker) Transition(phase domain.RunPhase) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current.ID == "" && phase != domain.RunPhaseIdle {
		return fmt.Errorf("cannot transition without an active run")
	}
	if phase == t.current.Phase {
		return nil
	}
	if !isValidTransition(t.current.Phase, phase) {
		return fmt.Errorf("invalid transition: %s -> %s", t.current.Phase, phase)
	}

	t.current.Phase = phase
	return nil
}

// Current returns a snapshot of the current run.
func (t *Tracker) Current() domain.Run {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// IsRunning reports whether the current phase is an active stage.
func (t *Tracker) IsRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return isActive(t.current.Phase)
}

// isActive checks if a phase represents pipeline execution in flight.
func isActive(phase domain.RunPhase) bool {
	switch phase {
	case domain.RunPhaseProvisioning, domain.RunPhaseFetching, domain.RunPhaseTranscribing, domain.RunPhaseFinalizing:
		return true
	default:
		return false
	}
}

// isValidTransition enforces the allowed run phase edges. Transcribing is
// optional, so fetching may jump straight to finalizing.
func isValidTransition(from, to domain.RunPhase) bool {
	switch from {
	case domain.RunPhaseIdle:
		return to == domain.RunPhaseProvisioning
	case domain.RunPhaseProvisioning:
		return to == domain.RunPhaseFetching || to == domain.RunPhaseFailed
	case domain.RunPhaseFetching:
		return to == domain.RunPhaseTranscribing || to == domain.RunPhaseFinalizing || to == domain.RunPhaseFailed
	case domain.RunPhaseTranscribing:
		return to == domain.RunPhaseFinalizing || to == domain.RunPhaseFailed
	case domain.RunPhaseFinalizing:
		return to == domain.RunPhaseSucceeded || to == domain.RunPhaseFailed
	case domain.RunPhaseSucceeded, domain.RunPhaseFailed:
		return to == domain.RunPhaseProvisioning || to == domain.RunPhaseIdle
	default:
		return false
	}
}
