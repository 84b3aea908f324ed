package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/markpast92/YT-Transcriber/internal/domain"
	"github.com/markpast92/YT-Transcriber/internal/fetch"
)

// ErrEmptySourceURL is returned when a run is requested without a URL.
var ErrEmptySourceURL = errors.New("source URL is required")

// toolProvisioner readies the conversion tool before the download starts.
type toolProvisioner interface {
	Ensure(ctx context.Context, obs domain.Observer) domain.ToolLocation
}

// audioFetcher downloads and converts a source into a local working file.
type audioFetcher interface {
	Fetch(ctx context.Context, url string, tool domain.ToolLocation, obs domain.Observer) (audioPath, title string, err error)
}

// speechTranscriber turns a local audio file into plain text.
type speechTranscriber interface {
	Transcribe(ctx context.Context, audioPath, modelName string, obs domain.Observer) (string, error)
}

// Runner executes extraction runs one at a time and reports every state
// change through the event bus.
type Runner struct {
	provisioner toolProvisioner
	fetcher     audioFetcher
	transcriber speechTranscriber
	tracker     *Tracker
	bus         *Bus
	outputDir   string

	newID    func() string
	mkdirAll func(string, os.FileMode) error
	copyFile func(src, dst string) error
	remove   func(string) error
}

// NewRunner wires the pipeline collaborators into a runner that writes
// deliverables into outputDir.
func NewRunner(provisioner toolProvisioner, fetcher audioFetcher, transcriber speechTranscriber, bus *Bus, outputDir string) *Runner {
	return &Runner{
		provisioner: provisioner,
		fetcher:     fetcher,
		transcriber: transcriber,
		tracker:     NewTracker(),
		bus:         bus,
		outputDir:   outputDir,
		newID:       fetch.NewWorkingID,
		mkdirAll:    os.MkdirAll,
		copyFile:    copyFile,
		remove:      os.Remove,
	}
}

// Current returns a snapshot of the active or most recent run.
func (r *Runner) Current() domain.Run {
	return r.tracker.Current()
}

// IsRunning reports whether a run is currently executing.
func (r *Runner) IsRunning() bool {
	return r.tracker.IsRunning()
}

// Start validates the request, claims the single run slot and launches the
// worker goroutine. The returned identifier keys all events for the run.
func (r *Runner) Start(req domain.Request) (string, error) {
	url := strings.TrimSpace(req.SourceURL)
	if url == "" {
		return "", ErrEmptySourceURL
	}

	runID := r.newID()
	if err := r.tracker.Start(runID); err != nil {
		return "", err
	}

	go r.run(runID, req, url)
	return runID, nil
}

// run drives one extraction end to end. Exactly one terminal event (result
// or error) is published per run, always last.
func (r *Runner) run(runID string, req domain.Request, url string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.fail(runID, fmt.Errorf("run aborted: %v", rec))
		}
	}()

	ctx := context.Background()
	obs := domain.Observer{
		OnProgress: func(percent float64) {
			r.bus.Publish(Event{RunID: runID, Type: EventTypeProgress, Percent: percent})
		},
		OnStatus: func(message string) {
			r.bus.Publish(Event{RunID: runID, Type: EventTypeStatus, Message: message})
		},
	}

	tool := r.provisioner.Ensure(ctx, obs)

	_ = r.tracker.Transition(domain.RunPhaseFetching)
	audioPath, title, err := r.fetcher.Fetch(ctx, url, tool, obs)
	if err != nil {
		r.fail(runID, err)
		return
	}
	defer func() {
		_ = r.remove(audioPath)
	}()

	var transcript string
	partial := false
	partialMessage := ""
	if req.GenerateTranscript {
		_ = r.tracker.Transition(domain.RunPhaseTranscribing)
		transcript, err = r.transcriber.Transcribe(ctx, audioPath, req.ModelName, obs)
		if err != nil {
			transcript = ""
			partial = true
			partialMessage = fmt.Sprintf("Transcription failed: %v", err)
			obs.Status(partialMessage)
		}
	}

	_ = r.tracker.Transition(domain.RunPhaseFinalizing)
	outputPath, err := r.deliver(runID, audioPath, title)
	if err != nil {
		r.fail(runID, err)
		return
	}

	_ = r.remove(audioPath)

	obs.Progress(100)
	_ = r.tracker.Transition(domain.RunPhaseSucceeded)
	r.bus.Publish(Event{
		RunID:      runID,
		Type:       EventTypeResult,
		Percent:    100,
		Message:    partialMessage,
		OutputPath: outputPath,
		Transcript: transcript,
		Partial:    partial,
	})
}

// deliver copies the anonymous working file to its user-facing name.
func (r *Runner) deliver(runID, audioPath, title string) (string, error) {
	if err := r.mkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	name := fetch.SanitizeTitle(title)
	if name == "" {
		workingID := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
		name = fetch.FallbackName(workingID)
	}

	outputPath := filepath.Join(r.outputDir, name+".mp3")
	if err := r.copyFile(audioPath, outputPath); err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}
	return outputPath, nil
}

// fail marks the run failed and publishes its terminal error event.
func (r *Runner) fail(runID string, err error) {
	_ = r.tracker.Transition(domain.RunPhaseFailed)
	r.bus.Publish(Event{
		RunID:   runID,
		Type:    EventTypeError,
		Message: err.Error(),
	})
}

// copyFile duplicates src into dst, truncating any existing file.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// NewRunnerForTests builds a runner with injectable identifier and
// filesystem dependencies.
func NewRunnerForTests(
	provisioner toolProvisioner,
	fetcher audioFetcher,
	transcriber speechTranscriber,
	bus *Bus,
	outputDir string,
	newID func() string,
	mkdirAll func(string, os.FileMode) error,
	copy func(src, dst string) error,
	remove func(string) error,
) *Runner {
	return &Runner{
		provisioner: provisioner,
		fetcher:     fetcher,
		transcriber: transcriber,
		tracker:     NewTracker(),
		bus:         bus,
		outputDir:   outputDir,
		newID:       newID,
		mkdirAll:    mkdirAll,
		copyFile:    copy,
		remove:      remove,
	}
}
