package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/markpast92/YT-Transcriber/internal/domain"
)

// defaultModelName is used when the request does not name a model.
const defaultModelName = "small"

// beamSize is the fixed beam-search width for decoding.
const beamSize = 5

// segmentProgressEvery controls how many segments pass between progress
// updates during decoding.
const segmentProgressEvery = 5

// Transcriber converts a working audio file into text. Progress maps onto
// 75-95 of the unified scale; the band below belongs to engine and model
// preparation, the band above to the orchestrator's final transition.
type Transcriber struct {
	engine Engine
	models *ModelResolver
}

// New constructs a transcriber using the given engine and models directory.
func New(engine Engine, modelsDir string) *Transcriber {
	return &Transcriber{
		engine: engine,
		models: NewModelResolver(modelsDir),
	}
}

// Models exposes the underlying model catalog.
func (t *Transcriber) Models() *ModelResolver {
	return t.models
}

// Engine exposes the underlying recognition engine for availability checks.
func (t *Transcriber) Engine() Engine {
	return t.engine
}

// Transcribe decodes audioPath with the named model and returns the
// space-joined, trimmed concatenation of all segment texts.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath, modelName string, obs domain.Observer) (string, error) {
	obs.Status("Checking transcription engine...")
	obs.Progress(60)

	if err := t.engine.Available(); err != nil {
		return "", err
	}

	name := strings.TrimSpace(modelName)
	if name == "" {
		name = defaultModelName
	}

	obs.Status(fmt.Sprintf("Loading transcription model '%s'...", name))
	obs.Progress(70)

	modelFile, err := t.models.Resolve(ctx, name, obs)
	if err != nil {
		return "", fmt.Errorf("model %q: %w", name, err)
	}

	obs.Status("Starting transcription... (may take several minutes)")
	obs.Progress(75)

	stream, err := t.engine.Transcribe(ctx, audioPath, EngineOptions{
		ModelFile: modelFile,
		BeamSize:  beamSize,
	})
	if err != nil {
		return "", err
	}

	var transcript strings.Builder
	count := 0
	for {
		segment, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		transcript.WriteString(segment.Text)
		transcript.WriteString(" ")
		count++

		if count%segmentProgressEvery == 0 {
			obs.Progress(segmentProgress(count))
			obs.Status(fmt.Sprintf("Transcribing: %d segments processed", count))
		}
	}

	obs.Progress(95)
	obs.Status("Transcription completed successfully")

	return strings.TrimSpace(transcript.String()), nil
}

// segmentProgress maps a processed-segment count onto 75-95, clamped at 95.
func segmentProgress(count int) float64 {
	capped := count
	if capped > 100 {
		capped = 100
	}
	value := 75 + float64(capped)/5
	if value > 95 {
		value = 95
	}
	return value
}
