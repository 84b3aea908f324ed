package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/markpast92/YT-Transcriber/internal/config"
	"github.com/markpast92/YT-Transcriber/internal/diagnostics"
	"github.com/markpast92/YT-Transcriber/internal/domain"
	"github.com/markpast92/YT-Transcriber/internal/fetch"
	"github.com/markpast92/YT-Transcriber/internal/pipeline"
	"github.com/markpast92/YT-Transcriber/internal/provision"
	"github.com/markpast92/YT-Transcriber/internal/transcribe"
)

// eventHistorySize bounds how many run events stay replayable.
const eventHistorySize = 1000

// App wires configuration, collaborators, and the pipeline runner.
type App struct {
	Settings    domain.Settings
	Store       config.Store
	Events      *pipeline.Bus
	Runner      *pipeline.Runner
	Transcriber *transcribe.Transcriber
	checker     *diagnostics.Checker
}

// New builds the application with persisted settings and writes
// deliverables into outputDir. An empty outputDir means the current
// working directory.
func New(outputDir string) (*App, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user home: %w", err)
	}

	store := config.NewJSONStore(filepath.Join(homeDir, ".yt-transcriber", "settings.json"))
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if outputDir == "" {
		outputDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
	}

	bus := pipeline.NewBus(eventHistorySize)
	fetcher := fetch.New(fetch.NewYTDLPDownloader(), settings.WorkDir)
	transcriber := transcribe.New(transcribe.NewWhisperCPP(), settings.ModelsDir)
	provisioner := provision.New(settings.ToolsDir)

	return &App{
		Settings:    settings,
		Store:       store,
		Events:      bus,
		Runner:      pipeline.NewRunner(provisioner, fetcher, transcriber, bus, outputDir),
		Transcriber: transcriber,
		checker:     diagnostics.NewChecker(),
	}, nil
}

// Diagnose runs the environment checks against the loaded settings.
func (a *App) Diagnose() domain.DiagnosticReport {
	return a.checker.Run(a.Settings)
}
