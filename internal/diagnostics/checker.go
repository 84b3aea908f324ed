package diagnostics

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/markpast92/YT-Transcriber/internal/domain"
	"github.com/markpast92/YT-Transcriber/internal/transcribe"
)

// Checker validates external tools and the managed filesystem paths.
type Checker struct {
	goos       string
	lookPath   func(string) (string, error)
	stat       func(string) (os.FileInfo, error)
	readDir    func(string) ([]os.DirEntry, error)
	mkdirAll   func(string, os.FileMode) error
	createTemp func(string, string) (*os.File, error)
	remove     func(string) error
}

// NewChecker builds a checker using real OS dependencies.
func NewChecker() *Checker {
	return &Checker{
		goos:       runtime.GOOS,
		lookPath:   exec.LookPath,
		stat:       os.Stat,
		readDir:    os.ReadDir,
		mkdirAll:   os.MkdirAll,
		createTemp: os.CreateTemp,
		remove:     os.Remove,
	}
}

// Run executes all environment checks and returns a combined report.
func (c *Checker) Run(settings domain.Settings) domain.DiagnosticReport {
	items := []domain.DiagnosticItem{
		c.checkDownloader(),
		c.checkTool("ffmpeg", settings.ToolsDir),
		c.checkTool("ffprobe", settings.ToolsDir),
		c.checkEngine(),
		c.checkModelsDir(settings.ModelsDir),
		c.checkWritableDir("work_dir", "Working directory", settings.WorkDir),
	}

	hasFailures := false
	for _, item := range items {
		if item.Status == domain.DiagnosticStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.DiagnosticReport{
		GeneratedAt: time.Now().UTC(),
		HasFailures: hasFailures,
		Items:       items,
	}
}

// checkTool verifies a conversion executable in the managed tools directory
// or on PATH.
func (c *Checker) checkTool(name, toolsDir string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "tool_" + name,
		Name: name,
	}

	if strings.TrimSpace(toolsDir) != "" {
		managed := filepath.Join(toolsDir, c.binaryName(name))
		if _, err := c.stat(managed); err == nil {
			item.Status = domain.DiagnosticStatusPass
			item.Message = fmt.Sprintf("Found managed binary at %s", managed)
			return item
		}
	}

	path, err := c.lookPath(name)
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Tool not found in PATH: %s", name)
		item.Hint = "Install FFmpeg with your package manager, or run an extraction once so it can be provisioned automatically."
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Found at %s", path)
	return item
}

// checkDownloader verifies the yt-dlp binary the download wrapper drives.
func (c *Checker) checkDownloader() domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "tool_yt-dlp",
		Name: "yt-dlp",
	}

	path, err := c.lookPath("yt-dlp")
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Tool not found in PATH: yt-dlp"
		item.Hint = "Install yt-dlp and ensure the binary is available on PATH."
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Found at %s", path)
	return item
}

// checkEngine verifies the speech recognition binary is installed.
func (c *Checker) checkEngine() domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "engine_whisper",
		Name: "whisper.cpp",
	}

	engine := transcribe.NewWhisperCPPForTests(c.lookPath)
	if err := engine.Available(); err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Speech recognition engine not found in PATH."
		item.Hint = "Install whisper.cpp so that whisper-cli is on PATH. Transcript generation is unavailable without it; audio extraction still works."
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = "Speech recognition engine is installed."
	return item
}

// checkModelsDir validates the model weights cache directory.
func (c *Checker) checkModelsDir(modelsDir string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "models_dir",
		Name: "Models directory",
	}

	if strings.TrimSpace(modelsDir) == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Models directory is not configured."
		item.Hint = "Set a directory where model weights can be cached."
		return item
	}

	if err := c.mkdirAll(modelsDir, 0o755); err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Cannot create models directory: %s", modelsDir)
		item.Hint = "Choose a writable location or adjust filesystem permissions."
		return item
	}

	cached := 0
	if entries, err := c.readDir(modelsDir); err == nil {
		for _, entry := range entries {
			if !entry.IsDir() && strings.ToLower(filepath.Ext(entry.Name())) == ".bin" {
				cached++
			}
		}
	}

	item.Status = domain.DiagnosticStatusPass
	if cached == 0 {
		item.Message = fmt.Sprintf("Models directory is ready: %s (weights download on first use)", modelsDir)
	} else {
		item.Message = fmt.Sprintf("Models directory is ready: %s (%d cached model(s))", modelsDir, cached)
	}
	return item
}

// checkWritableDir validates directory existence and write access.
func (c *Checker) checkWritableDir(id, name, dir string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   id,
		Name: name,
	}

	if strings.TrimSpace(dir) == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("%s is not configured.", name)
		item.Hint = "Set a directory where in-flight audio files can be written."
		return item
	}

	if err := c.mkdirAll(dir, 0o755); err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Cannot create directory: %s", dir)
		item.Hint = "Choose a writable location or adjust filesystem permissions."
		return item
	}

	tmpFile, err := c.createTemp(dir, ".write-check-*")
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Directory is not writable: %s", dir)
		item.Hint = "Choose a writable directory."
		return item
	}

	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	_ = c.remove(tmpPath)

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Writable directory: %s", dir)
	return item
}

// binaryName appends the platform executable suffix.
func (c *Checker) binaryName(name string) string {
	if c.goos == "windows" {
		return name + ".exe"
	}
	return name
}

// NewCheckerForTests creates a checker with injectable dependencies.
func NewCheckerForTests(
	goos string,
	lookPath func(string) (string, error),
	stat func(string) (os.FileInfo, error),
	readDir func(string) ([]os.DirEntry, error),
	mkdirAll func(string, os.FileMode) error,
	createTemp func(string, string) (*os.File, error),
	remove func(string) error,
) *Checker {
	return &Checker{
		goos:       goos,
		lookPath:   lookPath,
		stat:       stat,
		readDir:    readDir,
		mkdirAll:   mkdirAll,
		createTemp: createTemp,
		remove:     remove,
	}
}
