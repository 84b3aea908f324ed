package diagnostics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/markpast92/YT-Transcriber/internal/domain"
)

// TestCheckerRunAllPass validates happy-path diagnostics report.
func TestCheckerRunAllPass(t *testing.T) {
	root := t.TempDir()
	modelsDir := filepath.Join(root, "models")
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		t.Fatalf("mkdir models: %v", err)
	}
	if err := os.WriteFile(filepath.Join(modelsDir, "ggml-small.bin"), []byte("stub"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	checker := NewCheckerForTests(
		"linux",
		func(name string) (string, error) { return "/usr/local/bin/" + name, nil },
		os.Stat,
		os.ReadDir,
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{
		ModelsDir: modelsDir,
		WorkDir:   filepath.Join(root, "temp"),
	})

	if report.HasFailures {
		t.Fatalf("expected no failures, got %+v", report.Items)
	}

	models := itemByID(t, report, "models_dir")
	if !strings.Contains(models.Message, "1 cached model") {
		t.Fatalf("models message = %q, want cached model count", models.Message)
	}
}

// TestCheckerRunMissingToolsAndPaths validates failure reporting.
func TestCheckerRunMissingToolsAndPaths(t *testing.T) {
	checker := NewCheckerForTests(
		"linux",
		func(string) (string, error) { return "", errors.New("not found") },
		os.Stat,
		os.ReadDir,
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{
		ModelsDir: "",
		WorkDir:   "",
	})

	if !report.HasFailures {
		t.Fatal("expected failures")
	}

	assertStatusByID(t, report, "tool_yt-dlp", domain.DiagnosticStatusFail)
	assertStatusByID(t, report, "tool_ffmpeg", domain.DiagnosticStatusFail)
	assertStatusByID(t, report, "tool_ffprobe", domain.DiagnosticStatusFail)
	assertStatusByID(t, report, "engine_whisper", domain.DiagnosticStatusFail)
	assertStatusByID(t, report, "models_dir", domain.DiagnosticStatusFail)
	assertStatusByID(t, report, "work_dir", domain.DiagnosticStatusFail)
}

// TestCheckerPrefersManagedToolsDir validates the managed binary lookup.
func TestCheckerPrefersManagedToolsDir(t *testing.T) {
	root := t.TempDir()
	toolsDir := filepath.Join(root, "ffmpeg")
	if err := os.MkdirAll(toolsDir, 0o755); err != nil {
		t.Fatalf("mkdir tools: %v", err)
	}
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if err := os.WriteFile(filepath.Join(toolsDir, name), []byte("bin"), 0o755); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	checker := NewCheckerForTests(
		"linux",
		func(name string) (string, error) { return "", errors.New("not found") },
		os.Stat,
		os.ReadDir,
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{
		ToolsDir:  toolsDir,
		ModelsDir: filepath.Join(root, "models"),
		WorkDir:   filepath.Join(root, "temp"),
	})

	assertStatusByID(t, report, "tool_ffmpeg", domain.DiagnosticStatusPass)
	assertStatusByID(t, report, "tool_ffprobe", domain.DiagnosticStatusPass)

	item := itemByID(t, report, "tool_ffmpeg")
	if !strings.Contains(item.Message, toolsDir) {
		t.Fatalf("message = %q, want managed path", item.Message)
	}
}

// TestCheckerWindowsManagedBinaryName validates the .exe suffix lookup.
func TestCheckerWindowsManagedBinaryName(t *testing.T) {
	root := t.TempDir()
	toolsDir := filepath.Join(root, "ffmpeg")
	if err := os.MkdirAll(toolsDir, 0o755); err != nil {
		t.Fatalf("mkdir tools: %v", err)
	}
	if err := os.WriteFile(filepath.Join(toolsDir, "ffmpeg.exe"), []byte("bin"), 0o644); err != nil {
		t.Fatalf("write ffmpeg.exe: %v", err)
	}

	checker := NewCheckerForTests(
		"windows",
		func(name string) (string, error) { return "", errors.New("not found") },
		os.Stat,
		os.ReadDir,
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{
		ToolsDir:  toolsDir,
		ModelsDir: filepath.Join(root, "models"),
		WorkDir:   filepath.Join(root, "temp"),
	})

	assertStatusByID(t, report, "tool_ffmpeg", domain.DiagnosticStatusPass)
	assertStatusByID(t, report, "tool_ffprobe", domain.DiagnosticStatusFail)
}

// TestCheckerEmptyModelsDirStillPasses validates the download-on-demand hint.
func TestCheckerEmptyModelsDirStillPasses(t *testing.T) {
	root := t.TempDir()

	checker := NewCheckerForTests(
		"linux",
		func(name string) (string, error) { return "/usr/local/bin/" + name, nil },
		os.Stat,
		os.ReadDir,
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{
		ModelsDir: filepath.Join(root, "models"),
		WorkDir:   filepath.Join(root, "temp"),
	})

	item := itemByID(t, report, "models_dir")
	if item.Status != domain.DiagnosticStatusPass {
		t.Fatalf("status = %s, want pass", item.Status)
	}
	if !strings.Contains(item.Message, "download on first use") {
		t.Fatalf("message = %q, want download hint", item.Message)
	}
}

// itemByID returns a report entry or fails the test.
func itemByID(t *testing.T, report domain.DiagnosticReport, id string) domain.DiagnosticItem {
	t.Helper()
	for _, item := range report.Items {
		if item.ID == id {
			return item
		}
	}
	t.Fatalf("item %q not found in %+v", id, report.Items)
	return domain.DiagnosticItem{}
}

// assertStatusByID fails unless the identified item has the wanted status.
func assertStatusByID(t *testing.T, report domain.DiagnosticReport, id string, want domain.DiagnosticStatus) {
	t.Helper()
	if got := itemByID(t, report, id).Status; got != want {
		t.Fatalf("item %q status = %s, want %s", id, got, want)
	}
}
