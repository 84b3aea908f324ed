package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/markpast92/YT-Transcriber/internal/domain"
)

// TestDefaultSettings verifies baseline defaults are present.
func TestDefaultSettings(t *testing.T) {
	cfg := DefaultSettings()
	if cfg.ModelName != "small" {
		t.Fatalf("model name = %q, want small", cfg.ModelName)
	}
	if cfg.ModelsDir == "" {
		t.Fatal("expected non-empty models dir")
	}
	if cfg.WorkDir == "" {
		t.Fatal("expected non-empty work dir")
	}
	if cfg.ToolsDir == "" {
		t.Fatal("expected non-empty tools dir")
	}
}

// TestJSONStoreLoadMissingReturnsDefaults checks first-run behavior.
func TestJSONStoreLoadMissingReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "settings.json")
	store := NewJSONStore(path)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ModelName != "small" {
		t.Fatalf("model name = %q, want small", got.ModelName)
	}
}

// TestJSONStoreSaveAndLoadRoundTrip checks persisted settings fidelity.
func TestJSONStoreSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.json")
	store := NewJSONStore(path)
	want := domain.Settings{
		ModelName: "tiny",
		ModelsDir: "/models",
		WorkDir:   "/work",
		ToolsDir:  "/tools",
	}

	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Fatalf("settings = %+v, want %+v", got, want)
	}
}

// TestJSONStoreLoadInvalidJSON checks parse error handling.
func TestJSONStoreLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not-json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewJSONStore(path)
	if _, err := store.Load(); err == nil {
		t.Fatal("expected json parse error")
	}
}

// TestNormalizeFillsEmptyFields checks defaulting of blank settings.
func TestNormalizeFillsEmptyFields(t *testing.T) {
	got := Normalize(domain.Settings{ModelName: "  ", WorkDir: "/custom"})
	defaults := DefaultSettings()

	if got.ModelName != defaults.ModelName {
		t.Fatalf("model name = %q, want %q", got.ModelName, defaults.ModelName)
	}
	if got.WorkDir != "/custom" {
		t.Fatalf("work dir = %q, want /custom", got.WorkDir)
	}
	if got.ModelsDir != defaults.ModelsDir {
		t.Fatalf("models dir = %q, want %q", got.ModelsDir, defaults.ModelsDir)
	}
}
