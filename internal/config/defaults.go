package config

import (
	"os"
	"path/filepath"

	"github.com/markpast92/YT-Transcriber/internal/domain"
)

// DefaultModelName is used when a run does not name a recognition model.
const DefaultModelName = "small"

// DefaultSettings returns baseline local configuration for first launch.
// The managed directories (model weights, working files, tool binaries)
// all live under one application directory in the user's home.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	appDir := filepath.Join(homeDir, ".yt-transcriber")
	return domain.Settings{
		ModelName: DefaultModelName,
		ModelsDir: filepath.Join(appDir, "models"),
		WorkDir:   filepath.Join(appDir, "temp"),
		ToolsDir:  filepath.Join(appDir, "ffmpeg"),
	}
}
