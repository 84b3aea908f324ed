package transcribe

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/markpast92/YT-Transcriber/internal/domain"
	"github.com/markpast92/YT-Transcriber/internal/provision"
)

// weightsBaseURL is where whisper.cpp model weights are published.
const weightsBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

// ModelOption describes one known recognition model preset.
type ModelOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FileName    string `json:"fileName"`
	SizeLabel   string `json:"sizeLabel,omitempty"`
	Description string `json:"description,omitempty"`
	Downloaded  bool   `json:"downloaded"`
	LocalPath   string `json:"localPath,omitempty"`
}

var modelCatalog = []ModelOption{
	{
		ID:          "tiny.en",
		Name:        "Tiny (English)",
		FileName:    "ggml-tiny.en.bin",
		SizeLabel:   "~75 MB",
		Description: "Fastest, English-only model.",
	},
	{
		ID:          "tiny",
		Name:        "Tiny (Multilingual)",
		FileName:    "ggml-tiny.bin",
		SizeLabel:   "~75 MB",
		Description: "Fastest multilingual model.",
	},
	{
		ID:          "base.en",
		Name:        "Base (English)",
		FileName:    "ggml-base.en.bin",
		SizeLabel:   "~142 MB",
		Description: "Balanced speed/quality, English-only.",
	},
	{
		ID:          "base",
		Name:        "Base (Multilingual)",
		FileName:    "ggml-base.bin",
		SizeLabel:   "~142 MB",
		Description: "Balanced speed/quality, multilingual.",
	},
	{
		ID:          "small.en",
		Name:        "Small (English)",
		FileName:    "ggml-small.en.bin",
		SizeLabel:   "~466 MB",
		Description: "Higher quality, English-only.",
	},
	{
		ID:          "small",
		Name:        "Small (Multilingual)",
		FileName:    "ggml-small.bin",
		SizeLabel:   "~466 MB",
		Description: "Higher quality multilingual model. Default.",
	},
	{
		ID:          "medium",
		Name:        "Medium (Multilingual)",
		FileName:    "ggml-medium.bin",
		SizeLabel:   "~1.5 GB",
		Description: "High quality multilingual model.",
	},
	{
		ID:          "large-v3",
		Name:        "Large v3",
		FileName:    "ggml-large-v3.bin",
		SizeLabel:   "~2.9 GB",
		Description: "Latest large multilingual model.",
	},
	{
		ID:          "large-v3-turbo",
		Name:        "Large v3 Turbo",
		FileName:    "ggml-large-v3-turbo.bin",
		SizeLabel:   "~1.6 GB",
		Description: "Faster large-v3 variant.",
	},
}

// ModelResolver maps model names to weight files cached in the managed
// models directory, downloading weights on first use so repeated runs with
// the same name avoid re-downloading.
type ModelResolver struct {
	dir    string
	client *http.Client
	stat   func(string) (os.FileInfo, error)
}

// NewModelResolver builds a resolver over the given models directory.
func NewModelResolver(dir string) *ModelResolver {
	return &ModelResolver{
		dir:    dir,
		client: http.DefaultClient,
		stat:   os.Stat,
	}
}

// Catalog returns the known model presets with downloaded status marked.
func (r *ModelResolver) Catalog() []ModelOption {
	models := make([]ModelOption, len(modelCatalog))
	copy(models, modelCatalog)

	for i := range models {
		candidate := filepath.Join(r.dir, models[i].FileName)
		info, err := r.stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		models[i].Downloaded = true
		models[i].LocalPath = candidate
	}
	return models
}

// Resolve returns the local weights path for a model name, fetching the
// weights when absent. Free-form names outside the catalog map onto the
// publisher's ggml-<name>.bin convention.
func (r *ModelResolver) Resolve(ctx context.Context, name string, obs domain.Observer) (string, error) {
	fileName := modelFileName(name)
	target := filepath.Join(r.dir, fileName)

	if info, err := r.stat(target); err == nil && !info.IsDir() {
		return target, nil
	}

	obs.Status(fmt.Sprintf("Downloading model weights '%s'...", name))
	if err := provision.DownloadFile(ctx, r.client, target, weightsBaseURL+fileName); err != nil {
		return "", fmt.Errorf("download model weights: %w", err)
	}
	return target, nil
}

// modelFileName maps a model name onto its published weights filename.
func modelFileName(name string) string {
	for _, model := range modelCatalog {
		if model.ID == name {
			return model.FileName
		}
	}
	return "ggml-" + name + ".bin"
}

// NewModelResolverForTests builds a resolver with injectable dependencies.
func NewModelResolverForTests(dir string, client *http.Client, stat func(string) (os.FileInfo, error)) *ModelResolver {
	return &ModelResolver{dir: dir, client: client, stat: stat}
}
