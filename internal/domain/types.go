package domain

import "strings"

// RunPhase tracks each pipeline phase for a single extraction run.
type RunPhase string

const (
	RunPhaseIdle         RunPhase = "idle"
	RunPhaseProvisioning RunPhase = "provisioning"
	RunPhaseFetching     RunPhase = "fetching"
	RunPhaseTranscribing RunPhase = "transcribing"
	RunPhaseFinalizing   RunPhase = "finalizing"
	RunPhaseSucceeded    RunPhase = "succeeded"
	RunPhaseFailed       RunPhase = "failed"
)

// Request describes one extraction run. Immutable once the run starts.
type Request struct {
	SourceURL          string `json:"sourceUrl"`
	ModelName          string `json:"modelName"`
	GenerateTranscript bool   `json:"generateTranscript"`
}

// Settings contains user-selectable runtime configuration and the managed
// directories the pipeline works under.
type Settings struct {
	ModelName string `json:"modelName"`
	ModelsDir string `json:"modelsDir"`
	WorkDir   string `json:"workDir"`
	ToolsDir  string `json:"toolsDir"`
}

// Run stores the current run identity and lifecycle phase.
type Run struct {
	ID    string   `json:"id"`
	Phase RunPhase `json:"phase"`
}

// ToolLocation tells the downloader where the conversion tool lives.
// An empty Dir means "use the system-installed binary".
type ToolLocation struct {
	Dir string `json:"dir,omitempty"`
}

// UseSystem reports whether the system-installed tool should be used.
func (l ToolLocation) UseSystem() bool {
	return strings.TrimSpace(l.Dir) == ""
}
