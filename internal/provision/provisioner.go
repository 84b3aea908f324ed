// Package provision ensures the external media conversion tool (ffmpeg and
// ffprobe) is available, downloading a platform-specific distribution into a
// managed directory when it is not already installed.
package provision

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"

	"github.com/markpast92/YT-Transcriber/internal/domain"
)

// Fixed distribution endpoints, treated as static configuration.
const (
	windowsArchiveURL = "https://github.com/BtbN/FFmpeg-Builds/releases/download/latest/ffmpeg-master-latest-win64-gpl.zip"
	macFFmpegURL      = "https://evermeet.cx/ffmpeg/getrelease/ffmpeg/zip"
	macFFprobeURL     = "https://evermeet.cx/ffmpeg/getrelease/ffprobe/zip"
)

// probeRunner abstracts the version-query process invocation for testability.
type probeRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// execProbe invokes the probe command via os/exec.
type execProbe struct{}

// Run executes one command, discarding output.
func (execProbe) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	return cmd.Run()
}

// Provisioner resolves a ToolLocation for the current platform, fetching
// binaries into the managed directory when absent. Disk state is re-checked
// on every Ensure call; nothing is memoized in memory.
type Provisioner struct {
	dir    string
	goos   string
	client *http.Client
	probe  probeRunner
	stat   func(string) (os.FileInfo, error)
	chmod  func(string, os.FileMode) error

	windowsURL string
	macURLs    map[string]string
}

// New builds a provisioner managing the given tools directory.
func New(dir string) *Provisioner {
	return &Provisioner{
		dir:        dir,
		goos:       goruntime.GOOS,
		client:     http.DefaultClient,
		probe:      execProbe{},
		stat:       os.Stat,
		chmod:      os.Chmod,
		windowsURL: windowsArchiveURL,
		macURLs: map[string]string{
			"ffmpeg":  macFFmpegURL,
			"ffprobe": macFFprobeURL,
		},
	}
}

// Ensure returns the tool location for this run. Provisioning failures are
// reported through the observer only; the caller degrades to the system
// tool and fails later downstream if none exists.
func (p *Provisioner) Ensure(ctx context.Context, obs domain.Observer) domain.ToolLocation {
	switch p.goos {
	case "windows":
		return p.ensureWindows(ctx, obs)
	case "darwin":
		return p.ensureDarwin(ctx, obs)
	case "linux":
		return p.ensureLinux(ctx, obs)
	default:
		return domain.ToolLocation{}
	}
}

// ensureWindows fetches one combined archive and keeps only the two
// executables from it.
func (p *Provisioner) ensureWindows(ctx context.Context, obs domain.Observer) domain.ToolLocation {
	if p.binariesPresent("ffmpeg.exe", "ffprobe.exe") {
		return domain.ToolLocation{Dir: p.dir}
	}

	obs.Status("Downloading FFmpeg for Windows...")

	zipPath := filepath.Join(p.dir, "ffmpeg.zip")
	if err := DownloadFile(ctx, p.client, zipPath, p.windowsURL); err != nil {
		obs.Status(fmt.Sprintf("Error downloading FFmpeg: %v", err))
		return domain.ToolLocation{}
	}

	_, err := extractBySuffix(zipPath, p.dir, "ffmpeg.exe", "ffprobe.exe")
	if removeErr := os.Remove(zipPath); err == nil {
		err = removeErr
	}
	if err != nil {
		obs.Status(fmt.Sprintf("Error downloading FFmpeg: %v", err))
		return domain.ToolLocation{}
	}

	if !p.binariesPresent("ffmpeg.exe", "ffprobe.exe") {
		obs.Status("Error downloading FFmpeg: archive did not contain the expected executables")
		return domain.ToolLocation{}
	}

	obs.Status("FFmpeg installed successfully")
	return domain.ToolLocation{Dir: p.dir}
}

// ensureDarwin fetches two separate archives, one per executable, then
// marks both binaries executable.
func (p *Provisioner) ensureDarwin(ctx context.Context, obs domain.Observer) domain.ToolLocation {
	if p.binariesPresent("ffmpeg", "ffprobe") {
		return domain.ToolLocation{Dir: p.dir}
	}

	obs.Status("Downloading FFmpeg for macOS...")

	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if err := p.fetchAndUnpackDarwin(ctx, name); err != nil {
			obs.Status(fmt.Sprintf("Error downloading FFmpeg: %v", err))
			return domain.ToolLocation{}
		}
	}

	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if err := p.chmod(filepath.Join(p.dir, name), 0o755); err != nil {
			obs.Status(fmt.Sprintf("Error downloading FFmpeg: %v", err))
			return domain.ToolLocation{}
		}
	}

	obs.Status("FFmpeg installed successfully")
	return domain.ToolLocation{Dir: p.dir}
}

// fetchAndUnpackDarwin downloads one macOS archive and extracts it fully
// into the managed directory.
func (p *Provisioner) fetchAndUnpackDarwin(ctx context.Context, binaryName string) error {
	zipPath := filepath.Join(p.dir, binaryName+".zip")
	if err := DownloadFile(ctx, p.client, zipPath, p.macURLs[binaryName]); err != nil {
		return err
	}

	err := extractAll(zipPath, p.dir)
	if removeErr := os.Remove(zipPath); err == nil {
		err = removeErr
	}
	return err
}

// ensureLinux never downloads; it probes for a system install only.
func (p *Provisioner) ensureLinux(ctx context.Context, obs domain.Observer) domain.ToolLocation {
	if err := p.probe.Run(ctx, "ffmpeg", "-version"); err != nil {
		obs.Status("FFmpeg not found on system. Please install FFmpeg using your package manager.")
	}
	return domain.ToolLocation{}
}

// binariesPresent reports whether every named binary exists in the managed
// directory.
func (p *Provisioner) binariesPresent(names ...string) bool {
	for _, name := range names {
		info, err := p.stat(filepath.Join(p.dir, name))
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

// NewForTests builds a provisioner with injectable dependencies.
func NewForTests(
	dir string,
	goos string,
	client *http.Client,
	probe probeRunner,
	windowsURL string,
	macURLs map[string]string,
) *Provisioner {
	return &Provisioner{
		dir:        dir,
		goos:       goos,
		client:     client,
		probe:      probe,
		stat:       os.Stat,
		chmod:      os.Chmod,
		windowsURL: windowsURL,
		macURLs:    macURLs,
	}
}
