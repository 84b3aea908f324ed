// Package fetch drives the external downloader against a source URL,
// selecting best audio with an mp3 extraction post-process step, and maps
// byte-level transfer progress onto the lower half of the unified scale.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/markpast92/YT-Transcriber/internal/domain"
)

// Metadata carries downloader-reported details about the source.
type Metadata struct {
	Title string
}

// Options configures one downloader invocation.
type Options struct {
	// OutputTemplate is the extension-less output path; the downloader
	// appends the post-processed audio extension.
	OutputTemplate string
	// FFmpegDir points the downloader at a managed conversion tool
	// directory. Empty means the system-installed tool.
	FFmpegDir string
	// OnProgress receives byte counts during transfer.
	OnProgress func(downloaded, total int64)
	// OnFinished fires once when the transfer completes, before the
	// audio extraction post-process runs.
	OnFinished func()
}

// Downloader runs one best-audio download with mp3 post-processing.
type Downloader interface {
	Download(ctx context.Context, url string, opts Options) (Metadata, error)
}

// Error is a fetch-phase failure carrying the source URL. Fetch errors are
// fatal to the run.
type Error struct {
	URL string
	Err error
}

// Error formats the failure for logs and terminal events.
func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Fetcher downloads the best audio stream for a URL into the working
// directory under a freshly generated unique identifier.
type Fetcher struct {
	downloader Downloader
	workDir    string
	newID      func() string
	stat       func(string) (os.FileInfo, error)
	mkdirAll   func(string, os.FileMode) error
}

// New constructs a fetcher writing working files into workDir.
func New(downloader Downloader, workDir string) *Fetcher {
	return &Fetcher{
		downloader: downloader,
		workDir:    workDir,
		newID:      NewWorkingID,
		stat:       os.Stat,
		mkdirAll:   os.MkdirAll,
	}
}

// NewWorkingID generates the unique identifier naming one run's working file.
func NewWorkingID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Fetch downloads url and returns the extracted audio path and the source
// title. Byte progress maps linearly onto 0-50 of the unified scale and
// jumps to exactly 50 when the transfer finishes.
func (f *Fetcher) Fetch(ctx context.Context, url string, tool domain.ToolLocation, obs domain.Observer) (string, string, error) {
	if err := f.mkdirAll(f.workDir, 0o755); err != nil {
		return "", "", &Error{URL: url, Err: fmt.Errorf("create working directory: %w", err)}
	}

	id := f.newID()
	template := filepath.Join(f.workDir, id)

	obs.Status("Retrieving video information...")

	meta, err := f.downloader.Download(ctx, url, Options{
		OutputTemplate: template,
		FFmpegDir:      tool.Dir,
		OnProgress: func(downloaded, total int64) {
			if total > 0 {
				percent := float64(downloaded) / float64(total) * 50
				obs.Progress(percent)
				obs.Status(fmt.Sprintf("Downloading: %.1f%%", percent*2))
			} else if downloaded > 0 {
				obs.Status(fmt.Sprintf("Downloading: %.1f MB", float64(downloaded)/1024/1024))
			}
		},
		OnFinished: func() {
			obs.Status("Download completed, extracting audio...")
			obs.Progress(50)
		},
	})
	if err != nil {
		return "", "", &Error{URL: url, Err: err}
	}

	// Locate the produced file by the run identifier, never by directory
	// scan, so stale working files from other runs cannot be picked up.
	audioPath := template + ".mp3"
	if _, err := f.stat(audioPath); err != nil {
		return "", "", &Error{URL: url, Err: errors.New("mp3 extraction produced no output file")}
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = "audio"
	}

	return audioPath, title, nil
}

// NewForTests constructs a fetcher with injectable dependencies.
func NewForTests(
	downloader Downloader,
	workDir string,
	newID func() string,
	stat func(string) (os.FileInfo, error),
) *Fetcher {
	return &Fetcher{
		downloader: downloader,
		workDir:    workDir,
		newID:      newID,
		stat:       stat,
		mkdirAll:   os.MkdirAll,
	}
}
