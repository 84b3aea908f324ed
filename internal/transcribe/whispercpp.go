package transcribe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// engineCandidates are the executable names a whisper.cpp install may use.
var engineCandidates = []string{"whisper-cli", "whisper-cpp", "whisper.cpp"}

// segmentLine matches one decoded segment on the engine's stdout, e.g.
// [00:00:00.000 --> 00:00:02.340]   Hello world.
var segmentLine = regexp.MustCompile(
	`^\[(\d{2}):(\d{2}):(\d{2})[.,](\d{3}) --> (\d{2}):(\d{2}):(\d{2})[.,](\d{3})\]\s*(.*)$`,
)

// WhisperCPP runs the whisper.cpp command line binary and parses its stdout
// into a segment stream as lines arrive, so callers observe decoding
// progress instead of waiting for the process to exit.
type WhisperCPP struct {
	lookPath func(string) (string, error)
}

// NewWhisperCPP constructs the production engine.
func NewWhisperCPP() *WhisperCPP {
	return &WhisperCPP{lookPath: exec.LookPath}
}

// Available reports whether a whisper.cpp binary is on PATH.
func (w *WhisperCPP) Available() error {
	if _, err := w.resolveBinary(); err != nil {
		return err
	}
	return nil
}

// resolveBinary finds the first known whisper.cpp executable name on PATH.
func (w *WhisperCPP) resolveBinary() (string, error) {
	for _, candidate := range engineCandidates {
		if path, err := w.lookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", &MissingDependencyError{
		Name: "whisper.cpp",
		Hint: "install whisper-cli and ensure the binary is available on PATH",
	}
}

// Transcribe starts the engine process and returns a stream over the
// segments it prints. Word-level timestamps stay disabled.
func (w *WhisperCPP) Transcribe(ctx context.Context, audioPath string, opts EngineOptions) (SegmentStream, error) {
	binary, err := w.resolveBinary()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, binary, buildEngineArgs(opts.ModelFile, audioPath, opts.BeamSize)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open engine stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", binary, err)
	}

	return newLineStream(stdout, func() error {
		if waitErr := cmd.Wait(); waitErr != nil {
			detail := strings.TrimSpace(stderr.String())
			if len(detail) > 500 {
				detail = detail[:500] + "..."
			}
			if detail == "" {
				return fmt.Errorf("%s: %w", binary, waitErr)
			}
			return fmt.Errorf("%s: %w (%s)", binary, waitErr, detail)
		}
		return nil
	}), nil
}

// buildEngineArgs builds whisper.cpp CLI args for a CPU decode with the
// fixed beam width.
func buildEngineArgs(modelFile, audioPath string, beamSize int) []string {
	return []string{
		"-m", modelFile,
		"-f", audioPath,
		"-bs", strconv.Itoa(beamSize),
	}
}

// lineStream adapts a line-oriented reader into a SegmentStream.
type lineStream struct {
	scanner *bufio.Scanner
	wait    func() error
	waited  bool
}

// newLineStream wraps reader output and a completion hook into a stream.
func newLineStream(reader io.Reader, wait func() error) *lineStream {
	return &lineStream{
		scanner: bufio.NewScanner(reader),
		wait:    wait,
	}
}

// Next returns the next decoded segment, or io.EOF after the final one once
// the underlying process has exited cleanly.
func (s *lineStream) Next() (Segment, error) {
	for s.scanner.Scan() {
		if segment, ok := parseSegmentLine(s.scanner.Text()); ok {
			return segment, nil
		}
	}

	if s.waited {
		return Segment{}, io.EOF
	}
	s.waited = true

	if err := s.scanner.Err(); err != nil {
		if s.wait != nil {
			_ = s.wait()
		}
		return Segment{}, err
	}
	if s.wait != nil {
		if err := s.wait(); err != nil {
			return Segment{}, err
		}
	}
	return Segment{}, io.EOF
}

// parseSegmentLine extracts one timed segment from an engine stdout line.
func parseSegmentLine(line string) (Segment, bool) {
	match := segmentLine.FindStringSubmatch(strings.TrimSpace(line))
	if match == nil {
		return Segment{}, false
	}

	return Segment{
		Start: parseStamp(match[1], match[2], match[3], match[4]),
		End:   parseStamp(match[5], match[6], match[7], match[8]),
		Text:  strings.TrimSpace(match[9]),
	}, true
}

// parseStamp converts hh/mm/ss/ms capture groups into a duration.
func parseStamp(hh, mm, ss, ms string) time.Duration {
	hours, _ := strconv.Atoi(hh)
	minutes, _ := strconv.Atoi(mm)
	seconds, _ := strconv.Atoi(ss)
	millis, _ := strconv.Atoi(ms)

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
}

// NewWhisperCPPForTests constructs an engine with an injectable PATH lookup.
func NewWhisperCPPForTests(lookPath func(string) (string, error)) *WhisperCPP {
	return &WhisperCPP{lookPath: lookPath}
}
