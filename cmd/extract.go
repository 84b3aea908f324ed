package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markpast92/YT-Transcriber/internal/bootstrap"
	"github.com/markpast92/YT-Transcriber/internal/domain"
	"github.com/markpast92/YT-Transcriber/internal/pipeline"
	"github.com/markpast92/YT-Transcriber/internal/transcribe"
)

var (
	extractModel      string
	extractTranscribe bool
	extractOutputDir  string
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Download a video's audio track as MP3",
	Long: `Download the audio track of a YouTube video, convert it to MP3 and
save it under the video's title. With --transcribe the audio is also run
through the local whisper.cpp engine and the transcript printed.

Example:
  yt-transcriber extract "https://youtu.be/dQw4w9WgXcQ"
  yt-transcriber extract --transcribe --model base --output-dir ~/Music "https://youtu.be/dQw4w9WgXcQ"`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractModel, "model", "", "Whisper model to transcribe with (default from settings)")
	extractCmd.Flags().BoolVar(&extractTranscribe, "transcribe", false, "Generate a transcript after the download")
	extractCmd.Flags().StringVar(&extractOutputDir, "output-dir", "", "Directory for the MP3 file (default current directory)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.New(extractOutputDir)
	if err != nil {
		return err
	}

	// Transcription needs the engine up front; fail before any download
	// work starts rather than after minutes of transfer.
	if extractTranscribe {
		if err := app.Transcriber.Engine().Available(); err != nil {
			var missing *transcribe.MissingDependencyError
			if errors.As(err, &missing) {
				return fmt.Errorf("%s is required for --transcribe: %s", missing.Name, missing.Hint)
			}
			return err
		}
	}

	model := extractModel
	if model == "" {
		model = app.Settings.ModelName
	}

	runID, err := app.Runner.Start(domain.Request{
		SourceURL:          args[0],
		ModelName:          model,
		GenerateTranscript: extractTranscribe,
	})
	if err != nil {
		return err
	}

	return renderRun(cmd, app.Events, runID)
}

// renderRun drains the event stream for one run and reports its outcome.
func renderRun(cmd *cobra.Command, bus *pipeline.Bus, runID string) error {
	out := cmd.OutOrStdout()
	progressOpen := false

	for event := range bus.Events() {
		if event.RunID != runID {
			continue
		}

		switch event.Type {
		case pipeline.EventTypeProgress:
			fmt.Fprintf(out, "\r  %5.1f%%", event.Percent)
			progressOpen = true
		case pipeline.EventTypeStatus:
			if progressOpen {
				fmt.Fprintln(out)
				progressOpen = false
			}
			fmt.Fprintln(out, event.Message)
		case pipeline.EventTypeResult:
			if progressOpen {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "Saved: %s\n", event.OutputPath)
			if event.Partial {
				fmt.Fprintf(out, "Warning: %s\n", event.Message)
			}
			if transcript := strings.TrimSpace(event.Transcript); transcript != "" {
				fmt.Fprintf(out, "\nTranscript:\n%s\n", transcript)
			}
			return nil
		case pipeline.EventTypeError:
			if progressOpen {
				fmt.Fprintln(out)
			}
			return errors.New(event.Message)
		}
	}

	return errors.New("event stream closed before the run finished")
}
