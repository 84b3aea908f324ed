package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "yt-transcriber",
	Short: "Download YouTube audio and optionally transcribe it",
	Long: `yt-transcriber downloads the audio track of a YouTube video as MP3
and can generate a plain-text transcript with a local whisper.cpp engine.

Example:
  yt-transcriber extract "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  yt-transcriber extract --transcribe --model base "https://youtu.be/dQw4w9WgXcQ"`,
	SilenceUsage: true,
}

// Execute runs the root command and exits nonzero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
