package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markpast92/YT-Transcriber/internal/bootstrap"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available whisper models and their download state",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.New("")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, model := range app.Transcriber.Models().Catalog() {
		state := " "
		if model.Downloaded {
			state = "*"
		}
		fmt.Fprintf(out, "%s %-16s %-8s %s\n", state, model.ID, model.SizeLabel, model.Description)
	}
	fmt.Fprintln(out, "\n* cached locally; others download on first use")
	return nil
}
