package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markpast92/YT-Transcriber/internal/bootstrap"
	"github.com/markpast92/YT-Transcriber/internal/domain"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment for required tools and directories",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.New("")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	report := app.Diagnose()

	for _, item := range report.Items {
		marker := "PASS"
		if item.Status == domain.DiagnosticStatusFail {
			marker = "FAIL"
		}
		fmt.Fprintf(out, "[%s] %-18s %s\n", marker, item.Name, item.Message)
		if item.Hint != "" {
			fmt.Fprintf(out, "       %s\n", item.Hint)
		}
	}

	if report.HasFailures {
		return errors.New("one or more checks failed")
	}
	fmt.Fprintln(out, "All checks passed.")
	return nil
}
