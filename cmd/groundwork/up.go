package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var upDryRun bool

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Converge the host onto the manifest",
	Long: `Up loads the manifest, compiles it into a step sequence, and runs
every step: check first, apply only when the host diverges. Steps that
are already satisfied report OK and change nothing, so up is safe to
re-run.

A recoverable failure (a single package, one npm install) is recorded
as a warning and the run continues; a fatal failure stops the run at
that step. Ctrl+C stops after the step in flight.`,
	Example: `  groundwork up
  groundwork up --dry-run
  groundwork up --config ./server.yaml`,
	RunE: runUp,
}

func init() {
	upCmd.Flags().BoolVar(&upDryRun, "dry-run", false, "Report what would change without changing anything")
	rootCmd.AddCommand(upCmd)
}

func runUp(_ *cobra.Command, _ []string) error {
	// SIGINT/SIGTERM cancel the context; the executor finishes the step
	// in flight and marks the rest skipped.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := newApp().Up(ctx, cfgFile, upDryRun)
	if err != nil {
		return err
	}

	if result.ExitCode() != 0 {
		// The run summary already printed the failing step; keep the
		// exit error short.
		return fmt.Errorf("provisioning %s", result.Outcome())
	}
	return nil
}
