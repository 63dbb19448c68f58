package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check whether the host is ready for groundwork up",
	Long: `Doctor inspects the host without changing it: platform and
privileges, whether the manifest loads and compiles, and whether the
commands the configured providers call are available. Warnings do not
block a run; missing required pieces do.`,
	Example: `  groundwork doctor
  groundwork doctor --config ./server.yaml`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	report, err := newApp().Doctor(context.Background(), cfgFile)
	if err != nil {
		return err
	}

	if !report.Ready() {
		return errors.New("host is not ready, fix the missing checks above")
	}
	return nil
}
