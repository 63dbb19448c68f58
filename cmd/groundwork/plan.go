package main

import (
	"context"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what up would change without changing anything",
	Long: `Plan loads the manifest, compiles it, and runs every step's check
against the current host. It prints each step as OK (already
satisfied), CHANGE (would apply), or SKIP, and never modifies the
host.`,
	Example: `  groundwork plan
  groundwork plan --config ./server.yaml`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, _ []string) error {
	_, err := newApp().Plan(context.Background(), cfgFile)
	return err
}
