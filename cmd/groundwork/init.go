package main

import (
	"context"
	"fmt"
	"os"

	"github.com/felixgeelhaar/groundwork/internal/config"
	"github.com/felixgeelhaar/groundwork/internal/templates"
	"github.com/felixgeelhaar/groundwork/internal/tui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter manifest",
	Long: `Init writes a groundwork.yaml to converge the host onto. An
interactive wizard asks for the few host-specific values (ssh host
alias, git identity, node channel); every section in the result is
optional and safe to delete.

Without a terminal, or with --defaults, init skips the wizard and
writes the default manifest.`,
	Example: `  groundwork init
  groundwork init --defaults
  groundwork init --config ./server.yaml --force`,
	RunE: runInit,
}

var (
	initDefaults bool
	initForce    bool
)

func init() {
	initCmd.Flags().BoolVar(&initDefaults, "defaults", false, "Write the default manifest without prompting")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing manifest")

	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		path = config.FileName
	}

	// Check before the wizard, so nobody fills in nine fields only to
	// learn the file already exists.
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("%s already exists.\n", path)
			fmt.Println("Use 'groundwork plan' to review it, or re-run init with --force to replace it.")
			return nil
		}
	}

	data := templates.DefaultManifestData()

	switch {
	case initDefaults:
		// Keep the defaults.
	case !stdinIsTerminal():
		fmt.Println("No terminal detected; writing the default manifest.")
	default:
		result, err := tui.RunInitWizard(context.Background(), data)
		if err != nil {
			return err
		}
		if result.Cancelled {
			fmt.Println("Initialization cancelled.")
			return nil
		}
		data = result.Data
	}

	manifest, err := templates.GenerateManifest(data)
	if err != nil {
		return fmt.Errorf("rendering manifest: %w", err)
	}

	if err := newApp().SaveManifest(path, []byte(manifest), initForce); err != nil {
		return err
	}

	fmt.Printf("Manifest created: %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Println("  groundwork plan  - Preview what would change")
	fmt.Println("  groundwork up    - Converge the host")

	return nil
}

// stdinIsTerminal reports whether stdin is an interactive terminal.
// Piped or redirected stdin cannot drive the wizard. Tests swap this
// out.
var stdinIsTerminal = func() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
