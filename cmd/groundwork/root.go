package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/groundwork/internal/adapters/logging"
	"github.com/felixgeelhaar/groundwork/internal/app"
	"github.com/felixgeelhaar/groundwork/internal/config"
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	logJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "groundwork",
	Short: "An idempotent provisioner for fresh Linux servers",
	Long: `Groundwork turns a fresh Linux server into a ready development host.

It reads one declarative manifest (groundwork.yaml) and converges the
host onto it: every step checks current state first and applies only
what is missing, so running it twice changes nothing the second time.

Running groundwork with no subcommand is the same as 'groundwork up'.`,
	RunE:          runUp,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "manifest file (default: groundwork.yaml, then ~/.config/groundwork/groundwork.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostic output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit diagnostics as JSON lines")

	// Bare 'groundwork' runs up, so it takes up's flag too.
	rootCmd.Flags().BoolVar(&upDryRun, "dry-run", false, "Report what would change without changing anything")

	// Register flag completions
	registerFlagCompletions()

	rootCmd.AddCommand(versionCmd)
}

// newApp builds the application for a command run. Tests swap this out
// to inject mock adapters.
var newApp = func() *app.App {
	return app.New(app.WithLogger(buildLogger()))
}

// buildLogger maps the diagnostic flags onto a logger: silent by
// default, text at debug level with --verbose, JSON lines with
// --log-json.
func buildLogger() ports.Logger {
	if !verbose && !logJSON {
		return logging.NewNopLogger()
	}

	opts := []logging.ConsoleLoggerOption{}
	if verbose {
		opts = append(opts, logging.WithLevel(ports.LevelDebug))
	}
	if logJSON {
		opts = append(opts, logging.WithJSONFormat(true), logging.WithTimestamp(true))
	}
	return logging.NewConsoleLogger(opts...)
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}

	var stepErr *sequence.StepError
	if errors.As(err, &stepErr) {
		msg := stepErr.Error()
		if stepErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", stepErr.Suggestion)
		}
		if verbose && stepErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", stepErr.Underlying)
		}
		return msg
	}

	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}

// registerFlagCompletions sets up custom completions for global flags.
func registerFlagCompletions() {
	// Complete --config with YAML files
	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	})
}
