// Package ports defines the boundary interfaces between the sequencer and
// the host system it provisions.
package ports

import (
	"context"
	"strings"
)

// CommandResult captures the observable outcome of an external command.
// External processes are opaque collaborators: exit code and captured output
// are all a step may inspect.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited zero.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// TrimmedStdout returns stdout stripped of surrounding whitespace, the form
// version probes and list checks compare against.
func (r CommandResult) TrimmedStdout() string {
	return strings.TrimSpace(r.Stdout)
}

// CommandCall records one invocation for logging and test assertions.
type CommandCall struct {
	Command string
	Args    []string
}

// String renders the call the way it would appear on a shell line.
func (c CommandCall) String() string {
	if len(c.Args) == 0 {
		return c.Command
	}
	return c.Command + " " + strings.Join(c.Args, " ")
}

// CommandRunner executes external commands synchronously. Implementations
// capture stdout and stderr, and map a non-zero exit into
// CommandResult.ExitCode rather than an error; the error return is reserved
// for failing to start the process at all.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
}
