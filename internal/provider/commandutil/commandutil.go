// Package commandutil classifies errors from the command runner so step
// checks can tell "the tool is not installed yet" from a real failure.
// A missing binary during Check means the step needs to apply, never
// that the run is broken.
package commandutil

import (
	"errors"
	"os"
	"os/exec"
)

// IsCommandNotFound reports whether err means the executable itself was
// absent, as opposed to the command starting and then failing. It
// recognizes the shapes exec produces: the bare sentinel from LookPath,
// the *exec.Error wrapper from Command, and the *os.PathError a stale
// absolute path yields.
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, exec.ErrNotFound) {
		return true
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return true
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) && errors.Is(pathErr.Err, os.ErrNotExist) {
		return true
	}

	return false
}
