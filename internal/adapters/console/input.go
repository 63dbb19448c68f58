// Package console provides the interactive input adapter.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Terminator is the literal line that ends interactive capture, matching
// the here-doc convention operators already know. Ctrl-D works too.
const Terminator = "EOF"

// MaxSecretSize bounds interactive capture. The largest real-world private
// keys (RSA 4096 with comments) stay well under 16 KiB.
const MaxSecretSize = 64 * 1024

// ErrSecretTooLarge is returned when capture exceeds MaxSecretSize.
var ErrSecretTooLarge = errors.New("console: secret input exceeds size bound")

// StdinInput reads secret material from an interactive stream.
type StdinInput struct {
	in     io.Reader
	prompt io.Writer
}

// NewStdinInput creates an Input reading from stdin. Prompts go to stderr
// so stdout stays clean for status output.
func NewStdinInput() *StdinInput {
	return &StdinInput{in: os.Stdin, prompt: os.Stderr}
}

// NewInput creates an Input over explicit streams, for tests.
func NewInput(in io.Reader, prompt io.Writer) *StdinInput {
	return &StdinInput{in: in, prompt: prompt}
}

// ReadSecret presents prompt, then reads lines until end of input or a
// Terminator line. The terminator line is not part of the material. Capture
// is bounded by MaxSecretSize; cancellation is honored between lines.
func (s *StdinInput) ReadSecret(ctx context.Context, prompt string) ([]byte, error) {
	if prompt != "" {
		_, _ = fmt.Fprintln(s.prompt, prompt)
	}

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 4096), MaxSecretSize)

	var buf []byte
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := scanner.Text()
		if line == Terminator {
			break
		}
		if len(buf)+len(line)+1 > MaxSecretSize {
			return nil, ErrSecretTooLarge
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, ErrSecretTooLarge
		}
		return nil, fmt.Errorf("console: reading secret input: %w", err)
	}

	return buf, nil
}

// Ensure StdinInput implements ports.Input.
var _ ports.Input = (*StdinInput)(nil)
