package ports

import "context"

// Input captures secret material supplied interactively by the operator.
//
// ReadSecret presents prompt, then reads raw input until an explicit
// end-of-input signal, subject to an implementation-defined size bound.
// An empty capture returns a zero-length slice and a nil error; the caller
// decides whether that skips the consuming step.
type Input interface {
	ReadSecret(ctx context.Context, prompt string) ([]byte, error)
}
