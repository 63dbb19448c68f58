package mocks

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Input is a test double for ports.Input with a scripted payload.
type Input struct {
	mu      sync.Mutex
	payload []byte
	err     error
	prompts []string
}

// NewInput creates an Input returning the given payload.
func NewInput(payload []byte) *Input {
	return &Input{payload: payload}
}

// NewInputError creates an Input that fails with err.
func NewInputError(err error) *Input {
	return &Input{err: err}
}

// ReadSecret returns the scripted payload, recording the prompt.
func (m *Input) ReadSecret(_ context.Context, prompt string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

// Prompts returns the prompts presented, in order.
func (m *Input) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	prompts := make([]string, len(m.prompts))
	copy(prompts, m.prompts)
	return prompts
}

// Ensure Input implements ports.Input.
var _ ports.Input = (*Input)(nil)
