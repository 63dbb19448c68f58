package sequence

import (
	"errors"
	"fmt"
)

// Errors for Sequence operations.
var (
	ErrDuplicateStep = errors.New("step with this ID already exists")
	ErrMissingDep    = errors.New("step depends on nonexistent step")
	ErrForwardDep    = errors.New("step depends on a later step")
)

// Sequence is an ordered list of steps. Steps execute strictly in
// declaration order, one at a time; dependencies may only point at
// earlier steps, so no reordering ever takes place.
type Sequence struct {
	steps []Step
	index map[string]int // step ID -> position in steps
}

// New creates an empty Sequence.
func New() *Sequence {
	return &Sequence{
		steps: make([]Step, 0),
		index: make(map[string]int),
	}
}

// Len returns the number of steps in the sequence.
func (s *Sequence) Len() int {
	return len(s.steps)
}

// Add appends a step to the sequence.
// Returns ErrDuplicateStep if a step with the same ID already exists.
func (s *Sequence) Add(step Step) error {
	id := step.ID().String()

	if _, exists := s.index[id]; exists {
		return ErrDuplicateStep
	}

	s.index[id] = len(s.steps)
	s.steps = append(s.steps, step)

	return nil
}

// Get retrieves a step by ID.
func (s *Sequence) Get(id StepID) (Step, bool) {
	pos, ok := s.index[id.String()]
	if !ok {
		return nil, false
	}
	return s.steps[pos], true
}

// Position returns the declaration position of a step, or -1 if absent.
func (s *Sequence) Position(id StepID) int {
	pos, ok := s.index[id.String()]
	if !ok {
		return -1
	}
	return pos
}

// Steps returns all steps in declaration order.
func (s *Sequence) Steps() []Step {
	steps := make([]Step, len(s.steps))
	copy(steps, s.steps)
	return steps
}

// Validate checks that every dependency exists and is declared before
// the step that needs it.
func (s *Sequence) Validate() error {
	for pos, step := range s.steps {
		for _, dep := range step.DependsOn() {
			depPos, exists := s.index[dep.String()]
			if !exists {
				return fmt.Errorf("%w: step %q depends on %q",
					ErrMissingDep, step.ID().String(), dep.String())
			}
			if depPos >= pos {
				return fmt.Errorf("%w: step %q depends on %q",
					ErrForwardDep, step.ID().String(), dep.String())
			}
		}
	}
	return nil
}
