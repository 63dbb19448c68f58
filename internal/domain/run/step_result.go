package run

import (
	"time"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
)

// StepResult captures the outcome of executing a single step.
type StepResult struct {
	stepID   sequence.StepID
	status   sequence.StepStatus
	err      error
	duration time.Duration
	applied  bool
	warning  bool
	reason   string
}

// NewStepResult creates a new StepResult.
func NewStepResult(stepID sequence.StepID, status sequence.StepStatus, err error) StepResult {
	return StepResult{
		stepID: stepID,
		status: status,
		err:    err,
	}
}

// StepID returns the ID of the step that was executed.
func (r StepResult) StepID() sequence.StepID {
	return r.stepID
}

// Status returns the final status of the step.
func (r StepResult) Status() sequence.StepStatus {
	return r.status
}

// Error returns any error that occurred during execution.
func (r StepResult) Error() error {
	return r.err
}

// Duration returns how long the step took to execute.
func (r StepResult) Duration() time.Duration {
	return r.duration
}

// Applied returns true if the step's action actually ran.
// A satisfied step that needed no work reports false.
func (r StepResult) Applied() bool {
	return r.applied
}

// IsWarning returns true if this result counts against the run as a
// warning: a recoverable failure or a capability-gated skip.
func (r StepResult) IsWarning() bool {
	return r.warning
}

// Reason returns the human-readable explanation for a skip or warning.
func (r StepResult) Reason() string {
	return r.reason
}

// Success returns true if the step ended satisfied.
func (r StepResult) Success() bool {
	return r.status == sequence.StatusSatisfied
}

// Skipped returns true if the step was skipped.
func (r StepResult) Skipped() bool {
	return r.status == sequence.StatusSkipped
}

// Failed returns true if the step failed during check or apply.
func (r StepResult) Failed() bool {
	return r.status == sequence.StatusFailed
}

// WithDuration returns a new StepResult with duration set.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}

// WithApplied returns a new StepResult marked as actually applied.
func (r StepResult) WithApplied(applied bool) StepResult {
	r.applied = applied
	return r
}

// WithWarning returns a new StepResult that counts as a warning.
func (r StepResult) WithWarning() StepResult {
	r.warning = true
	return r
}

// WithReason returns a new StepResult with a skip or warning reason set.
func (r StepResult) WithReason(reason string) StepResult {
	r.reason = reason
	return r
}
