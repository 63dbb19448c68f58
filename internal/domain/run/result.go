package run

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
)

// Outcome is the final disposition of a run.
type Outcome string

const (
	// OutcomeCompleted means every step ended satisfied or already was.
	OutcomeCompleted Outcome = "completed"
	// OutcomeCompletedWithWarnings means the run finished past
	// recoverable failures or capability-gated skips.
	OutcomeCompletedWithWarnings Outcome = "completed-with-warnings"
	// OutcomeFailed means a fatal step aborted the run.
	OutcomeFailed Outcome = "failed"
	// OutcomeCanceled means the run stopped before visiting every step.
	OutcomeCanceled Outcome = "canceled"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// Success returns true if the run converged. Warnings do not count
// against success; only fatal failures and cancellation do.
func (o Outcome) Success() bool {
	return o == OutcomeCompleted || o == OutcomeCompletedWithWarnings
}

// RunSummary provides aggregate statistics about a finished run.
type RunSummary struct {
	Total      int // steps visited
	Satisfied  int // already in the desired state, nothing done
	Applied    int // converged by running the step's action
	WouldApply int // dry run only: steps that would have acted
	Failed     int // failed during check or apply
	Warnings   int // recoverable failures plus capability-gated skips
	Skipped    int // not attempted
}

// Result captures the outcome of a full run.
type Result struct {
	id         string
	results    []StepResult
	outcome    Outcome
	startedAt  time.Time
	finishedAt time.Time
}

// NewResult creates an empty Result with a fresh run ID.
func NewResult() *Result {
	return &Result{
		id:        uuid.NewString(),
		results:   make([]StepResult, 0),
		startedAt: time.Now(),
	}
}

// ID returns the unique identifier of this run.
func (r *Result) ID() string {
	return r.id
}

// Add appends a step result.
func (r *Result) Add(res StepResult) {
	r.results = append(r.results, res)
}

// Results returns all step results in execution order.
func (r *Result) Results() []StepResult {
	return r.results
}

// Outcome returns the final disposition of the run.
func (r *Result) Outcome() Outcome {
	return r.outcome
}

// Finish records the outcome and the completion time.
func (r *Result) Finish(outcome Outcome) {
	r.outcome = outcome
	r.finishedAt = time.Now()
}

// StartedAt returns when the run began.
func (r *Result) StartedAt() time.Time {
	return r.startedAt
}

// Duration returns how long the run took.
func (r *Result) Duration() time.Duration {
	if r.finishedAt.IsZero() {
		return 0
	}
	return r.finishedAt.Sub(r.startedAt)
}

// ExitCode maps the outcome to a process exit code. Warnings exit zero;
// only fatal failures and cancellation are non-zero.
func (r *Result) ExitCode() int {
	if r.outcome.Success() {
		return 0
	}
	return 1
}

// FatalError returns the StepError that aborted the run, or nil.
func (r *Result) FatalError() *sequence.StepError {
	for _, res := range r.results {
		if res.Error() == nil {
			continue
		}
		var stepErr *sequence.StepError
		if errors.As(res.Error(), &stepErr) && stepErr.IsFatal() {
			return stepErr
		}
	}
	return nil
}

// Summary returns aggregate statistics.
func (r *Result) Summary() RunSummary {
	summary := RunSummary{Total: len(r.results)}
	for _, res := range r.results {
		switch res.Status() {
		case sequence.StatusSatisfied:
			if res.Applied() {
				summary.Applied++
			} else {
				summary.Satisfied++
			}
		case sequence.StatusNeedsApply, sequence.StatusUnknown:
			summary.WouldApply++
		case sequence.StatusFailed:
			summary.Failed++
		case sequence.StatusSkipped:
			summary.Skipped++
		}
		if res.IsWarning() {
			summary.Warnings++
		}
	}
	return summary
}
