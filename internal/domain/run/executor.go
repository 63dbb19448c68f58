// Package run executes a compiled sequence step by step. Steps run
// strictly in declaration order, one at a time: each step is checked,
// then applied if the host has drifted from its target state. Failure
// handling follows each step's policy; only fatal failures abort the
// remainder of the run.
package run

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// ProgressFunc is invoked after each step finishes, with the step's
// position in the sequence (1-based) and its result.
type ProgressFunc func(index, total int, step sequence.Step, result StepResult)

// Executor runs the steps of a Sequence in declaration order.
type Executor struct {
	probe    ports.CapabilityProbe
	dryRun   bool
	progress ProgressFunc
}

// NewExecutor creates a new Executor.
func NewExecutor(probe ports.CapabilityProbe) *Executor {
	return &Executor{probe: probe}
}

// WithDryRun returns an Executor that reports what would change
// without applying anything.
func (e *Executor) WithDryRun(dryRun bool) *Executor {
	return &Executor{
		probe:    e.probe,
		dryRun:   dryRun,
		progress: e.progress,
	}
}

// WithProgress returns an Executor that reports each step result as it
// completes.
func (e *Executor) WithProgress(fn ProgressFunc) *Executor {
	return &Executor{
		probe:    e.probe,
		dryRun:   e.dryRun,
		progress: fn,
	}
}

// Execute runs all steps in declaration order and returns the run result.
// A step failure only stops the run when the step's policy is fatal;
// recoverable failures and capability-gated skips are recorded as
// warnings and execution continues with the next step.
func (e *Executor) Execute(ctx context.Context, seq *sequence.Sequence) (*Result, error) {
	lifecycle, err := NewLifecycle()
	if err != nil {
		return nil, fmt.Errorf("failed to build run lifecycle: %w", err)
	}
	lifecycle.Begin()
	defer lifecycle.Stop()

	result := NewResult()
	steps := seq.Steps()
	runCtx := sequence.NewRunContext(ctx).WithDryRun(e.dryRun)

	// Step IDs that failed or were skipped; dependents of these skip.
	blocked := make(map[string]string)

	abortReason := ""

	for i, step := range steps {
		stepID := step.ID().String()

		if abortReason != "" {
			res := NewStepResult(step.ID(), sequence.StatusSkipped, nil).WithReason(abortReason)
			result.Add(res)
			e.report(i, len(steps), step, res)
			continue
		}

		if ctx.Err() != nil {
			lifecycle.Cancel()
			abortReason = "run canceled"
			res := NewStepResult(step.ID(), sequence.StatusSkipped, nil).WithReason(abortReason)
			result.Add(res)
			e.report(i, len(steps), step, res)
			continue
		}

		res := e.executeStep(step, runCtx, blocked)
		result.Add(res)
		e.report(i, len(steps), step, res)

		switch {
		case res.Failed():
			blocked[stepID] = "failed"
			if step.FailurePolicy().IsFatal() {
				lifecycle.Fatal(stepID)
				abortReason = fmt.Sprintf("not attempted: step %q failed", stepID)
			} else {
				lifecycle.Warn(stepID)
			}
		case res.Skipped():
			blocked[stepID] = "was skipped"
			if res.IsWarning() {
				lifecycle.Warn(stepID)
			}
		}
	}

	if abortReason == "" {
		lifecycle.Finish()
	}
	result.Finish(lifecycle.Outcome())

	return result, nil
}

// executeStep runs a single step: capability gate, dependency check,
// status check, then apply.
func (e *Executor) executeStep(step sequence.Step, ctx sequence.RunContext, blocked map[string]string) StepResult {
	stepID := step.ID()

	// Steps gated on an absent command skip with a warning, never fail.
	if gated := sequence.AsGated(step); gated != nil {
		cmd := gated.RequiresCommand()
		if !e.probe.Has(cmd) {
			return NewStepResult(stepID, sequence.StatusSkipped, nil).
				WithReason(fmt.Sprintf("command %q not available on this host", cmd)).
				WithWarning()
		}
	}

	// Skip when an earlier dependency did not complete.
	for _, depID := range step.DependsOn() {
		if cause, ok := blocked[depID.String()]; ok {
			return NewStepResult(stepID, sequence.StatusSkipped, nil).
				WithReason(fmt.Sprintf("dependency %q %s", depID.String(), cause))
		}
	}

	status, err := step.Check(ctx)
	if err != nil {
		return e.failStep(step, sequence.NewCheckFailedError(stepID.String(), err))
	}

	// Already satisfied: report success without applying.
	if status == sequence.StatusSatisfied {
		return NewStepResult(stepID, sequence.StatusSatisfied, nil)
	}

	// Dry run: report what would happen.
	if ctx.DryRun() {
		return NewStepResult(stepID, status, nil)
	}

	start := time.Now()
	applyErr := step.Apply(ctx)
	duration := time.Since(start)

	if applyErr != nil {
		// A step may discover during apply that there is nothing to act
		// on (for example, no secret was provided). That is a skip with a
		// warning, not a failure.
		if errors.Is(applyErr, sequence.ErrSkipStep) {
			return NewStepResult(stepID, sequence.StatusSkipped, nil).
				WithReason(applyErr.Error()).
				WithWarning()
		}
		return e.failStep(step, sequence.NewApplyFailedError(stepID.String(), applyErr)).
			WithDuration(duration)
	}

	return NewStepResult(stepID, sequence.StatusSatisfied, nil).
		WithDuration(duration).
		WithApplied(true)
}

// failStep classifies a step failure according to the step's policy.
func (e *Executor) failStep(step sequence.Step, stepErr *sequence.StepError) StepResult {
	stepErr = stepErr.WithProvider(step.ID().Provider())

	if step.FailurePolicy().IsFatal() {
		return NewStepResult(step.ID(), sequence.StatusFailed, stepErr)
	}

	return NewStepResult(step.ID(), sequence.StatusFailed, stepErr.WithKind(sequence.KindRecoverable)).
		WithWarning()
}

// report invokes the progress callback if one is set.
func (e *Executor) report(index, total int, step sequence.Step, result StepResult) {
	if e.progress != nil {
		e.progress(index+1, total, step, result)
	}
}
