package run

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
)

// PlanEntry represents a single step's planned execution.
type PlanEntry struct {
	step   sequence.Step
	status sequence.StepStatus
	reason string
}

// NewPlanEntry creates a new PlanEntry.
func NewPlanEntry(step sequence.Step, status sequence.StepStatus, reason string) PlanEntry {
	return PlanEntry{
		step:   step,
		status: status,
		reason: reason,
	}
}

// Step returns the step to be executed.
func (e PlanEntry) Step() sequence.Step {
	return e.step
}

// Status returns the current status of the step.
func (e PlanEntry) Status() sequence.StepStatus {
	return e.status
}

// Reason returns the explanation for a skipped entry.
func (e PlanEntry) Reason() string {
	return e.reason
}

// PlanSummary provides aggregate statistics about the execution plan.
type PlanSummary struct {
	Total      int
	NeedsApply int
	Satisfied  int
	Unknown    int
	Skipped    int
}

// Plan represents the full plan for executing all steps, in declaration order.
type Plan struct {
	entries []PlanEntry
}

// NewPlan creates an empty Plan.
func NewPlan() *Plan {
	return &Plan{
		entries: make([]PlanEntry, 0),
	}
}

// Add appends a plan entry.
func (p *Plan) Add(entry PlanEntry) {
	p.entries = append(p.entries, entry)
}

// Len returns the number of entries.
func (p *Plan) Len() int {
	return len(p.entries)
}

// IsEmpty returns true if there are no entries.
func (p *Plan) IsEmpty() bool {
	return len(p.entries) == 0
}

// Entries returns all plan entries.
func (p *Plan) Entries() []PlanEntry {
	return p.entries
}

// NeedsApply returns entries that require execution.
func (p *Plan) NeedsApply() []PlanEntry {
	result := make([]PlanEntry, 0)
	for _, e := range p.entries {
		if e.status == sequence.StatusNeedsApply {
			result = append(result, e)
		}
	}
	return result
}

// HasChanges returns true if any steps need to be applied.
func (p *Plan) HasChanges() bool {
	for _, e := range p.entries {
		if e.status == sequence.StatusNeedsApply {
			return true
		}
	}
	return false
}

// Summary returns aggregate statistics.
func (p *Plan) Summary() PlanSummary {
	summary := PlanSummary{Total: len(p.entries)}
	for _, e := range p.entries {
		switch e.status {
		case sequence.StatusNeedsApply:
			summary.NeedsApply++
		case sequence.StatusSatisfied:
			summary.Satisfied++
		case sequence.StatusUnknown:
			summary.Unknown++
		case sequence.StatusSkipped:
			summary.Skipped++
		case sequence.StatusFailed:
			// Checks either succeed or error out; a plan never records failures.
		}
	}
	return summary
}
