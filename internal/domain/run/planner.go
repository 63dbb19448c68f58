package run

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Planner generates a Plan from a Sequence without changing the host.
// It checks each step's current status in declaration order.
type Planner struct {
	probe ports.CapabilityProbe
}

// NewPlanner creates a new Planner.
func NewPlanner(probe ports.CapabilityProbe) *Planner {
	return &Planner{probe: probe}
}

// Plan generates a Plan by checking each step's status. Steps gated on
// a command the host lacks are reported skipped without being checked.
func (p *Planner) Plan(ctx context.Context, seq *sequence.Sequence) (*Plan, error) {
	plan := NewPlan()
	runCtx := sequence.NewRunContext(ctx)

	for _, step := range seq.Steps() {
		entry, err := p.planStep(step, runCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to plan step %q: %w", step.ID().String(), err)
		}
		plan.Add(entry)
	}

	return plan, nil
}

// planStep checks a single step and generates a PlanEntry.
func (p *Planner) planStep(step sequence.Step, ctx sequence.RunContext) (PlanEntry, error) {
	if gated := sequence.AsGated(step); gated != nil {
		cmd := gated.RequiresCommand()
		if !p.probe.Has(cmd) {
			reason := fmt.Sprintf("command %q not available on this host", cmd)
			return NewPlanEntry(step, sequence.StatusSkipped, reason), nil
		}
	}

	status, err := step.Check(ctx)
	if err != nil {
		return PlanEntry{}, fmt.Errorf("check failed: %w", err)
	}

	return NewPlanEntry(step, status, ""), nil
}
