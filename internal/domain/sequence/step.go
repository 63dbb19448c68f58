package sequence

// Step represents an idempotent unit of provisioning work.
// Each step can detect whether its target state already holds and,
// when it does not, converge the host toward it.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// DependsOn returns the IDs of steps that must run before this one.
	// Dependencies may only reference steps declared earlier in the
	// sequence; execution order is always declaration order.
	DependsOn() []StepID

	// FailurePolicy declares how the executor reacts when this step fails.
	FailurePolicy() FailurePolicy

	// Check determines the current status of this step.
	// Returns StatusSatisfied if no action is needed, StatusNeedsApply
	// if the host must be converged.
	Check(ctx RunContext) (StepStatus, error)

	// Apply executes the step's changes.
	// This should be idempotent - running multiple times produces the same result.
	Apply(ctx RunContext) error

	// Explain returns human-readable context for this step.
	Explain(ctx ExplainContext) Explanation
}

// GatedStep extends Step with a capability requirement.
// Steps that implement this interface are skipped, not failed, when
// the named command is absent from the host.
type GatedStep interface {
	Step

	// RequiresCommand returns the command that must be present on PATH
	// for this step to be attempted.
	RequiresCommand() string
}

// IsGated checks if a step implements the GatedStep interface.
func IsGated(step Step) bool {
	_, ok := step.(GatedStep)
	return ok
}

// AsGated attempts to cast a step to GatedStep.
// Returns nil if the step declares no capability requirement.
func AsGated(step Step) GatedStep {
	if g, ok := step.(GatedStep); ok {
		return g
	}
	return nil
}
