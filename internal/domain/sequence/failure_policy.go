package sequence

import "fmt"

// FailurePolicy declares how the executor reacts when a step fails.
type FailurePolicy string

const (
	// PolicyFatal aborts the run; remaining steps are not attempted.
	PolicyFatal FailurePolicy = "fatal"
	// PolicyWarnAndContinue records the failure as a warning and
	// continues with the next step.
	PolicyWarnAndContinue FailurePolicy = "warn-and-continue"
)

// String returns the string representation of the policy.
func (p FailurePolicy) String() string {
	return string(p)
}

// IsFatal returns true if a failure under this policy aborts the run.
func (p FailurePolicy) IsFatal() bool {
	return p == PolicyFatal
}

// ParseFailurePolicy parses a policy from its string form.
func ParseFailurePolicy(value string) (FailurePolicy, error) {
	switch FailurePolicy(value) {
	case PolicyFatal:
		return PolicyFatal, nil
	case PolicyWarnAndContinue:
		return PolicyWarnAndContinue, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q: must be %q or %q",
			value, PolicyFatal, PolicyWarnAndContinue)
	}
}
