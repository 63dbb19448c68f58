package sequence

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSkipStep signals from Apply that the step had nothing to act on
// (for example, no key material was supplied). The executor records the
// step as skipped with a warning instead of failed. Wrap it to carry a
// reason: fmt.Errorf("%w: no key provided", ErrSkipStep).
var ErrSkipStep = errors.New("step skipped")

// ErrorKind classifies a step error by whether the run can continue past it.
type ErrorKind string

const (
	// KindFatal aborts the run. Steps after the failing one are not attempted.
	KindFatal ErrorKind = "fatal"
	// KindRecoverable is recorded as a warning; the run continues.
	KindRecoverable ErrorKind = "recoverable"
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	return string(k)
}

// Error codes for sequence operations.
const (
	ErrCodeProviderFailed    = "PROVIDER_FAILED"
	ErrCodeStepDuplicate     = "STEP_DUPLICATE"
	ErrCodeDependencyMissing = "DEPENDENCY_MISSING"
	ErrCodeDependencyOrder   = "DEPENDENCY_ORDER"
	ErrCodeCompileFailed     = "COMPILE_FAILED"
	ErrCodeCheckFailed       = "CHECK_FAILED"
	ErrCodeApplyFailed       = "APPLY_FAILED"
)

// StepError represents a user-friendly sequencer error with actionable suggestions.
type StepError struct {
	Code       string    // Error code for categorization
	Kind       ErrorKind // Whether the run can continue past this error
	Message    string    // User-friendly error message
	Provider   string    // Provider that caused the error
	StepID     string    // Step ID if applicable
	Suggestion string    // Actionable suggestion to fix the error
	Underlying error     // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *StepError) Error() string {
	var parts []string

	if e.Provider != "" {
		parts = append(parts, fmt.Sprintf("provider %q", e.Provider))
	}
	if e.StepID != "" {
		parts = append(parts, fmt.Sprintf("step %q", e.StepID))
	}

	if len(parts) > 0 {
		return fmt.Sprintf("%s: %s", strings.Join(parts, ", "), e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *StepError) Unwrap() error {
	return e.Underlying
}

// IsFatal returns true if this error aborts the run.
// The zero kind counts as fatal so that unclassified errors never pass silently.
func (e *StepError) IsFatal() bool {
	return e.Kind != KindRecoverable
}

// Format returns a fully formatted error with all details.
func (e *StepError) Format() string {
	var b strings.Builder

	// Error code and message
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	// Provider context
	if e.Provider != "" {
		b.WriteString(fmt.Sprintf("\n  Provider: %s", e.Provider))
	}

	// Step context
	if e.StepID != "" {
		b.WriteString(fmt.Sprintf("\n  Step: %s", e.StepID))
	}

	// Suggestion
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  Suggestion: %s", e.Suggestion))
	}

	// Underlying error
	if e.Underlying != nil {
		b.WriteString(fmt.Sprintf("\n  Cause: %s", e.Underlying.Error()))
	}

	return b.String()
}

// NewStepError creates a new StepError with the given code and message.
func NewStepError(code, message string) *StepError {
	return &StepError{
		Code:    code,
		Kind:    KindFatal,
		Message: message,
	}
}

// WithKind returns a new StepError with the kind set.
func (e *StepError) WithKind(kind ErrorKind) *StepError {
	return &StepError{
		Code:       e.Code,
		Kind:       kind,
		Message:    e.Message,
		Provider:   e.Provider,
		StepID:     e.StepID,
		Suggestion: e.Suggestion,
		Underlying: e.Underlying,
	}
}

// WithProvider returns a new StepError with provider set.
func (e *StepError) WithProvider(provider string) *StepError {
	return &StepError{
		Code:       e.Code,
		Kind:       e.Kind,
		Message:    e.Message,
		Provider:   provider,
		StepID:     e.StepID,
		Suggestion: e.Suggestion,
		Underlying: e.Underlying,
	}
}

// WithStepID returns a new StepError with step ID set.
func (e *StepError) WithStepID(stepID string) *StepError {
	return &StepError{
		Code:       e.Code,
		Kind:       e.Kind,
		Message:    e.Message,
		Provider:   e.Provider,
		StepID:     stepID,
		Suggestion: e.Suggestion,
		Underlying: e.Underlying,
	}
}

// WithSuggestion returns a new StepError with suggestion set.
func (e *StepError) WithSuggestion(suggestion string) *StepError {
	return &StepError{
		Code:       e.Code,
		Kind:       e.Kind,
		Message:    e.Message,
		Provider:   e.Provider,
		StepID:     e.StepID,
		Suggestion: suggestion,
		Underlying: e.Underlying,
	}
}

// WithUnderlying returns a new StepError wrapping another error.
func (e *StepError) WithUnderlying(err error) *StepError {
	return &StepError{
		Code:       e.Code,
		Kind:       e.Kind,
		Message:    e.Message,
		Provider:   e.Provider,
		StepID:     e.StepID,
		Suggestion: e.Suggestion,
		Underlying: err,
	}
}

// Common sequencer error constructors.

// NewProviderFailedError creates an error for provider compilation failure.
func NewProviderFailedError(provider string, err error) *StepError {
	return &StepError{
		Code:       ErrCodeProviderFailed,
		Kind:       KindFatal,
		Message:    "provider failed to compile steps",
		Provider:   provider,
		Suggestion: fmt.Sprintf("Check your %s configuration for syntax errors or missing required fields.", provider),
		Underlying: err,
	}
}

// NewStepDuplicateError creates an error for duplicate step ID.
func NewStepDuplicateError(stepID string) *StepError {
	return &StepError{
		Code:       ErrCodeStepDuplicate,
		Kind:       KindFatal,
		Message:    "step with this ID already exists in the sequence",
		StepID:     stepID,
		Suggestion: "Each step must have a unique ID. Check for duplicate package or host entries in your manifest.",
	}
}

// NewDependencyMissingError creates an error for missing step dependency.
func NewDependencyMissingError(stepID, dependsOn string) *StepError {
	return &StepError{
		Code:       ErrCodeDependencyMissing,
		Kind:       KindFatal,
		Message:    fmt.Sprintf("step depends on '%s' which does not exist", dependsOn),
		StepID:     stepID,
		Suggestion: "Ensure all dependencies are defined. This may indicate a disabled provider or a missing manifest section.",
	}
}

// NewDependencyOrderError creates an error for a dependency declared later
// in the sequence than its dependent.
func NewDependencyOrderError(stepID, dependsOn string) *StepError {
	return &StepError{
		Code:       ErrCodeDependencyOrder,
		Kind:       KindFatal,
		Message:    fmt.Sprintf("step depends on '%s' which is declared later in the sequence", dependsOn),
		StepID:     stepID,
		Suggestion: "Steps run strictly in declaration order. Reorder the sequence so dependencies come first.",
	}
}

// NewCheckFailedError creates an error for step check failure.
func NewCheckFailedError(stepID string, err error) *StepError {
	return &StepError{
		Code:       ErrCodeCheckFailed,
		Kind:       KindFatal,
		Message:    "step status check failed",
		StepID:     stepID,
		Suggestion: "The step could not determine its current status. This may be a transient error.",
		Underlying: err,
	}
}

// NewApplyFailedError creates an error for step apply failure.
func NewApplyFailedError(stepID string, err error) *StepError {
	return &StepError{
		Code:       ErrCodeApplyFailed,
		Kind:       KindFatal,
		Message:    "step failed to apply",
		StepID:     stepID,
		Suggestion: "Check the error details and run 'groundwork doctor' for more information.",
		Underlying: err,
	}
}
