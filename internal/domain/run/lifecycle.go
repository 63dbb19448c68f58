package run

import (
	"sync"

	"github.com/felixgeelhaar/statekit"
)

// Phase represents where a run currently is in its lifecycle.
type Phase string

const (
	// PhasePending indicates the run has not started yet.
	PhasePending Phase = "pending"
	// PhaseRunning indicates steps are executing and no warnings occurred.
	PhaseRunning Phase = "running"
	// PhaseDegraded indicates steps are executing after at least one warning.
	PhaseDegraded Phase = "degraded"
	// PhaseCompleted indicates every step finished cleanly.
	PhaseCompleted Phase = "completed"
	// PhaseCompletedWithWarnings indicates the run finished past recoverable failures.
	PhaseCompletedWithWarnings Phase = "completed-with-warnings"
	// PhaseFailed indicates a fatal step aborted the run.
	PhaseFailed Phase = "failed"
	// PhaseCanceled indicates the run was canceled before finishing.
	PhaseCanceled Phase = "canceled"
)

// Event types for the run state machine.
const (
	EventBegin  = "BEGIN"
	EventWarn   = "WARN"
	EventFatal  = "FATAL"
	EventCancel = "CANCEL"
	EventFinish = "FINISH"
)

// RunState holds the state machine context.
type RunState struct{}

// Lifecycle tracks the aggregate state of a run as steps report their
// outcomes. A run starts pending, degrades on the first warning, and
// ends completed, completed with warnings, failed, or canceled. The
// machine's phase is authoritative: Outcome is read off the terminal
// state, and events sent in the wrong phase are ignored.
type Lifecycle struct {
	interp *statekit.Interpreter[RunState]

	mu       sync.Mutex
	warnings int
}

// phaseID adapts a Phase to the machine's state identifier type.
func phaseID(p Phase) statekit.StateID {
	return statekit.StateID(p)
}

// NewLifecycle builds and starts the run state machine.
func NewLifecycle() (*Lifecycle, error) {
	machine, err := statekit.NewMachine[RunState]("groundwork-run").
		WithInitial(phaseID(PhasePending)).
		WithContext(RunState{}).
		// Pending state
		State(phaseID(PhasePending)).
		On(EventBegin).Target(phaseID(PhaseRunning)).Done().
		// Running state (no warnings so far)
		State(phaseID(PhaseRunning)).
		On(EventWarn).Target(phaseID(PhaseDegraded)).
		On(EventFatal).Target(phaseID(PhaseFailed)).
		On(EventCancel).Target(phaseID(PhaseCanceled)).
		On(EventFinish).Target(phaseID(PhaseCompleted)).Done().
		// Degraded state (at least one warning recorded)
		State(phaseID(PhaseDegraded)).
		On(EventWarn).Target(phaseID(PhaseDegraded)).
		On(EventFatal).Target(phaseID(PhaseFailed)).
		On(EventCancel).Target(phaseID(PhaseCanceled)).
		On(EventFinish).Target(phaseID(PhaseCompletedWithWarnings)).Done().
		// Terminal states
		State(phaseID(PhaseCompleted)).Done().
		State(phaseID(PhaseCompletedWithWarnings)).Done().
		State(phaseID(PhaseFailed)).Done().
		State(phaseID(PhaseCanceled)).Done().
		Build()

	if err != nil {
		return nil, err
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()

	return &Lifecycle{interp: interp}, nil
}

// Begin moves the run into the running phase.
func (l *Lifecycle) Begin() {
	l.interp.Send(statekit.Event{Type: EventBegin})
}

// Warn records a recoverable failure or a capability-gated skip.
func (l *Lifecycle) Warn(stepID string) {
	l.mu.Lock()
	l.warnings++
	l.mu.Unlock()
	l.interp.Send(statekit.Event{Type: EventWarn, Payload: stepID})
}

// Fatal records a failure that aborts the run.
func (l *Lifecycle) Fatal(stepID string) {
	l.interp.Send(statekit.Event{Type: EventFatal, Payload: stepID})
}

// Cancel records that the run stopped before finishing.
func (l *Lifecycle) Cancel() {
	l.interp.Send(statekit.Event{Type: EventCancel})
}

// Finish records that every step has been visited.
func (l *Lifecycle) Finish() {
	l.interp.Send(statekit.Event{Type: EventFinish})
}

// Stop shuts down the state machine interpreter.
func (l *Lifecycle) Stop() {
	l.interp.Stop()
}

// Phase returns the machine's current phase.
func (l *Lifecycle) Phase() Phase {
	return Phase(l.interp.State().Value)
}

// Warnings returns the number of warnings recorded so far.
func (l *Lifecycle) Warnings() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.warnings
}

// Outcome maps the machine's terminal phase to the run outcome. A run
// that never reached a terminal phase did not converge.
func (l *Lifecycle) Outcome() Outcome {
	switch l.Phase() {
	case PhaseCompleted:
		return OutcomeCompleted
	case PhaseCompletedWithWarnings:
		return OutcomeCompletedWithWarnings
	case PhaseCanceled:
		return OutcomeCanceled
	default:
		return OutcomeFailed
	}
}
