package run

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
)

// convergingStep converges on first apply: Check reports needs-apply
// until Apply has run, then satisfied. This is the behavior every real
// step has, so repeated runs exercise idempotence.
func convergingStep(id string, deps ...string) (*scriptedStep, *int) {
	applies := 0
	converged := false
	step := newScriptedStep(id, deps...)
	step.checkFn = func(_ sequence.RunContext) (sequence.StepStatus, error) {
		if converged {
			return sequence.StatusSatisfied, nil
		}
		return sequence.StatusNeedsApply, nil
	}
	step.applyFn = func(_ sequence.RunContext) error {
		applies++
		converged = true
		return nil
	}
	return step, &applies
}

func TestExecutor_EmptySequence(t *testing.T) {
	executor := NewExecutor(mocks.NewProbe())

	result, err := executor.Execute(context.Background(), sequence.New())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Results()) != 0 {
		t.Errorf("results len = %d, want 0", len(result.Results()))
	}
	if result.Outcome() != OutcomeCompleted {
		t.Errorf("Outcome = %v, want %v", result.Outcome(), OutcomeCompleted)
	}
}

func TestExecutor_SingleStep_Applies(t *testing.T) {
	step, applies := convergingStep("apt:install:git")
	seq := buildSequence(t, step)

	executor := NewExecutor(mocks.NewProbe())
	result, err := executor.Execute(context.Background(), seq)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if *applies != 1 {
		t.Errorf("applies = %d, want 1", *applies)
	}

	res := result.Results()[0]
	if !res.Success() {
		t.Error("Applied step should report success")
	}
	if !res.Applied() {
		t.Error("Applied step should report Applied() = true")
	}
	if result.Outcome() != OutcomeCompleted {
		t.Errorf("Outcome = %v, want %v", result.Outcome(), OutcomeCompleted)
	}
}

func TestExecutor_SatisfiedStep_NotApplied(t *testing.T) {
	applied := false
	step := newScriptedStep("apt:install:git")
	step.checkFn = func(_ sequence.RunContext) (sequence.StepStatus, error) {
		return sequence.StatusSatisfied, nil
	}
	step.applyFn = func(_ sequence.RunContext) error {
		applied = true
		return nil
	}
	seq := buildSequence(t, step)

	executor := NewExecutor(mocks.NewProbe())
	result, err := executor.Execute(context.Background(), seq)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if applied {
		t.Error("Satisfied step must not be applied")
	}
	res := result.Results()[0]
	if !res.Success() {
		t.Error("Satisfied step should report success")
	}
	if res.Applied() {
		t.Error("Satisfied step should report Applied() = false")
	}
}

func TestExecutor_SecondRun_AppliesNothing(t *testing.T) {
	first, firstApplies := convergingStep("apt:update")
	second, secondApplies := convergingStep("apt:install:git", "apt:update")
	third, thirdApplies := convergingStep("git:config")
	seq := buildSequence(t, first, second, third)

	executor := NewExecutor(mocks.NewProbe())

	result, err := executor.Execute(context.Background(), seq)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if got := result.Summary().Applied; got != 3 {
		t.Fatalf("first run Applied = %d, want 3", got)
	}

	// The host converged; a second run must change nothing.
	result, err = executor.Execute(context.Background(), seq)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}

	summary := result.Summary()
	if summary.Applied != 0 {
		t.Errorf("second run Applied = %d, want 0", summary.Applied)
	}
	if summary.Satisfied != 3 {
		t.Errorf("second run Satisfied = %d, want 3", summary.Satisfied)
	}
	if *firstApplies+*secondApplies+*thirdApplies != 3 {
		t.Errorf("total applies = %d, want 3",
			*firstApplies+*secondApplies+*thirdApplies)
	}
	if result.Outcome() != OutcomeCompleted {
		t.Errorf("Outcome = %v, want %v", result.Outcome(), OutcomeCompleted)
	}
}

func TestExecutor_ExecutesInDeclarationOrder(t *testing.T) {
	var mu sync.Mutex
	order := make([]string, 0)

	track := func(name string) *scriptedStep {
		step := newScriptedStep(name)
		step.applyFn = func(_ sequence.RunContext) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
		return step
	}

	seq := buildSequence(t,
		track("apt:update"),
		track("docker:install"),
		track("ssh:config"),
	)

	executor := NewExecutor(mocks.NewProbe())
	if _, err := executor.Execute(context.Background(), seq); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []string{"apt:update", "docker:install", "ssh:config"}
	if len(order) != len(want) {
		t.Fatalf("order len = %d, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestExecutor_FatalFailure_AbortsRun(t *testing.T) {
	first := newScriptedStep("apt:update")
	first.policy = sequence.PolicyFatal
	first.applyFn = func(_ sequence.RunContext) error {
		return errors.New("could not resolve archive.ubuntu.com")
	}

	secondApplied := false
	second := newScriptedStep("apt:install:git")
	second.applyFn = func(_ sequence.RunContext) error {
		secondApplied = true
		return nil
	}
	third := newScriptedStep("git:config")

	seq := buildSequence(t, first, second, third)

	executor := NewExecutor(mocks.NewProbe())
	result, err := executor.Execute(context.Background(), seq)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if secondApplied {
		t.Error("Steps after a fatal failure must not run")
	}

	results := result.Results()
	if len(results) != 3 {
		t.Fatalf("results len = %d, want 3: every step is reported", len(results))
	}
	if results[0].Status() != sequence.StatusFailed {
		t.Errorf("first status = %v, want %v", results[0].Status(), sequence.StatusFailed)
	}
	for _, res := range results[1:] {
		if res.Status() != sequence.StatusSkipped {
			t.Errorf("%s status = %v, want %v", res.StepID(), res.Status(), sequence.StatusSkipped)
		}
		if res.Reason() == "" {
			t.Errorf("%s should carry a not-attempted reason", res.StepID())
		}
	}

	if result.Outcome() != OutcomeFailed {
		t.Errorf("Outcome = %v, want %v", result.Outcome(), OutcomeFailed)
	}
	if result.ExitCode() != 1 {
		t.Errorf("ExitCode = %d, want 1", result.ExitCode())
	}
	if result.FatalError() == nil {
		t.Error("FatalError() should return the aborting error")
	}
}

func TestExecutor_RecoverableFailure_ContinuesRun(t *testing.T) {
	first := newScriptedStep("motd:script")
	first.applyFn = func(_ sequence.RunContext) error {
		return errors.New("read-only file system")
	}

	second, applies := convergingStep("git:config")
	seq := buildSequence(t, first, second)

	executor := NewExecutor(mocks.NewProbe())
	result, err := executor.Execute(context.Background(), seq)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if *applies != 1 {
		t.Error("Steps after a recoverable failure must still run")
	}

	results := result.Results()
	if results[0].Status() != sequence.StatusFailed {
		t.Errorf("first status = %v, want %v", results[0].Status(), sequence.StatusFailed)
	}
	if !results[0].IsWarning() {
		t.Error("Recoverable failure should count as a warning")
	}
	if !results[1].Success() {
		t.Error("Second step should have converged")
	}

	if result.Outcome() != OutcomeCompletedWithWarnings {
		t.Errorf("Outcome = %v, want %v", result.Outcome(), OutcomeCompletedWithWarnings)
	}
	if result.ExitCode() != 0 {
		t.Errorf("ExitCode = %d, want 0: warnings do not fail the run", result.ExitCode())
	}
	if got := result.Summary().Warnings; got != 1 {
		t.Errorf("Warnings = %d, want 1", got)
	}
}

func TestExecutor_CheckError_FollowsPolicy(t *testing.T) {
	t.Run("fatal policy aborts", func(t *testing.T) {
		first := newScriptedStep("apt:update")
		first.policy = sequence.PolicyFatal
		first.checkFn = func(_ sequence.RunContext) (sequence.StepStatus, error) {
			return sequence.StatusUnknown, errors.New("dpkg database locked")
		}
		second := newScriptedStep("apt:install:git")
		seq := buildSequence(t, first, second)

		executor := NewExecutor(mocks.NewProbe())
		result, err := executor.Execute(context.Background(), seq)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if result.Outcome() != OutcomeFailed {
			t.Errorf("Outcome = %v, want %v", result.Outcome(), OutcomeFailed)
		}
	})

	t.Run("warn policy continues", func(t *testing.T) {
		first := newScriptedStep("starship:install")
		first.checkFn = func(_ sequence.RunContext) (sequence.StepStatus, error) {
			return sequence.StatusUnknown, errors.New("starship exited 127")
		}
		second, applies := convergingStep("git:config")
		seq := buildSequence(t, first, second)

		executor := NewExecutor(mocks.NewProbe())
		result, err := executor.Execute(context.Background(), seq)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if *applies != 1 {
			t.Error("Run should continue past a recoverable check error")
		}
		if result.Outcome() != OutcomeCompletedWithWarnings {
			t.Errorf("Outcome = %v, want %v", result.Outcome(), OutcomeCompletedWithWarnings)
		}
	})
}

func TestExecutor_GatedStep_MissingCommand_SkipsWithWarning(t *testing.T) {
	checked := false
	gated := newGatedStep("starship:install", "curl")
	gated.checkFn = func(_ sequence.RunContext) (sequence.StepStatus, error) {
		checked = true
		return sequence.StatusNeedsApply, nil
	}
	after, applies := convergingStep("git:config")
	seq := buildSequence(t, gated, after)

	executor := NewExecutor(mocks.NewProbe()) // host has no curl
	result, err := executor.Execute(context.Background(), seq)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	res := result.Results()[0]
	if res.Status() != sequence.StatusSkipped {
		t.Errorf("status = %v, want %v", res.Status(), sequence.StatusSkipped)
	}
	if !res.IsWarning() {
		t.Error("Capability-gated skip should count as a warning")
	}
	if res.Reason() == "" {
		t.Error("Gated skip should explain which command is missing")
	}
	if checked {
		t.Error("A gated step must not be checked when its command is absent")
	}
	if *applies != 1 {
		t.Error("Run should continue past a gated skip")
	}
	if result.Outcome() != OutcomeCompletedWithWarnings {
		t.Errorf("Outcome = %v, want %v", result.Outcome(), OutcomeCompletedWithWarnings)
	}
}

func TestExecutor_GatedStep_CommandPresent_Runs(t *testing.T) {
	gated := newGatedStep("starship:install", "curl")
	applied := false
	gated.applyFn = func(_ sequence.RunContext) error {
		applied = true
		return nil
	}
	seq := buildSequence(t, gated)

	executor := NewExecutor(mocks.NewProbe("curl"))
	result, err := executor.Execute(context.Background(), seq)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !applied {
		t.Error("Gated step should run when its command is present")
	}
	if result.Outcome() != OutcomeCompleted {
		t.Errorf("Outcome = %v, want %v", result.Outcome(), OutcomeCompleted)
	}
}

func TestExecutor_DependencyFailed_SkipsDependents(t *testing.T) {
	first := newScriptedStep("node:install")
	first.applyFn = func(_ sequence.RunContext) error {
		return errors.New("nodesource setup failed")
	}

	dependentApplied := false
	second := newScriptedStep("npm:install:typescript", "node:install")
	second.applyFn = func(_ sequence.RunContext) error {
		dependentApplied = true
		return nil
	}

	unrelated, applies := convergingStep("git:config")
	seq := buildSequence(t, first, second, unrelated)

	executor := NewExecutor(mocks.NewProbe())
	result, err := executor.Execute(context.Background(), seq)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if dependentApplied {
		t.Error("Dependent of a failed step must not run")
	}
	if *applies != 1 {
		t.Error("Steps independent of the failure must still run")
	}

	results := result.Results()
	if results[1].Status() != sequence.StatusSkipped {
		t.Errorf("dependent status = %v, want %v", results[1].Status(), sequence.StatusSkipped)
	}
	if results[1].Reason() == "" {
		t.Error("Dependent skip should name the failed dependency")
	}
}

func TestExecutor_DependencySkipped_SkipsDependents(t *testing.T) {
	gated := newGatedStep("docker:install", "curl")
	dependent := newScriptedStep("docker:group:dev", "docker:install")
	seq := buildSequence(t, gated, dependent)

	executor := NewExecutor(mocks.NewProbe()) // no curl: gate closes
	result, err := executor.Execute(context.Background(), seq)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	results := result.Results()
	if results[0].Status() != sequence.StatusSkipped {
		t.Fatalf("gated status = %v, want %v", results[0].Status(), sequence.StatusSkipped)
	}
	if results[1].Status() != sequence.StatusSkipped {
		t.Errorf("dependent status = %v, want %v", results[1].Status(), sequence.StatusSkipped)
	}
}

func TestExecutor_ApplySkipSentinel_SkipsWithWarning(t *testing.T) {
	step := newScriptedStep("ssh:key")
	step.applyFn = func(_ sequence.RunContext) error {
		return fmt.Errorf("%w: no key provided", sequence.ErrSkipStep)
	}
	after, applies := convergingStep("ssh:config")
	seq := buildSequence(t, step, after)

	executor := NewExecutor(mocks.NewProbe())
	result, err := executor.Execute(context.Background(), seq)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	res := result.Results()[0]
	if res.Status() != sequence.StatusSkipped {
		t.Errorf("status = %v, want %v: a skip sentinel is not a failure", res.Status(), sequence.StatusSkipped)
	}
	if res.Failed() {
		t.Error("Skip sentinel must not be recorded as a failure")
	}
	if !res.IsWarning() {
		t.Error("Skip sentinel should count as a warning")
	}
	if res.Reason() == "" {
		t.Error("Skip should carry the sentinel's message")
	}
	if *applies != 1 {
		t.Error("Run should continue past a skipped step")
	}
	if result.Outcome() != OutcomeCompletedWithWarnings {
		t.Errorf("Outcome = %v, want %v", result.Outcome(), OutcomeCompletedWithWarnings)
	}
}

func TestExecutor_DryRun_AppliesNothing(t *testing.T) {
	step, applies := convergingStep("apt:install:git")
	satisfied := newScriptedStep("apt:update")
	satisfied.checkFn = func(_ sequence.RunContext) (sequence.StepStatus, error) {
		return sequence.StatusSatisfied, nil
	}
	seq := buildSequence(t, satisfied, step)

	executor := NewExecutor(mocks.NewProbe()).WithDryRun(true)
	result, err := executor.Execute(context.Background(), seq)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if *applies != 0 {
		t.Errorf("applies = %d, want 0: dry run must not change the host", *applies)
	}

	results := result.Results()
	if results[0].Status() != sequence.StatusSatisfied {
		t.Errorf("satisfied status = %v, want %v", results[0].Status(), sequence.StatusSatisfied)
	}
	if results[1].Status() != sequence.StatusNeedsApply {
		t.Errorf("pending status = %v, want %v", results[1].Status(), sequence.StatusNeedsApply)
	}

	summary := result.Summary()
	if summary.WouldApply != 1 {
		t.Errorf("WouldApply = %d, want 1", summary.WouldApply)
	}
	if summary.Applied != 0 {
		t.Errorf("Applied = %d, want 0", summary.Applied)
	}
}

func TestExecutor_ContextCanceled_SkipsRemainder(t *testing.T) {
	step, applies := convergingStep("apt:update")
	second := newScriptedStep("apt:install:git")
	seq := buildSequence(t, step, second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor := NewExecutor(mocks.NewProbe())
	result, err := executor.Execute(ctx, seq)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if *applies != 0 {
		t.Error("Canceled run must not apply steps")
	}
	for _, res := range result.Results() {
		if res.Status() != sequence.StatusSkipped {
			t.Errorf("%s status = %v, want %v", res.StepID(), res.Status(), sequence.StatusSkipped)
		}
	}
	if result.Outcome() != OutcomeCanceled {
		t.Errorf("Outcome = %v, want %v", result.Outcome(), OutcomeCanceled)
	}
	if result.ExitCode() != 1 {
		t.Errorf("ExitCode = %d, want 1", result.ExitCode())
	}
}

func TestExecutor_Progress_ReportsEveryStep(t *testing.T) {
	type report struct {
		index  int
		total  int
		stepID string
		status sequence.StepStatus
	}

	var mu sync.Mutex
	reports := make([]report, 0)

	first, _ := convergingStep("apt:update")
	second := newScriptedStep("motd:script")
	second.applyFn = func(_ sequence.RunContext) error {
		return errors.New("read-only file system")
	}
	seq := buildSequence(t, first, second)

	executor := NewExecutor(mocks.NewProbe()).
		WithProgress(func(index, total int, step sequence.Step, result StepResult) {
			mu.Lock()
			reports = append(reports, report{
				index:  index,
				total:  total,
				stepID: step.ID().String(),
				status: result.Status(),
			})
			mu.Unlock()
		})

	if _, err := executor.Execute(context.Background(), seq); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(reports) != 2 {
		t.Fatalf("reports len = %d, want 2", len(reports))
	}
	if reports[0].index != 1 || reports[0].total != 2 {
		t.Errorf("first report position = %d/%d, want 1/2", reports[0].index, reports[0].total)
	}
	if reports[1].stepID != "motd:script" || reports[1].status != sequence.StatusFailed {
		t.Errorf("second report = %s/%v, want motd:script/%v",
			reports[1].stepID, reports[1].status, sequence.StatusFailed)
	}
}

func TestExecutor_FailureError_CarriesProviderAndStep(t *testing.T) {
	step := newScriptedStep("docker:group:dev")
	step.applyFn = func(_ sequence.RunContext) error {
		return errors.New("usermod exited 1")
	}
	seq := buildSequence(t, step)

	executor := NewExecutor(mocks.NewProbe())
	result, err := executor.Execute(context.Background(), seq)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	res := result.Results()[0]
	var stepErr *sequence.StepError
	if !errors.As(res.Error(), &stepErr) {
		t.Fatalf("error %T should be a StepError", res.Error())
	}
	if stepErr.IsFatal() {
		t.Error("Warn-policy failure should be recoverable, not fatal")
	}
}
