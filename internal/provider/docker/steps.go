package docker

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/provider/commandutil"
	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// InstallStep installs the Docker engine via the official convenience
// script. The script manages its own apt sources, so the step only
// needs curl on the host.
type InstallStep struct {
	installerURL string
	id           sequence.StepID
	runner       ports.CommandRunner
}

// NewInstallStep creates a new InstallStep.
func NewInstallStep(installerURL string, runner ports.CommandRunner) *InstallStep {
	return &InstallStep{
		installerURL: installerURL,
		id:           sequence.MustNewStepID("docker:install"),
		runner:       runner,
	}
}

// ID returns the step identifier.
func (s *InstallStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *InstallStep) DependsOn() []sequence.StepID {
	return nil
}

// FailurePolicy returns the failure policy. A host without Docker is
// still usable; later steps do not assume the engine exists.
func (s *InstallStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyWarnAndContinue
}

// RequiresCommand gates the step on curl, which fetches the installer.
func (s *InstallStep) RequiresCommand() string {
	return "curl"
}

// Check reports whether the engine is already present.
func (s *InstallStep) Check(ctx sequence.RunContext) (sequence.StepStatus, error) {
	result, err := s.runner.Run(ctx.Context(), "docker", "--version")
	if err != nil {
		if commandutil.IsCommandNotFound(err) {
			return sequence.StatusNeedsApply, nil
		}
		return sequence.StatusUnknown, err
	}
	if result.Success() {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Apply downloads and runs the convenience script. The pipeline runs
// through sh because the script is designed to be piped.
func (s *InstallStep) Apply(ctx sequence.RunContext) error {
	if err := validation.ValidateURL(s.installerURL); err != nil {
		return fmt.Errorf("invalid installer URL: %w", err)
	}

	script := fmt.Sprintf("curl -fsSL %s | sh", s.installerURL)
	result, err := s.runner.Run(ctx.Context(), "sh", "-c", script)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("docker install script failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *InstallStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	return sequence.NewExplanation(
		"Install Docker engine",
		fmt.Sprintf("Downloads %s and runs it through sh to install the Docker engine and CLI.", s.installerURL),
	)
}

// GroupStep adds an account to the docker group so it can use the
// engine without sudo.
type GroupStep struct {
	user   string
	id     sequence.StepID
	deps   []sequence.StepID
	runner ports.CommandRunner
}

// NewGroupStep creates a new GroupStep.
func NewGroupStep(user string, runner ports.CommandRunner) *GroupStep {
	return &GroupStep{
		user:   user,
		id:     sequence.MustNewStepID("docker:group:" + user),
		runner: runner,
	}
}

// WithDependsOn sets the step dependencies.
func (s *GroupStep) WithDependsOn(deps ...sequence.StepID) *GroupStep {
	s.deps = deps
	return s
}

// ID returns the step identifier.
func (s *GroupStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *GroupStep) DependsOn() []sequence.StepID {
	return s.deps
}

// FailurePolicy returns the failure policy.
func (s *GroupStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyWarnAndContinue
}

// Check reports whether the account is already in the docker group.
func (s *GroupStep) Check(ctx sequence.RunContext) (sequence.StepStatus, error) {
	result, err := s.runner.Run(ctx.Context(), "id", "-nG", s.user)
	if err != nil {
		return sequence.StatusUnknown, err
	}
	if !result.Success() {
		return sequence.StatusUnknown, fmt.Errorf("account %q not resolvable: %s", s.user, result.Stderr)
	}

	for _, group := range strings.Fields(result.Stdout) {
		if group == "docker" {
			return sequence.StatusSatisfied, nil
		}
	}
	return sequence.StatusNeedsApply, nil
}

// Apply adds the account to the docker group.
func (s *GroupStep) Apply(ctx sequence.RunContext) error {
	if err := validation.ValidateUsername(s.user); err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}

	result, err := s.runner.Run(ctx.Context(), "usermod", "-aG", "docker", s.user)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("usermod -aG docker %s failed: %s", s.user, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *GroupStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	return sequence.NewExplanation(
		fmt.Sprintf("Add %s to docker group", s.user),
		fmt.Sprintf("Appends the docker group to %s's supplementary groups. Takes effect at next login.", s.user),
	)
}

var _ sequence.GatedStep = (*InstallStep)(nil)
var _ sequence.Step = (*GroupStep)(nil)
