package apt

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/validation"
)

const (
	// listsDir is where apt-get update leaves its package index.
	listsDir = "/var/lib/apt/lists"

	// listsFreshFor is how long a refreshed index counts as current.
	// Within this window a repeated run reports the update step as
	// satisfied instead of refreshing again.
	listsFreshFor = 24 * time.Hour
)

// requiredCommand gates every apt step: hosts without apt-get (non-Debian
// systems) skip the provider with a warning instead of failing the run.
const requiredCommand = "apt-get"

// UpdateStep refreshes the apt package index.
type UpdateStep struct {
	id     sequence.StepID
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewUpdateStep creates a new UpdateStep.
func NewUpdateStep(runner ports.CommandRunner, fs ports.FileSystem) *UpdateStep {
	return &UpdateStep{
		id:     sequence.MustNewStepID("apt:update"),
		runner: runner,
		fs:     fs,
	}
}

// ID returns the step identifier.
func (s *UpdateStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *UpdateStep) DependsOn() []sequence.StepID {
	return nil
}

// FailurePolicy returns the failure policy. A host whose package index
// cannot be refreshed cannot install anything either, so this aborts.
func (s *UpdateStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyFatal
}

// RequiresCommand gates the step on apt-get being present.
func (s *UpdateStep) RequiresCommand() string {
	return requiredCommand
}

// Check reports whether the package index was refreshed recently.
func (s *UpdateStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	info, err := s.fs.GetFileInfo(listsDir)
	if err != nil {
		// No index yet; the first refresh is still pending.
		return sequence.StatusNeedsApply, nil
	}
	if time.Since(info.ModTime) < listsFreshFor {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Apply refreshes the package index.
func (s *UpdateStep) Apply(ctx sequence.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "apt-get", "update")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get update failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *UpdateStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	return sequence.NewExplanation(
		"Refresh apt package index",
		"Runs apt-get update so subsequent package installations resolve against current repository metadata.",
	)
}

// PackageStep installs a single apt package.
type PackageStep struct {
	pkg    string
	id     sequence.StepID
	policy sequence.FailurePolicy
	deps   []sequence.StepID
	runner ports.CommandRunner
}

// NewPackageStep creates a new PackageStep. The policy decides whether a
// failed installation aborts the run (core packages) or is recorded as a
// warning (optional packages).
func NewPackageStep(pkg string, policy sequence.FailurePolicy, runner ports.CommandRunner) *PackageStep {
	return &PackageStep{
		pkg:    pkg,
		id:     sequence.MustNewStepID("apt:install:" + pkg),
		policy: policy,
		runner: runner,
	}
}

// WithDependsOn sets the step dependencies.
func (s *PackageStep) WithDependsOn(deps ...sequence.StepID) *PackageStep {
	s.deps = deps
	return s
}

// ID returns the step identifier.
func (s *PackageStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *PackageStep) DependsOn() []sequence.StepID {
	return s.deps
}

// FailurePolicy returns the failure policy.
func (s *PackageStep) FailurePolicy() sequence.FailurePolicy {
	return s.policy
}

// RequiresCommand gates the step on apt-get being present.
func (s *PackageStep) RequiresCommand() string {
	return requiredCommand
}

// Check determines if the package is already installed.
func (s *PackageStep) Check(ctx sequence.RunContext) (sequence.StepStatus, error) {
	result, err := s.runner.Run(ctx.Context(), "dpkg-query", "-W", "-f=${Package}\t${Version}\t${db:Status-Status}\n", s.pkg)
	if err != nil {
		return sequence.StatusUnknown, err
	}

	// dpkg-query exits non-zero when the package is unknown.
	if !result.Success() {
		return sequence.StatusNeedsApply, nil
	}

	// The third tab-separated field is the dpkg status. "not-installed"
	// and "half-installed" contain the word installed too, so the field
	// is compared exactly.
	fields := strings.Split(strings.TrimSpace(result.Stdout), "\t")
	if len(fields) == 3 && fields[2] == "installed" {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Apply installs the package.
func (s *PackageStep) Apply(ctx sequence.RunContext) error {
	// Validate again before execution to prevent command injection.
	if err := validation.ValidatePackageName(s.pkg); err != nil {
		return fmt.Errorf("invalid package name: %w", err)
	}

	result, err := s.runner.Run(ctx.Context(), "apt-get", "install", "-y", s.pkg)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get install %s failed: %s", s.pkg, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *PackageStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	detail := fmt.Sprintf("Installs the %s package via apt-get.", s.pkg)
	if !s.policy.IsFatal() {
		detail += " The package is optional; a failed installation is recorded as a warning."
	}
	return sequence.NewExplanation(
		fmt.Sprintf("Install apt package %s", s.pkg),
		detail,
	)
}

// Ensure steps satisfy the capability-gated interface.
var (
	_ sequence.GatedStep = (*UpdateStep)(nil)
	_ sequence.GatedStep = (*PackageStep)(nil)
)
