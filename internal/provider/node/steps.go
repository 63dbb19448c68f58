package node

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/provider/commandutil"
)

// InstallStep installs Node.js from the NodeSource apt repository.
type InstallStep struct {
	channel  string
	minMajor int
	id       sequence.StepID
	runner   ports.CommandRunner
}

// NewInstallStep creates a new InstallStep.
func NewInstallStep(channel string, minMajor int, runner ports.CommandRunner) *InstallStep {
	return &InstallStep{
		channel:  channel,
		minMajor: minMajor,
		id:       sequence.MustNewStepID("node:install"),
		runner:   runner,
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

// FailurePolicy returns the failure policy.
func (s *InstallStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyWarnAndContinue
}

// RequiresCommand gates the step on apt-get; the NodeSource repository
// installs through apt.
func (s *InstallStep) RequiresCommand() string {
	return "apt-get"
}

// Check reports whether an acceptable Node.js is already installed: the
// binary is on PATH and its major version meets the configured minimum.
func (s *InstallStep) Check(ctx sequence.RunContext) (sequence.StepStatus, error) {
	result, err := s.runner.Run(ctx.Context(), "node", "--version")
	if err != nil {
		if commandutil.IsCommandNotFound(err) {
			return sequence.StatusNeedsApply, nil
		}
		return sequence.StatusUnknown, err
	}
	if !result.Success() {
		return sequence.StatusNeedsApply, nil
	}

	version := result.TrimmedStdout()
	if !semver.IsValid(version) {
		// A binary that cannot report a parseable version gets replaced.
		return sequence.StatusNeedsApply, nil
	}

	if s.minMajor > 0 {
		want := fmt.Sprintf("v%d", s.minMajor)
		if semver.Compare(semver.Major(version), want) < 0 {
			return sequence.StatusNeedsApply, nil
		}
	}

	return sequence.StatusSatisfied, nil
}

// Apply registers the NodeSource repository for the configured channel
// and installs the nodejs package from it.
func (s *InstallStep) Apply(ctx sequence.RunContext) error {
	if !channelRegex.MatchString(s.channel) {
		return fmt.Errorf("invalid channel %q", s.channel)
	}

	setup := fmt.Sprintf("curl -fsSL https://deb.nodesource.com/setup_%s.x | bash -", s.channel)
	result, err := s.runner.Run(ctx.Context(), "sh", "-c", setup)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("nodesource setup script failed: %s", result.Stderr)
	}

	result, err = s.runner.Run(ctx.Context(), "apt-get", "install", "-y", "nodejs")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get install nodejs failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *InstallStep) Explain(ctx sequence.ExplainContext) sequence.Explanation {
	summary := fmt.Sprintf("Install Node.js %s", s.channelLabel())
	detail := fmt.Sprintf("Registers the NodeSource %s repository and installs the nodejs package.", s.channelLabel())
	if ctx.Verbose() && s.minMajor > 0 {
		detail += fmt.Sprintf(" An existing installation with major version %d or newer is left untouched.", s.minMajor)
	}
	return sequence.NewExplanation(summary, detail)
}

func (s *InstallStep) channelLabel() string {
	if strings.ContainsAny(s.channel, "0123456789") {
		return s.channel + ".x"
	}
	return s.channel
}

var _ sequence.GatedStep = (*InstallStep)(nil)
