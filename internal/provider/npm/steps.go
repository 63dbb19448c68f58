package npm

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// PackageStep installs a global npm package.
type PackageStep struct {
	spec    string // full spec as configured, may carry @version
	name    string // bare package name used for the installed check
	version string
	id      sequence.StepID
	deps    []sequence.StepID
	runner  ports.CommandRunner
}

// sanitizeStepID converts a package name to a valid step ID component.
// Scoped packages like @org/pkg become org/pkg for the step ID.
func sanitizeStepID(name string) string {
	if len(name) > 0 && name[0] == '@' {
		return name[1:]
	}
	return name
}

// NewPackageStep creates a new PackageStep.
func NewPackageStep(spec string, runner ports.CommandRunner) *PackageStep {
	name, version := splitSpec(spec)
	return &PackageStep{
		spec:    spec,
		name:    name,
		version: version,
		id:      sequence.MustNewStepID("npm:install:" + sanitizeStepID(name)),
		runner:  runner,
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

// FailurePolicy returns the failure policy. CLI utilities are
// best-effort: a registry hiccup must not abort provisioning.
func (s *PackageStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyWarnAndContinue
}

// RequiresCommand gates the step on npm being present.
func (s *PackageStep) RequiresCommand() string {
	return "npm"
}

// Check determines if the package is already installed globally.
// Presence satisfies the step regardless of version; pinning only
// affects what Apply installs.
func (s *PackageStep) Check(ctx sequence.RunContext) (sequence.StepStatus, error) {
	result, err := s.runner.Run(ctx.Context(), "npm", "list", "-g", "--depth=0", "--json")
	if err != nil {
		return sequence.StatusUnknown, err
	}
	// npm list exits non-zero when packages are missing but still emits
	// JSON, so the output is inspected regardless of exit code.

	var npmList struct {
		Dependencies map[string]struct {
			Version string `json:"version"`
		} `json:"dependencies"`
	}
	if err := json.Unmarshal([]byte(result.Stdout), &npmList); err != nil {
		return sequence.StatusUnknown, fmt.Errorf("failed to parse npm list output: %w", err)
	}

	if _, found := npmList.Dependencies[s.name]; found {
		return sequence.StatusSatisfied, nil
	}

	return sequence.StatusNeedsApply, nil
}

// Apply installs the package globally.
func (s *PackageStep) Apply(ctx sequence.RunContext) error {
	// Validate again before execution to prevent command injection.
	if err := validation.ValidateNpmPackage(s.spec); err != nil {
		return fmt.Errorf("invalid npm package: %w", err)
	}

	result, err := s.runner.Run(ctx.Context(), "npm", "install", "-g", s.spec)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("npm install -g %s failed: %s", s.spec, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *PackageStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	detail := fmt.Sprintf("Installs the %s package globally via npm.", s.name)
	if s.version != "" {
		detail += fmt.Sprintf(" Version: %s.", s.version)
	}
	return sequence.NewExplanation(
		fmt.Sprintf("Install npm package %s", s.name),
		detail,
	)
}

var _ sequence.GatedStep = (*PackageStep)(nil)
