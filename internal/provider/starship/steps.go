package starship

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/provider/commandutil"
)

// installerURL is the official installer script. The -y flag suppresses
// its interactive confirmation.
const installerURL = "https://starship.rs/install.sh"

// initLine is the bash startup hook. Its presence anywhere in the startup
// file counts as wired, so a hand-maintained variant is left alone.
const initLine = `eval "$(starship init bash)"`

// InstallStep installs the starship binary.
type InstallStep struct {
	id     sequence.StepID
	runner ports.CommandRunner
}

// NewInstallStep creates a new InstallStep.
func NewInstallStep(runner ports.CommandRunner) *InstallStep {
	return &InstallStep{
		id:     sequence.MustNewStepID("starship:install"),
		runner: runner,
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

// RequiresCommand gates the step on curl, which fetches the installer.
func (s *InstallStep) RequiresCommand() string {
	return "curl"
}

// Check determines if starship is already installed.
func (s *InstallStep) Check(ctx sequence.RunContext) (sequence.StepStatus, error) {
	result, err := s.runner.Run(ctx.Context(), "starship", "--version")
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

// Apply runs the official installer.
func (s *InstallStep) Apply(ctx sequence.RunContext) error {
	cmd := fmt.Sprintf("curl -sS %s | sh -s -- -y", installerURL)
	result, err := s.runner.Run(ctx.Context(), "sh", "-c", cmd)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("starship install failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *InstallStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	return sequence.NewExplanation(
		"Install starship prompt",
		fmt.Sprintf("Runs the official installer from %s.", installerURL),
	)
}

// ConfigStep writes the prompt configuration.
type ConfigStep struct {
	settings   map[string]interface{}
	configPath string
	id         sequence.StepID
	deps       []sequence.StepID
	fs         ports.FileSystem
}

// NewConfigStep creates a new ConfigStep writing to the resolved configPath.
func NewConfigStep(settings map[string]interface{}, configPath string, fs ports.FileSystem) *ConfigStep {
	return &ConfigStep{
		settings:   settings,
		configPath: configPath,
		id:         sequence.MustNewStepID("starship:config"),
		fs:         fs,
	}
}

// WithDependsOn sets the step dependencies.
func (s *ConfigStep) WithDependsOn(deps ...sequence.StepID) *ConfigStep {
	s.deps = deps
	return s
}

// ID returns the step identifier.
func (s *ConfigStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ConfigStep) DependsOn() []sequence.StepID {
	return s.deps
}

// FailurePolicy returns the failure policy.
func (s *ConfigStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyWarnAndContinue
}

// Check compares the existing configuration against the rendered TOML.
// go-toml emits map keys sorted, so repeated renders byte-compare equal.
func (s *ConfigStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	rendered, err := toml.Marshal(s.settings)
	if err != nil {
		return sequence.StatusUnknown, fmt.Errorf("rendering starship config: %w", err)
	}

	if !s.fs.Exists(s.configPath) {
		return sequence.StatusNeedsApply, nil
	}

	existing, err := s.fs.ReadFile(s.configPath)
	if err != nil {
		return sequence.StatusUnknown, err
	}
	if bytes.Equal(existing, rendered) {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Apply writes the rendered TOML.
func (s *ConfigStep) Apply(_ sequence.RunContext) error {
	rendered, err := toml.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("rendering starship config: %w", err)
	}

	dir := filepath.Dir(s.configPath)
	if !s.fs.Exists(dir) {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	if err := s.fs.WriteFile(s.configPath, rendered, 0644); err != nil {
		return fmt.Errorf("writing starship config: %w", err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ConfigStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	return sequence.NewExplanation(
		"Configure starship prompt",
		fmt.Sprintf("Writes %d setting group(s) to %s.", len(s.settings), s.configPath),
	)
}

// ShellInitStep appends the starship hook to the shell startup file.
type ShellInitStep struct {
	startupFile string
	id          sequence.StepID
	deps        []sequence.StepID
	fs          ports.FileSystem
}

// NewShellInitStep creates a new ShellInitStep for the resolved startupFile.
func NewShellInitStep(startupFile string, fs ports.FileSystem) *ShellInitStep {
	return &ShellInitStep{
		startupFile: startupFile,
		id:          sequence.MustNewStepID("starship:shell-init"),
		fs:          fs,
	}
}

// WithDependsOn sets the step dependencies.
func (s *ShellInitStep) WithDependsOn(deps ...sequence.StepID) *ShellInitStep {
	s.deps = deps
	return s
}

// ID returns the step identifier.
func (s *ShellInitStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ShellInitStep) DependsOn() []sequence.StepID {
	return s.deps
}

// FailurePolicy returns the failure policy.
func (s *ShellInitStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyWarnAndContinue
}

// Check reports whether the startup file already initializes starship.
func (s *ShellInitStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	if !s.fs.Exists(s.startupFile) {
		return sequence.StatusNeedsApply, nil
	}

	content, err := s.fs.ReadFile(s.startupFile)
	if err != nil {
		return sequence.StatusUnknown, err
	}
	if strings.Contains(string(content), "starship init") {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Apply appends the hook once. The containment check repeats here so two
// applies in a row still yield a single line.
func (s *ShellInitStep) Apply(_ sequence.RunContext) error {
	var content []byte
	if s.fs.Exists(s.startupFile) {
		existing, err := s.fs.ReadFile(s.startupFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", s.startupFile, err)
		}
		content = existing
	}

	if strings.Contains(string(content), "starship init") {
		return nil
	}

	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		content = append(content, '\n')
	}
	content = append(content, []byte("\n# Starship prompt\n"+initLine+"\n")...)

	if err := s.fs.WriteFile(s.startupFile, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.startupFile, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ShellInitStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	return sequence.NewExplanation(
		"Wire starship into the shell",
		fmt.Sprintf("Appends %s to %s, guarded so repeated runs never duplicate it.", initLine, s.startupFile),
	)
}

// Ensure the install step satisfies the capability-gated interface.
var _ sequence.GatedStep = (*InstallStep)(nil)
