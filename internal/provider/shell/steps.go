package shell

import (
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// EnvStep maintains the env managed block in the startup file.
type EnvStep struct {
	startupFile string
	env         map[string]string
	id          sequence.StepID
	fs          ports.FileSystem
}

// NewEnvStep creates a new EnvStep for the resolved startupFile.
func NewEnvStep(startupFile string, env map[string]string, fs ports.FileSystem) *EnvStep {
	return &EnvStep{
		startupFile: startupFile,
		env:         env,
		id:          sequence.MustNewStepID("shell:env"),
		fs:          fs,
	}
}

// ID returns the step identifier.
func (s *EnvStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *EnvStep) DependsOn() []sequence.StepID {
	return nil
}

// FailurePolicy returns the failure policy.
func (s *EnvStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyWarnAndContinue
}

// Check compares the managed env block against the desired exports.
func (s *EnvStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	return checkManagedBlock(s.fs, s.startupFile, "env", renderEnvBlock(s.env))
}

// Apply rewrites the managed env block, leaving the rest of the file as is.
func (s *EnvStep) Apply(_ sequence.RunContext) error {
	return applyManagedBlock(s.fs, s.startupFile, "env", renderEnvBlock(s.env))
}

// Explain provides a human-readable explanation.
func (s *EnvStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	return sequence.NewExplanation(
		"Set shell environment variables",
		fmt.Sprintf("Maintains %d export(s) in a managed block of %s.", len(s.env), s.startupFile),
	)
}

// AliasStep maintains the aliases managed block in the startup file.
type AliasStep struct {
	startupFile string
	aliases     map[string]string
	id          sequence.StepID
	fs          ports.FileSystem
}

// NewAliasStep creates a new AliasStep for the resolved startupFile.
func NewAliasStep(startupFile string, aliases map[string]string, fs ports.FileSystem) *AliasStep {
	return &AliasStep{
		startupFile: startupFile,
		aliases:     aliases,
		id:          sequence.MustNewStepID("shell:aliases"),
		fs:          fs,
	}
}

// ID returns the step identifier.
func (s *AliasStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *AliasStep) DependsOn() []sequence.StepID {
	return nil
}

// FailurePolicy returns the failure policy.
func (s *AliasStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyWarnAndContinue
}

// Check compares the managed aliases block against the desired aliases.
func (s *AliasStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	return checkManagedBlock(s.fs, s.startupFile, "aliases", renderAliasBlock(s.aliases))
}

// Apply rewrites the managed aliases block.
func (s *AliasStep) Apply(_ sequence.RunContext) error {
	return applyManagedBlock(s.fs, s.startupFile, "aliases", renderAliasBlock(s.aliases))
}

// Explain provides a human-readable explanation.
func (s *AliasStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	return sequence.NewExplanation(
		"Set shell aliases",
		fmt.Sprintf("Maintains %d alias(es) in a managed block of %s.", len(s.aliases), s.startupFile),
	)
}

// checkManagedBlock reports satisfied when the file's managed block already
// carries the desired content.
func checkManagedBlock(fs ports.FileSystem, path, section, desired string) (sequence.StepStatus, error) {
	if !fs.Exists(path) {
		return sequence.StatusNeedsApply, nil
	}

	content, err := fs.ReadFile(path)
	if err != nil {
		return sequence.StatusUnknown, err
	}
	if ReadManagedBlock(string(content), section) == desired {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// applyManagedBlock rewrites one managed block and writes the file back.
func applyManagedBlock(fs ports.FileSystem, path, section, desired string) error {
	var content string
	if fs.Exists(path) {
		existing, err := fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		content = string(existing)
	}

	updated := WriteManagedBlock(content, section, desired)
	if err := fs.WriteFile(path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
