package motd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

const (
	// scriptDir is where pam_motd collects the dynamic MOTD fragments.
	scriptDir = "/etc/update-motd.d"

	// scriptName sorts after the stock fragments so the banner prints last.
	scriptName = "99-groundwork"
)

// ScriptPath is the full path of the generated banner script.
var ScriptPath = filepath.Join(scriptDir, scriptName)

// ScriptStep writes the login banner script.
type ScriptStep struct {
	banner string
	id     sequence.StepID
	fs     ports.FileSystem
}

// NewScriptStep creates a new ScriptStep running banner when available.
func NewScriptStep(banner string, fs ports.FileSystem) *ScriptStep {
	return &ScriptStep{
		banner: banner,
		id:     sequence.MustNewStepID("motd:script"),
		fs:     fs,
	}
}

// ID returns the step identifier.
func (s *ScriptStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ScriptStep) DependsOn() []sequence.StepID {
	return nil
}

// FailurePolicy returns the failure policy.
func (s *ScriptStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyWarnAndContinue
}

// Check compares the installed script against the rendered content. A
// script that lost its exec bit never runs, so mode drift also reapplies.
func (s *ScriptStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	if !s.fs.Exists(ScriptPath) {
		return sequence.StatusNeedsApply, nil
	}

	existing, err := s.fs.ReadFile(ScriptPath)
	if err != nil {
		return sequence.StatusUnknown, err
	}
	if !bytes.Equal(existing, s.render()) {
		return sequence.StatusNeedsApply, nil
	}

	info, err := s.fs.GetFileInfo(ScriptPath)
	if err != nil {
		return sequence.StatusUnknown, err
	}
	if info.Mode.Perm()&0o111 == 0 {
		return sequence.StatusNeedsApply, nil
	}

	return sequence.StatusSatisfied, nil
}

// Apply writes the script executable. Chmod after the write keeps the
// mode guarantee independent of umask.
func (s *ScriptStep) Apply(_ sequence.RunContext) error {
	if !s.fs.Exists(scriptDir) {
		if err := s.fs.MkdirAll(scriptDir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", scriptDir, err)
		}
	}

	if err := s.fs.WriteFile(ScriptPath, s.render(), 0755); err != nil {
		return fmt.Errorf("writing motd script: %w", err)
	}
	if err := s.fs.Chmod(ScriptPath, 0755); err != nil {
		return fmt.Errorf("marking motd script executable: %w", err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ScriptStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	return sequence.NewExplanation(
		"Install login banner script",
		fmt.Sprintf("Writes %s (mode 0755) printing a %s banner, falling back to a one-line host identification.", ScriptPath, s.banner),
	)
}

// render produces the banner script. The banner tool is optional at login
// time; command -v decides per invocation, so installing it later needs no
// further provisioning.
func (s *ScriptStep) render() []byte {
	var buf bytes.Buffer
	buf.WriteString("#!/bin/sh\n")
	buf.WriteString("# Managed by groundwork. Manual edits are overwritten on the next run.\n")
	fmt.Fprintf(&buf, "if command -v %s >/dev/null 2>&1; then\n", s.banner)
	fmt.Fprintf(&buf, "    exec %s\n", s.banner)
	buf.WriteString("fi\n")
	buf.WriteString("printf '%s · %s\\n' \"$(hostname)\" \"$(uname -srm)\"\n")
	return buf.Bytes()
}

// DisableStep strips the exec bit from one stock MOTD fragment.
type DisableStep struct {
	name string
	path string
	id   sequence.StepID
	fs   ports.FileSystem
}

// NewDisableStep creates a new DisableStep for the named stock script.
func NewDisableStep(name string, fs ports.FileSystem) *DisableStep {
	return &DisableStep{
		name: name,
		path: filepath.Join(scriptDir, name),
		id:   sequence.MustNewStepID("motd:disable:" + name),
		fs:   fs,
	}
}

// ID returns the step identifier.
func (s *DisableStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *DisableStep) DependsOn() []sequence.StepID {
	return nil
}

// FailurePolicy returns the failure policy.
func (s *DisableStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyWarnAndContinue
}

// Check reports whether the fragment still executes. A missing fragment is
// already as quiet as it gets.
func (s *DisableStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	if !s.fs.Exists(s.path) {
		return sequence.StatusSatisfied, nil
	}

	info, err := s.fs.GetFileInfo(s.path)
	if err != nil {
		return sequence.StatusUnknown, err
	}
	if info.Mode.Perm()&0o111 == 0 {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Apply removes the exec bits, leaving the fragment in place for easy
// re-enabling.
func (s *DisableStep) Apply(_ sequence.RunContext) error {
	if err := s.fs.Chmod(s.path, 0644); err != nil {
		return fmt.Errorf("disabling %s: %w", s.name, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *DisableStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	return sequence.NewExplanation(
		fmt.Sprintf("Silence stock MOTD fragment %s", s.name),
		fmt.Sprintf("Removes the exec bit from %s so pam_motd skips it.", s.path),
	)
}
