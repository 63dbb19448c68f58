package git

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/ini.v1"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// ConfigStep merges identity and aliases into the gitconfig file.
type ConfigStep struct {
	cfg        *Config
	configPath string
	id         sequence.StepID
	fs         ports.FileSystem
}

// NewConfigStep creates a new ConfigStep writing to the resolved configPath.
func NewConfigStep(cfg *Config, configPath string, fs ports.FileSystem) *ConfigStep {
	return &ConfigStep{
		cfg:        cfg,
		configPath: configPath,
		id:         sequence.MustNewStepID("git:config"),
		fs:         fs,
	}
}

// ID returns the step identifier.
func (s *ConfigStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ConfigStep) DependsOn() []sequence.StepID {
	return nil
}

// FailurePolicy returns the failure policy.
func (s *ConfigStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyWarnAndContinue
}

// Check reports satisfied when every managed key already carries the
// desired value. Only managed keys are compared; the file may hold any
// amount of unrelated configuration.
func (s *ConfigStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	if !s.fs.Exists(s.configPath) {
		return sequence.StatusNeedsApply, nil
	}

	data, err := s.fs.ReadFile(s.configPath)
	if err != nil {
		return sequence.StatusUnknown, err
	}

	file, err := ini.Load(data)
	if err != nil {
		// Unparseable file; apply will surface the merge failure.
		return sequence.StatusNeedsApply, nil
	}

	if s.cfg.UserName != "" && file.Section("user").Key("name").String() != s.cfg.UserName {
		return sequence.StatusNeedsApply, nil
	}
	if s.cfg.UserEmail != "" && file.Section("user").Key("email").String() != s.cfg.UserEmail {
		return sequence.StatusNeedsApply, nil
	}
	for name, cmd := range s.cfg.Aliases {
		if file.Section("alias").Key(name).String() != cmd {
			return sequence.StatusNeedsApply, nil
		}
	}

	return sequence.StatusSatisfied, nil
}

// Apply loads the existing file (or starts empty), sets the managed keys,
// and writes the merge back. Unrelated sections ride along unchanged.
func (s *ConfigStep) Apply(_ sequence.RunContext) error {
	file := ini.Empty()
	if s.fs.Exists(s.configPath) {
		data, err := s.fs.ReadFile(s.configPath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", s.configPath, err)
		}
		file, err = ini.Load(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", s.configPath, err)
		}
	}

	if s.cfg.UserName != "" {
		file.Section("user").Key("name").SetValue(s.cfg.UserName)
	}
	if s.cfg.UserEmail != "" {
		file.Section("user").Key("email").SetValue(s.cfg.UserEmail)
	}

	// Sorted insertion keeps repeated runs producing identical files.
	names := make([]string, 0, len(s.cfg.Aliases))
	for name := range s.cfg.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		file.Section("alias").Key(name).SetValue(s.cfg.Aliases[name])
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return fmt.Errorf("rendering gitconfig: %w", err)
	}
	if err := s.fs.WriteFile(s.configPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.configPath, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ConfigStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	return sequence.NewExplanation(
		"Configure git identity",
		fmt.Sprintf("Merges user identity and %d alias(es) into %s.", len(s.cfg.Aliases), s.configPath),
	)
}
