//go:build e2e

package framework

import (
	"bytes"
	"os/exec"
	"strings"
	"testing"
)

// Result represents the result of running a command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Success returns true if the command exited with code 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Err == nil
}

// Contains checks if stdout contains the given substring.
func (r *Result) Contains(s string) bool {
	return strings.Contains(r.Stdout, s)
}

// StderrContains checks if stderr contains the given substring.
func (r *Result) StderrContains(s string) bool {
	return strings.Contains(r.Stderr, s)
}

// Runner executes groundwork commands in a test environment.
type Runner struct {
	t   *testing.T
	env *Environment
}

// NewRunner creates a new command runner.
func NewRunner(t *testing.T, env *Environment) *Runner {
	return &Runner{
		t:   t,
		env: env,
	}
}

// Run executes the groundwork command with the given arguments. The
// process sees the environment's simulated home, and its PATH holds
// only the environment root, so no real provisioning tool is ever
// found: probe-gated steps skip and file steps act inside the sandbox.
func (r *Runner) Run(args ...string) *Result {
	r.t.Helper()

	cmd := exec.Command(r.env.BinaryPath(), args...)
	cmd.Dir = r.env.ConfigDir()
	cmd.Env = []string{
		"HOME=" + r.env.HomeDir(),
		"PATH=" + r.env.RootDir(),
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = strings.NewReader("")

	err := cmd.Run()

	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Err:    err,
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		result.Err = nil // Exit code is not an error
	} else if err != nil {
		result.ExitCode = -1
	}

	return result
}

// RunWithConfig executes a command with an explicit config path.
func (r *Runner) RunWithConfig(configPath string, args ...string) *Result {
	r.t.Helper()

	fullArgs := append([]string{"--config", configPath}, args...)
	return r.Run(fullArgs...)
}

// Version runs the version command.
func (r *Runner) Version() *Result {
	return r.Run("version")
}

// Plan runs the plan command against the environment's manifest.
func (r *Runner) Plan() *Result {
	return r.Run("plan", "--config", r.env.ConfigPath())
}

// Up runs the up command against the environment's manifest.
func (r *Runner) Up() *Result {
	return r.Run("up", "--config", r.env.ConfigPath())
}

// UpDryRun runs the up command with --dry-run.
func (r *Runner) UpDryRun() *Result {
	return r.Run("up", "--config", r.env.ConfigPath(), "--dry-run")
}

// InitDefaults runs init --defaults against the environment's manifest path.
func (r *Runner) InitDefaults() *Result {
	return r.Run("init", "--defaults", "--config", r.env.ConfigPath())
}

// Doctor runs the doctor command.
func (r *Runner) Doctor() *Result {
	return r.Run("doctor")
}

// Scenario provides a fluent interface for writing BDD-style tests.
type Scenario struct {
	t      *testing.T
	env    *Environment
	runner *Runner
	result *Result
}

// NewScenario creates a new test scenario.
func NewScenario(t *testing.T) *Scenario {
	env := NewEnvironment(t)
	return &Scenario{
		t:      t,
		env:    env,
		runner: NewRunner(t, env),
	}
}

// Given sets up the test preconditions.
func (s *Scenario) Given(description string, setup func(*Environment)) *Scenario {
	s.t.Helper()
	s.t.Logf("Given %s", description)
	setup(s.env)
	return s
}

// When executes the action under test.
func (s *Scenario) When(description string, action func(*Runner) *Result) *Scenario {
	s.t.Helper()
	s.t.Logf("When %s", description)
	s.result = action(s.runner)
	return s
}

// Then asserts the expected outcome.
func (s *Scenario) Then(description string, assertion func(*testing.T, *Result)) *Scenario {
	s.t.Helper()
	s.t.Logf("Then %s", description)
	assertion(s.t, s.result)
	return s
}

// And is an alias for Then for chaining assertions.
func (s *Scenario) And(description string, assertion func(*testing.T, *Result)) *Scenario {
	return s.Then(description, assertion)
}

// Environment returns the test environment for direct access.
func (s *Scenario) Environment() *Environment {
	return s.env
}

// Result returns the last command result.
func (s *Scenario) Result() *Result {
	return s.result
}
