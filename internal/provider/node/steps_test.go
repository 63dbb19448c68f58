package node_test

import (
	"context"
	"os/exec"
	"testing"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/provider/node"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallStep_ID(t *testing.T) {
	t.Parallel()

	step := node.NewInstallStep("22", 20, mocks.NewCommandRunner())

	assert.Equal(t, "node:install", step.ID().String())
	assert.Equal(t, sequence.PolicyWarnAndContinue, step.FailurePolicy())
	assert.Equal(t, "apt-get", step.RequiresCommand())
}

func TestInstallStep_Check_BinaryMissing_NeedsApply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddError("node", []string{"--version"}, &exec.Error{Name: "node", Err: exec.ErrNotFound})

	step := node.NewInstallStep("22", 20, runner)

	status, err := step.Check(sequence.NewRunContext(context.TODO()))

	require.NoError(t, err)
	assert.Equal(t, sequence.StatusNeedsApply, status)
}

func TestInstallStep_Check_VersionMeetsMinimum_Satisfied(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("node", []string{"--version"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "v22.11.0\n",
	})

	step := node.NewInstallStep("22", 20, runner)

	status, err := step.Check(sequence.NewRunContext(context.TODO()))

	require.NoError(t, err)
	assert.Equal(t, sequence.StatusSatisfied, status)
}

func TestInstallStep_Check_VersionBelowMinimum_NeedsApply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("node", []string{"--version"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "v18.19.1\n",
	})

	step := node.NewInstallStep("22", 20, runner)

	status, err := step.Check(sequence.NewRunContext(context.TODO()))

	require.NoError(t, err)
	assert.Equal(t, sequence.StatusNeedsApply, status)
}

func TestInstallStep_Check_UnparseableVersion_NeedsApply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("node", []string{"--version"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "mystery build\n",
	})

	step := node.NewInstallStep("22", 20, runner)

	status, err := step.Check(sequence.NewRunContext(context.TODO()))

	require.NoError(t, err)
	assert.Equal(t, sequence.StatusNeedsApply, status)
}

func TestInstallStep_Check_NoMinimum_AnyVersionSatisfies(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("node", []string{"--version"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "v16.20.2\n",
	})

	step := node.NewInstallStep("22", 0, runner)

	status, err := step.Check(sequence.NewRunContext(context.TODO()))

	require.NoError(t, err)
	assert.Equal(t, sequence.StatusSatisfied, status)
}

func TestInstallStep_Apply_SetupThenInstall(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sh", []string{"-c", "curl -fsSL https://deb.nodesource.com/setup_22.x | bash -"},
		ports.CommandResult{ExitCode: 0})
	runner.AddResult("apt-get", []string{"install", "-y", "nodejs"}, ports.CommandResult{ExitCode: 0})

	step := node.NewInstallStep("22", 20, runner)

	err := step.Apply(sequence.NewRunContext(context.TODO()))

	require.NoError(t, err)
	calls := runner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "sh", calls[0].Command)
	assert.Equal(t, "apt-get", calls[1].Command)
}

func TestInstallStep_Apply_LTSChannel(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sh", []string{"-c", "curl -fsSL https://deb.nodesource.com/setup_lts.x | bash -"},
		ports.CommandResult{ExitCode: 0})
	runner.AddResult("apt-get", []string{"install", "-y", "nodejs"}, ports.CommandResult{ExitCode: 0})

	step := node.NewInstallStep("lts", 0, runner)

	err := step.Apply(sequence.NewRunContext(context.TODO()))

	require.NoError(t, err)
}

func TestInstallStep_Apply_SetupFails_ReturnsError(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sh", []string{"-c", "curl -fsSL https://deb.nodesource.com/setup_22.x | bash -"},
		ports.CommandResult{ExitCode: 1, Stderr: "gpg: keyserver receive failed"})

	step := node.NewInstallStep("22", 20, runner)

	err := step.Apply(sequence.NewRunContext(context.TODO()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyserver")
	// The install must not run when setup failed.
	assert.Equal(t, 0, runner.CallCount("apt-get", "install", "-y", "nodejs"))
}
