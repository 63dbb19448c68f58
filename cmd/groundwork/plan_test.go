package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCommand_UseAndShort(t *testing.T) {
	assert.Equal(t, "plan", planCmd.Use)
	assert.Equal(t, "Show what up would change without changing anything", planCmd.Short)
}

func TestRunPlan_ReportsPendingChanges(t *testing.T) {
	manifest := `version: 1
shell:
  aliases:
    gs: git status
`
	fs, out := swapApp(t, manifest, "apt-get", "curl")
	setConfigPath(t, testManifestPath)

	err := runPlan(nil, nil)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Groundwork Plan")
	assert.Contains(t, out.String(), "shell:aliases")
	assert.False(t, fs.Exists("/home/dev/.bashrc"), "plan must not write")
}

func TestRunPlan_MissingManifest(t *testing.T) {
	_, _ = swapApp(t, "")
	setConfigPath(t, "/home/dev/absent.yaml")

	err := runPlan(nil, nil)
	require.Error(t, err)
}

func TestRunPlan_InvalidManifest(t *testing.T) {
	_, _ = swapApp(t, "version: 1\nterraform: {}\n")
	setConfigPath(t, testManifestPath)

	err := runPlan(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terraform")
}
