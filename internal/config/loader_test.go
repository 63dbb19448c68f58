package config_test

import (
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/groundwork/internal/config"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load_ExistingManifest_ParsesAndRecordsPath(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/srv/groundwork.yaml", `
version: 1

apt:
  packages: [curl]
`)

	loader := config.NewLoader(fs)
	manifest, err := loader.Load("/srv/groundwork.yaml")

	require.NoError(t, err)
	assert.Equal(t, "/srv/groundwork.yaml", manifest.Path())
	assert.True(t, manifest.HasSection("apt"))
}

func TestLoader_Load_MissingFile_ReturnsConfigNotFound(t *testing.T) {
	t.Parallel()

	loader := config.NewLoader(mocks.NewFileSystem())
	_, err := loader.Load("/srv/groundwork.yaml")

	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeConfigNotFound))
}

func TestLoader_Load_BrokenYAML_ReturnsParseError(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/srv/groundwork.yaml", "apt:\n\tpackages: [curl]\n")

	loader := config.NewLoader(fs)
	_, err := loader.Load("/srv/groundwork.yaml")

	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeConfigParse))

	ue := config.GetUserError(err)
	require.NotNil(t, ue)
	assert.NotEmpty(t, ue.Suggestion)
}

func TestLoader_Discover_PrefersWorkingDirectory(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("groundwork.yaml", "apt: {}\n")
	fs.AddFile(config.UserConfigPath("/home/deploy"), "ssh: {}\n")

	loader := config.NewLoader(fs)
	path, err := loader.Discover("/home/deploy")

	require.NoError(t, err)
	assert.Equal(t, "groundwork.yaml", path)
}

func TestLoader_Discover_FallsBackToUserConfig(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile(config.UserConfigPath("/home/deploy"), "ssh: {}\n")

	loader := config.NewLoader(fs)
	path, err := loader.Discover("/home/deploy")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/deploy", ".config", "groundwork", "groundwork.yaml"), path)
}

func TestLoader_Discover_NothingFound_ReturnsConfigNotFound(t *testing.T) {
	t.Parallel()

	loader := config.NewLoader(mocks.NewFileSystem())
	_, err := loader.Discover("/home/deploy")

	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeConfigNotFound))
}

func TestLoader_Save_WritesNewManifest(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	loader := config.NewLoader(fs)

	err := loader.Save("/home/deploy/groundwork.yaml", []byte("version: 1\napt: {}\n"), false)

	require.NoError(t, err)
	data, err := fs.ReadFile("/home/deploy/groundwork.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "apt:")
}

func TestLoader_Save_RefusesToOverwrite(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("groundwork.yaml", "apt: {}\n")
	loader := config.NewLoader(fs)

	err := loader.Save("groundwork.yaml", []byte("ssh: {}\n"), false)

	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeConfigExists))

	data, err := fs.ReadFile("groundwork.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "apt:")
}

func TestLoader_Save_ForceOverwrites(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("groundwork.yaml", "apt: {}\n")
	loader := config.NewLoader(fs)

	err := loader.Save("groundwork.yaml", []byte("ssh: {}\n"), true)

	require.NoError(t, err)
	data, err := fs.ReadFile("groundwork.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "ssh:")
}

func TestLoader_Save_RejectsInvalidManifest(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	loader := config.NewLoader(fs)

	err := loader.Save("groundwork.yaml", []byte("terraform: {}\n"), false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid manifest")
	assert.False(t, fs.Exists("groundwork.yaml"))
}

func TestLoader_Resolve_ExplicitPathWins(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("groundwork.yaml", "apt: {}\n")
	fs.AddFile("/etc/groundwork/custom.yaml", "git: {}\n")

	loader := config.NewLoader(fs)
	manifest, err := loader.Resolve("/etc/groundwork/custom.yaml", "/home/deploy")

	require.NoError(t, err)
	assert.True(t, manifest.HasSection("git"))
	assert.False(t, manifest.HasSection("apt"))
}

func TestLoader_Resolve_EmptyPathDiscovers(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("groundwork.yaml", "apt: {}\n")

	loader := config.NewLoader(fs)
	manifest, err := loader.Resolve("", "/home/deploy")

	require.NoError(t, err)
	assert.True(t, manifest.HasSection("apt"))
	assert.Equal(t, "groundwork.yaml", manifest.Path())
}
