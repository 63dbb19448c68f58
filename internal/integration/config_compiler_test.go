//go:build integration

// Package integration exercises the manifest-to-run pipeline across
// package boundaries: config parsing, sequence compilation, and
// execution against mock adapters.
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/groundwork/internal/config"
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/provider/apt"
	"github.com/felixgeelhaar/groundwork/internal/provider/docker"
	"github.com/felixgeelhaar/groundwork/internal/provider/git"
	"github.com/felixgeelhaar/groundwork/internal/provider/motd"
	"github.com/felixgeelhaar/groundwork/internal/provider/node"
	"github.com/felixgeelhaar/groundwork/internal/provider/npm"
	"github.com/felixgeelhaar/groundwork/internal/provider/shell"
	"github.com/felixgeelhaar/groundwork/internal/provider/ssh"
	"github.com/felixgeelhaar/groundwork/internal/provider/starship"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
)

// adapters bundles the mock ports every provider compiles against.
type adapters struct {
	runner *mocks.CommandRunner
	fs     *mocks.FileSystem
	input  *mocks.Input
	probe  *mocks.Probe
}

func newAdapters() *adapters {
	return &adapters{
		runner: mocks.NewCommandRunner(),
		fs:     mocks.NewFileSystem(),
		input:  mocks.NewInput(nil),
		probe:  mocks.NewProbe(),
	}
}

// newCompiler registers the full provider set, the way the app does.
func newCompiler(ad *adapters) *sequence.Compiler {
	c := sequence.NewCompiler()
	c.RegisterProvider(apt.NewProvider(ad.runner, ad.fs))
	c.RegisterProvider(docker.NewProvider(ad.runner))
	c.RegisterProvider(node.NewProvider(ad.runner))
	c.RegisterProvider(npm.NewProvider(ad.runner))
	c.RegisterProvider(ssh.NewProvider(ad.input, ad.fs))
	c.RegisterProvider(motd.NewProvider(ad.fs))
	c.RegisterProvider(starship.NewProvider(ad.runner, ad.fs))
	c.RegisterProvider(shell.NewProvider(ad.fs))
	c.RegisterProvider(git.NewProvider(ad.fs))
	return c
}

func testEnvironment() sequence.Environment {
	return sequence.Environment{
		User:     "dev",
		Home:     "/home/dev",
		Hostname: "srv1",
		OS:       "linux",
		Arch:     "amd64",
		Elevated: true,
	}
}

// compileManifest runs YAML through the same path the app uses:
// parse, build the compile context, compile the resolved sequence.
func compileManifest(t *testing.T, ad *adapters, manifestYAML string) (*sequence.Sequence, error) {
	t.Helper()

	manifest, err := config.ParseManifest([]byte(manifestYAML))
	require.NoError(t, err)

	ctx := sequence.NewCompileContext(manifest.Config()).WithEnvironment(testEnvironment())
	return newCompiler(ad).Compile(ctx, manifest.ResolvedSequence())
}

func stepIDs(seq *sequence.Sequence) []string {
	ids := make([]string, 0, seq.Len())
	for _, step := range seq.Steps() {
		ids = append(ids, step.ID().String())
	}
	return ids
}

func TestFullManifest_CompilesInDeclaredOrder(t *testing.T) {
	manifestYAML := `
version: 1

apt:
  update: true
  packages:
    - git
  optional:
    - htop

docker:
  users:
    - dev

node: {}

npm:
  packages:
    - "@anthropic-ai/claude-code"

ssh:
  import_key: true
  hosts:
    - host: forge
      hostname: forge.example.com

motd:
  banner: fastfetch
  disable:
    - 10-help-text

starship: {}

shell:
  env:
    EDITOR: vim
  aliases:
    ll: ls -alF

git:
  user:
    name: Dev Example
    email: dev@example.com
`

	seq, err := compileManifest(t, newAdapters(), manifestYAML)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"apt:update",
		"apt:install:git",
		"apt:install:htop",
		"docker:install",
		"docker:group:dev",
		"node:install",
		"npm:install:anthropic-ai/claude-code",
		"ssh:key",
		"ssh:config",
		"motd:script",
		"motd:disable:10-help-text",
		"starship:install",
		"starship:config",
		"starship:shell-init",
		"shell:env",
		"shell:aliases",
		"git:config",
	}, stepIDs(seq))
}

func TestExplicitSequence_OverridesDefaultOrder(t *testing.T) {
	manifestYAML := `
version: 1
sequence:
  - git
  - shell

shell:
  aliases:
    gs: git status

git:
  user:
    name: Dev Example
`

	seq, err := compileManifest(t, newAdapters(), manifestYAML)
	require.NoError(t, err)

	// git compiles before shell because the manifest says so; the
	// default order is never consulted.
	assert.Equal(t, []string{"git:config", "shell:aliases"}, stepIDs(seq))
}

func TestUnconfiguredProviders_CompileToZeroSteps(t *testing.T) {
	seq, err := compileManifest(t, newAdapters(), "version: 1\nshell:\n  env:\n    EDITOR: vim\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"shell:env"}, stepIDs(seq))
}

func TestNpmSection_DefaultsToAICliSet(t *testing.T) {
	seq, err := compileManifest(t, newAdapters(), "version: 1\nnpm: {}\n")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"npm:install:anthropic-ai/claude-code",
		"npm:install:openai/codex",
		"npm:install:google/gemini-cli",
	}, stepIDs(seq))
}

func TestUnknownProvider_RejectedWithSuggestion(t *testing.T) {
	_, err := config.ParseManifest([]byte("version: 1\nkubernetes:\n  clusters: []\n"))
	require.Error(t, err)

	userErr := config.GetUserError(err)
	require.NotNil(t, userErr, "manifest errors surface as UserError")
	assert.NotEmpty(t, userErr.Suggestion)
}

func TestMalformedSection_NamesTheProvider(t *testing.T) {
	manifestYAML := `
version: 1
apt:
  packages: git
`

	_, err := compileManifest(t, newAdapters(), manifestYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `provider "apt"`)
}

func TestInvalidPackageName_FailsAtCompileTime(t *testing.T) {
	manifestYAML := `
version: 1
apt:
  packages:
    - "git; rm -rf /"
`

	ad := newAdapters()
	_, err := compileManifest(t, ad, manifestYAML)
	require.Error(t, err)

	// Validation runs before any step exists, so nothing was invoked.
	assert.Empty(t, ad.runner.Calls())
}
