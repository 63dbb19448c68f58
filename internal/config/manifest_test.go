package config_test

import (
	"testing"

	"github.com/felixgeelhaar/groundwork/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest_MinimalManifest_ReturnsManifest(t *testing.T) {
	t.Parallel()

	yaml := `
version: 1

apt:
  packages:
    - curl
`

	manifest, err := config.ParseManifest([]byte(yaml))

	require.NoError(t, err)
	assert.Equal(t, 1, manifest.Version)
	assert.True(t, manifest.HasSection("apt"))

	section, ok := manifest.Section("apt")
	require.True(t, ok)
	packages, ok := section["packages"].([]interface{})
	require.True(t, ok)
	require.Len(t, packages, 1)
	assert.Equal(t, "curl", packages[0])
}

func TestParseManifest_MissingVersion_DefaultsToCurrent(t *testing.T) {
	t.Parallel()

	yaml := `
apt:
  packages: [git]
`

	manifest, err := config.ParseManifest([]byte(yaml))

	require.NoError(t, err)
	assert.Equal(t, config.CurrentVersion, manifest.Version)
}

func TestParseManifest_UnsupportedVersion_ReturnsError(t *testing.T) {
	t.Parallel()

	yaml := `
version: 2

apt: {}
`

	_, err := config.ParseManifest([]byte(yaml))

	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeConfigInvalid))
}

func TestParseManifest_MultipleSections_ParsesAll(t *testing.T) {
	t.Parallel()

	yaml := `
version: 1

apt:
  packages: [curl]

ssh:
  import_key: true

git:
  user:
    name: Alice
`

	manifest, err := config.ParseManifest([]byte(yaml))

	require.NoError(t, err)
	assert.Equal(t, []string{"apt", "git", "ssh"}, manifest.SectionNames())
}

func TestParseManifest_EmptySection_OptsProviderIn(t *testing.T) {
	t.Parallel()

	yaml := `
starship:
`

	manifest, err := config.ParseManifest([]byte(yaml))

	require.NoError(t, err)
	require.True(t, manifest.HasSection("starship"))

	section, ok := manifest.Section("starship")
	require.True(t, ok)
	assert.Empty(t, section)
}

func TestParseManifest_UnknownProviderSection_ReturnsError(t *testing.T) {
	t.Parallel()

	yaml := `
sttarship:
  install: true
`

	_, err := config.ParseManifest([]byte(yaml))

	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeProviderUnknown))

	ue := config.GetUserError(err)
	require.NotNil(t, ue)
	assert.Contains(t, ue.Suggestion, "starship")
}

func TestParseManifest_SectionNotAMapping_ReturnsError(t *testing.T) {
	t.Parallel()

	yaml := `
apt:
  - curl
  - git
`

	_, err := config.ParseManifest([]byte(yaml))

	require.Error(t, err)
}

func TestParseManifest_ExplicitSequence_Preserved(t *testing.T) {
	t.Parallel()

	yaml := `
sequence: [apt, ssh, git]

apt: {}
ssh: {}
git: {}
`

	manifest, err := config.ParseManifest([]byte(yaml))

	require.NoError(t, err)
	assert.Equal(t, []string{"apt", "ssh", "git"}, manifest.ResolvedSequence())
}

func TestParseManifest_NoSequence_UsesDefaultOrder(t *testing.T) {
	t.Parallel()

	yaml := `
apt: {}
`

	manifest, err := config.ParseManifest([]byte(yaml))

	require.NoError(t, err)
	assert.Equal(t, config.DefaultSequence, manifest.ResolvedSequence())
}

func TestParseManifest_SequenceWithUnknownProvider_ReturnsError(t *testing.T) {
	t.Parallel()

	yaml := `
sequence: [apt, terraform]

apt: {}
`

	_, err := config.ParseManifest([]byte(yaml))

	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeProviderUnknown))
}

func TestParseManifest_SequenceWithDuplicate_ReturnsError(t *testing.T) {
	t.Parallel()

	yaml := `
sequence: [apt, ssh, apt]
`

	_, err := config.ParseManifest([]byte(yaml))

	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeValidationFailed))
}

func TestParseManifest_InvalidYAML_ReturnsError(t *testing.T) {
	t.Parallel()

	yaml := `
apt:
	packages: [curl]
`

	_, err := config.ParseManifest([]byte(yaml))

	require.Error(t, err)
}

func TestManifest_Config_KeyedByProviderName(t *testing.T) {
	t.Parallel()

	yaml := `
npm:
  packages:
    - "@anthropic-ai/claude-code"
`

	manifest, err := config.ParseManifest([]byte(yaml))
	require.NoError(t, err)

	cfg := manifest.Config()
	section, ok := cfg["npm"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, section, "packages")
}

func TestManifest_ResolvedSequence_ReturnsCopy(t *testing.T) {
	t.Parallel()

	manifest, err := config.ParseManifest([]byte(`apt: {}`))
	require.NoError(t, err)

	seq := manifest.ResolvedSequence()
	seq[0] = "mutated"

	assert.Equal(t, "apt", config.DefaultSequence[0])
	assert.Equal(t, "apt", manifest.ResolvedSequence()[0])
}

func TestKnownProvider(t *testing.T) {
	t.Parallel()

	for _, name := range config.DefaultSequence {
		assert.True(t, config.KnownProvider(name), "provider %q should be known", name)
	}
	assert.False(t, config.KnownProvider("homebrew"))
	assert.False(t, config.KnownProvider(""))
}
