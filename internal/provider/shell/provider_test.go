package shell_test

import (
	"testing"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/provider/shell"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv() sequence.Environment {
	return sequence.Environment{User: "dev", Home: "/home/dev"}
}

func TestProvider_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "shell", shell.NewProvider(mocks.NewFileSystem()).Name())
}

func TestProvider_Compile_NoSection_NoSteps(t *testing.T) {
	t.Parallel()

	provider := shell.NewProvider(mocks.NewFileSystem())
	ctx := sequence.NewCompileContext(map[string]interface{}{}).WithEnvironment(testEnv())

	steps, err := provider.Compile(ctx)

	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestProvider_Compile_EmptySection_NoSteps(t *testing.T) {
	t.Parallel()

	provider := shell.NewProvider(mocks.NewFileSystem())
	ctx := sequence.NewCompileContext(map[string]interface{}{
		"shell": map[string]interface{}{},
	}).WithEnvironment(testEnv())

	steps, err := provider.Compile(ctx)

	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestProvider_Compile_EnvThenAliases(t *testing.T) {
	t.Parallel()

	provider := shell.NewProvider(mocks.NewFileSystem())
	ctx := sequence.NewCompileContext(map[string]interface{}{
		"shell": map[string]interface{}{
			"env":     map[string]interface{}{"EDITOR": "vim"},
			"aliases": map[string]interface{}{"ll": "ls -la"},
		},
	}).WithEnvironment(testEnv())

	steps, err := provider.Compile(ctx)

	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "shell:env", steps[0].ID().String())
	assert.Equal(t, "shell:aliases", steps[1].ID().String())
}

func TestProvider_Compile_ResolvesStartupFileAgainstHome(t *testing.T) {
	t.Parallel()

	provider := shell.NewProvider(mocks.NewFileSystem())
	ctx := sequence.NewCompileContext(map[string]interface{}{
		"shell": map[string]interface{}{
			"env": map[string]interface{}{"EDITOR": "vim"},
		},
	}).WithEnvironment(sequence.Environment{User: "ops", Home: "/home/ops"})

	steps, err := provider.Compile(ctx)

	require.NoError(t, err)
	require.Len(t, steps, 1)
	detail := steps[0].Explain(sequence.NewExplainContext()).Detail()
	assert.Contains(t, detail, "/home/ops/.bashrc")
}

func TestProvider_Compile_InvalidSection_ReturnsError(t *testing.T) {
	t.Parallel()

	provider := shell.NewProvider(mocks.NewFileSystem())
	ctx := sequence.NewCompileContext(map[string]interface{}{
		"shell": map[string]interface{}{
			"env": map[string]interface{}{"BAD NAME": "x"},
		},
	}).WithEnvironment(testEnv())

	_, err := provider.Compile(ctx)

	require.Error(t, err)
}
