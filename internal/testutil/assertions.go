package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// AssertFileExists asserts that a file exists at the given path.
func AssertFileExists(t testing.TB, path string, msgAndArgs ...interface{}) {
	t.Helper()

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		assert.Fail(t, "file does not exist", "expected file to exist: %s", path)
		return
	}
	require.NoError(t, err)
	assert.False(t, info.IsDir(), "expected file but got directory: %s", path)
}

// AssertFileNotExists asserts that no file exists at the given path.
func AssertFileNotExists(t testing.TB, path string, msgAndArgs ...interface{}) {
	t.Helper()

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expected file to not exist: %s", path)
}

// AssertFileMode asserts the exact permission bits of a file. Steps that
// write secrets chmod after writing, so the asserted mode must hold
// regardless of the umask the test runs under.
func AssertFileMode(t testing.TB, path string, want os.FileMode, msgAndArgs ...interface{}) {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err, "failed to stat file: %s", path)
	assert.Equal(t, want, info.Mode().Perm(), msgAndArgs...)
}

// AssertFileContains asserts that a file contains the expected substring.
func AssertFileContains(t testing.TB, path, expected string, msgAndArgs ...interface{}) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)

	assert.Contains(t, string(content), expected, msgAndArgs...)
}

// AssertFileNotContains asserts that a file does not contain the substring.
func AssertFileNotContains(t testing.TB, path, unexpected string, msgAndArgs ...interface{}) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)

	assert.NotContains(t, string(content), unexpected, msgAndArgs...)
}

// AssertContainsOnce asserts that substr occurs exactly once in content.
// The no-duplicate-append guarantee on startup files reduces to this.
func AssertContainsOnce(t testing.TB, content, substr string, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, 1, strings.Count(content, substr), msgAndArgs...)
}

// AssertYAMLEquals asserts that two YAML strings are semantically equal.
func AssertYAMLEquals(t testing.TB, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedMap, actualMap interface{}

	err := yaml.Unmarshal([]byte(expected), &expectedMap)
	require.NoError(t, err, "failed to parse expected YAML")

	err = yaml.Unmarshal([]byte(actual), &actualMap)
	require.NoError(t, err, "failed to parse actual YAML")

	assert.Equal(t, expectedMap, actualMap, msgAndArgs...)
}

// AssertErrorContains asserts that err contains the expected message.
func AssertErrorContains(t testing.TB, err error, expected string, msgAndArgs ...interface{}) {
	t.Helper()

	require.Error(t, err)
	assert.Contains(t, err.Error(), expected, msgAndArgs...)
}
