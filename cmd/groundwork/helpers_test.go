package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/felixgeelhaar/groundwork/internal/app"
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
	"github.com/stretchr/testify/require"
)

const testManifestPath = "/home/dev/groundwork.yaml"

func testEnv() sequence.Environment {
	return sequence.Environment{
		User:     "dev",
		Home:     "/home/dev",
		Hostname: "forge",
		OS:       "linux",
		Arch:     "amd64",
		Elevated: true,
	}
}

// swapApp points newApp at an App built on mocks for the duration of
// the test. The manifest, when non-empty, is placed at
// testManifestPath on the mock filesystem.
func swapApp(t *testing.T, manifest string, probeTools ...string) (*mocks.FileSystem, *bytes.Buffer) {
	t.Helper()

	fs := mocks.NewFileSystem()
	if manifest != "" {
		fs.AddFile(testManifestPath, manifest)
	}

	var out bytes.Buffer
	original := newApp
	newApp = func() *app.App {
		return app.New(
			app.WithFileSystem(fs),
			app.WithRunner(mocks.NewCommandRunner()),
			app.WithProbe(mocks.NewProbe(probeTools...)),
			app.WithInput(mocks.NewInput(nil)),
			app.WithOutput(&out),
			app.WithEnvironment(testEnv()),
		)
	}
	t.Cleanup(func() { newApp = original })

	return fs, &out
}

// setConfigPath points the global --config flag at path for the
// duration of the test.
func setConfigPath(t *testing.T, path string) {
	t.Helper()

	original := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = original })
}

// captureStdout collects what f prints to os.Stdout. The commands
// print user-facing text there directly.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	f()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}
