package build_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pydist/pydist/pkg/build"
)

// writeFakeFrontend writes a stand-in for the python interpreter that records
// its arguments and exits with the given code.
func writeFakeFrontend(t *testing.T, exitCode int) (exe, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test frontend is a shell script")
	}
	dir := t.TempDir()
	exe = filepath.Join(dir, "fake-python")
	argsFile = filepath.Join(dir, "args")
	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$@\" >%s\nexit %d\n", argsFile, exitCode)
	require.NoError(t, os.WriteFile(exe, []byte(script), 0o755))
	return exe, argsFile
}

func TestRun(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, true)
	exe, argsFile := writeFakeFrontend(t, 0)

	err := build.Run(ctx, build.Options{
		ProjectDir: "proj",
		DistDir:    "out",
		SdistOnly:  true,
		Python:     exe,
	})
	require.NoError(t, err)

	gotArgs, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"-m", "build", "--sdist", "--outdir", "out", "proj"},
		strings.Fields(string(gotArgs)))
}

func TestRunDefaults(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, true)
	exe, argsFile := writeFakeFrontend(t, 0)

	require.NoError(t, build.Run(ctx, build.Options{Python: exe}))

	gotArgs, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"-m", "build"}, strings.Fields(string(gotArgs)))
}

func TestRunFailure(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, true)
	exe, _ := writeFakeFrontend(t, 3)

	err := build.Run(ctx, build.Options{Python: exe})
	require.Error(t, err)

	var buildErr *build.Error
	require.ErrorAs(t, err, &buildErr)

	// the frontend's exit code must stay recoverable for exit-code
	// propagation
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())
}
