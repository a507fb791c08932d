package dispatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/py/internal/core"
	"github.com/quantmind-br/py/internal/probe"
)

func testLogger() *zerolog.Logger {
	log := zerolog.Nop()
	return &log
}

func testInterp(path string) core.Interpreter {
	return core.Interpreter{
		Path:    path,
		Version: core.Version{Major: 3, Minor: 11, Patch: -1},
		Arch:    core.Arch64,
		Tier:    core.TierPath,
	}
}

func TestDispatchExecPassesArgvAndEnv(t *testing.T) {
	var gotArgv0 string
	var gotArgv []string
	var gotEnv []string

	d := New(ModeExec, probe.NewOSCommandRunner(), testLogger())
	d.execve = func(argv0 string, argv []string, envv []string) error {
		gotArgv0 = argv0
		gotArgv = argv
		gotEnv = envv
		return nil // pretend replacement happened; real exec never returns
	}

	code, err := d.Dispatch(context.Background(), testInterp("/usr/bin/python3.11"), []string{"script.py", "--flag"})

	// The stubbed exec "returned", which the dispatcher must treat as failure.
	assert.Equal(t, core.ExitDispatchFailed, code)
	assert.Error(t, err)

	assert.Equal(t, "/usr/bin/python3.11", gotArgv0)
	assert.Equal(t, []string{"/usr/bin/python3.11", "script.py", "--flag"}, gotArgv,
		"argv leads with the interpreter path, launcher argv0 already stripped")
	assert.Equal(t, os.Environ(), gotEnv, "environment passed through unmodified")
}

func TestDispatchExecFailureIsDispatchError(t *testing.T) {
	d := New(ModeExec, probe.NewOSCommandRunner(), testLogger())
	d.execve = func(string, []string, []string) error {
		return syscall.ENOENT // discovered, then vanished
	}

	code, err := d.Dispatch(context.Background(), testInterp("/usr/bin/python3"), nil)
	assert.Equal(t, core.ExitDispatchFailed, code)

	var dispatchErr *core.DispatchError
	require.True(t, errors.As(err, &dispatchErr))
	assert.Equal(t, "/usr/bin/python3", dispatchErr.Path)
	assert.True(t, errors.Is(err, syscall.ENOENT))
}

func TestSpawnPropagatesExitCode(t *testing.T) {
	script := filepath.Join(t.TempDir(), "fake-python")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 42\n"), 0o755))

	d := New(ModeSpawn, probe.NewOSCommandRunner(), testLogger())
	code, err := d.Dispatch(context.Background(), testInterp(script), nil)

	require.NoError(t, err, "a child that runs and exits nonzero is a successful dispatch")
	assert.Equal(t, 42, code)
}

func TestSpawnPassesArguments(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-python")
	outFile := filepath.Join(dir, "args.txt")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"$@\" > "+outFile+"\n"), 0o755))

	d := New(ModeSpawn, probe.NewOSCommandRunner(), testLogger())
	code, err := d.Dispatch(context.Background(), testInterp(script), []string{"one", "two"})

	require.NoError(t, err)
	assert.Equal(t, core.ExitSuccess, code)

	out, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "one two\n", string(out))
}

func TestSpawnSignalDeathUsesShellConvention(t *testing.T) {
	script := filepath.Join(t.TempDir(), "fake-python")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nkill -TERM $$\n"), 0o755))

	d := New(ModeSpawn, probe.NewOSCommandRunner(), testLogger())
	code, err := d.Dispatch(context.Background(), testInterp(script), nil)

	require.NoError(t, err)
	assert.Equal(t, 128+int(syscall.SIGTERM), code)
}

func TestSpawnMissingBinary(t *testing.T) {
	d := New(ModeSpawn, probe.NewOSCommandRunner(), testLogger())

	code, err := d.Dispatch(context.Background(), testInterp("/nonexistent/python3"), nil)
	assert.Equal(t, core.ExitDispatchFailed, code)

	var dispatchErr *core.DispatchError
	assert.True(t, errors.As(err, &dispatchErr))
}

func TestNewDefaultsToExec(t *testing.T) {
	d := New(Mode("bogus"), probe.NewOSCommandRunner(), testLogger())
	assert.Equal(t, ModeExec, d.mode)
}
