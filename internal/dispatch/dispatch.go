// Package dispatch transfers control from the launcher to the selected
// interpreter.
package dispatch

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/quantmind-br/py/internal/core"
	"github.com/quantmind-br/py/internal/probe"
)

// Mode selects how control is handed to the interpreter
type Mode string

const (
	// ModeExec replaces the launcher's process image. On success control
	// never returns; the interpreter inherits the launcher's PID, open
	// file descriptors and signal masks, so job control behaves exactly
	// as if the interpreter had been invoked directly.
	ModeExec Mode = "exec"

	// ModeSpawn runs the interpreter as a child with inherited stdio and
	// forwarded signals, then exits with the child's exact status. An
	// approximation of ModeExec with slightly weaker job-control fidelity.
	ModeSpawn Mode = "spawn"
)

// forwardedSignals are relayed to the child in spawn mode
var forwardedSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGHUP,
	syscall.SIGQUIT,
}

// Dispatcher hands the process over to a chosen interpreter
type Dispatcher struct {
	mode   Mode
	runner probe.CommandRunner
	log    *zerolog.Logger

	// execve is swappable for tests; the real one never returns on success
	execve func(argv0 string, argv []string, envv []string) error
}

// New creates a dispatcher in the given mode
func New(mode Mode, runner probe.CommandRunner, log *zerolog.Logger) *Dispatcher {
	if mode != ModeSpawn {
		mode = ModeExec
	}
	return &Dispatcher{
		mode:   mode,
		runner: runner,
		log:    log,
		execve: unix.Exec,
	}
}

// Dispatch transfers control to the interpreter, passing through the
// forwarded argument tail and the current environment unmodified.
//
// In exec mode a successful call never returns. Both modes return
// (exitCode, *core.DispatchError) when the interpreter could not be
// executed; a resolved-then-vanished binary is not recoverable within one
// invocation, so there is no retry.
func (d *Dispatcher) Dispatch(ctx context.Context, interp core.Interpreter, args []string) (int, error) {
	d.log.Debug().
		Str("path", interp.Path).
		Stringer("version", interp.Version).
		Strs("args", args).
		Str("mode", string(d.mode)).
		Msg("dispatching")

	if d.mode == ModeSpawn {
		return d.spawn(ctx, interp, args)
	}

	argv := append([]string{interp.Path}, args...)
	err := d.execve(interp.Path, argv, os.Environ())
	// Reaching this point at all means the image replacement failed.
	return core.ExitDispatchFailed, &core.DispatchError{Path: interp.Path, Err: err}
}

// spawn runs the interpreter as a child process, relaying signals and
// propagating its exact exit status
func (d *Dispatcher) spawn(ctx context.Context, interp core.Interpreter, args []string) (int, error) {
	cmd := d.runner.PrepareCommand(ctx, interp.Path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return core.ExitDispatchFailed, &core.DispatchError{Path: interp.Path, Err: err}
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, forwardedSignals...)
	defer signal.Stop(sigc)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	for {
		select {
		case sig := <-sigc:
			// Best effort; the child may already be gone.
			_ = cmd.Process.Signal(sig)
		case err := <-done:
			if err == nil {
				return core.ExitSuccess, nil
			}
			// A signal-killed child exits with the shell convention
			// 128+signal, e.g. 130 after SIGINT.
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
					return 128 + int(status.Signal()), nil
				}
			}
			if code := d.runner.GetExitCode(err); code >= 0 {
				return code, nil
			}
			return core.ExitDispatchFailed, &core.DispatchError{Path: interp.Path, Err: err}
		}
	}
}
