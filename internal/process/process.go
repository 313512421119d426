// Package process runs external tools to completion.
package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/maxmcd/cmk/internal/logger"
	"github.com/pkg/errors"
)

// Runner runs a single command, args[0] being the executable.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// ExitError is returned when a process ran but exited with a non-zero status.
type ExitError struct {
	Args     []string
	ExitCode int
}

func (err ExitError) Error() string {
	return fmt.Sprintf("command %q failed with exit code %d", strings.Join(err.Args, " "), err.ExitCode)
}

// waitDelay is how long an interrupted process has to exit before it's killed.
const waitDelay = 5 * time.Second

// Exec runs commands as child processes. Zero values for the streams inherit
// the streams of the current process.
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Dir    string
}

var _ Runner = Exec{}

func (e Exec) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("no command to run")
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = e.Stdin, e.Stdout, e.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.Dir = e.Dir
	cmd.Cancel = func() error {
		// Interrupt isn't supported everywhere, fall back to a kill.
		if err := cmd.Process.Signal(os.Interrupt); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = waitDelay

	logger.Debugw("running command", "args", args, "dir", e.Dir)
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "error starting %q", args[0])
	}
	err := cmd.Wait()
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return errors.Wrapf(err, "error waiting for %q", args[0])
	}
	code := exitCode(ee.ProcessState)
	logger.Debugw("command failed", "args", args, "code", code)
	return ExitError{Args: append([]string(nil), args...), ExitCode: code}
}

func exitCode(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	if code := state.ExitCode(); code > 0 {
		return code
	}
	return 1
}
