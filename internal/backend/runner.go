package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"fastreer-gui/internal/debug"
	appErrors "fastreer-gui/internal/errors"
)

// ExitError reports a backend that ran but exited with a non-zero code.
type ExitError struct {
	Code int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("backend exited with code %d", e.Code)
}

// Runner spawns one backend process at a time and waits for it.
type Runner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStdio replaces the inherited standard streams, mainly for tests.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// NewRunner constructs a Runner that shares this process's standard
// streams with the backend so its output reaches the user unmediated.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes args[0] with args[1:] and blocks until it exits, returning
// the exit code. Exit code 0 is the only success. A non-zero exit returns
// the code and an ExitError; a spawn failure returns -1. Cancelling ctx
// kills the process.
func (r *Runner) Run(ctx context.Context, args []string) (int, error) {
	if len(args) == 0 || args[0] == "" {
		return -1, appErrors.New(appErrors.CodeInvalidJob, "empty backend command", nil)
	}

	debug.Logf("backend command: %s", DisplayString(args))
	for _, line := range DisplayTokens(args) {
		debug.Log(line)
	}

	//nolint:gosec // G204: the backend path is chosen by the user on purpose
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	if err := cmd.Start(); err != nil {
		return -1, classifySpawnError(args[0], err)
	}

	err := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, appErrors.New(appErrors.CodeCanceled, "backend run canceled", ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			debug.Logf("backend exited with code %d", code)
			return code, appErrors.New(appErrors.CodeNonZeroExit, "FastreeR failed", ExitError{Code: code})
		}
		return -1, appErrors.New(appErrors.CodeSpawnFailed, "wait for backend", err)
	}

	debug.Log("backend exited with code 0")
	return 0, nil
}

func classifySpawnError(bin string, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return appErrors.New(appErrors.CodeBackendNotFound, fmt.Sprintf("%s not found", bin), err)
	}
	return appErrors.New(appErrors.CodeSpawnFailed, "start "+bin, err)
}
