// Package command runs external programs and reports how they ended.
package command

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"syscall"

	shellquote "github.com/kballard/go-shellquote"
)

// Result describes a finished process. Exactly one of ExitStatus and
// ExitSignal is set.
type Result struct {
	Args []string
	// Output holds stdout and stderr interleaved as the process wrote them.
	Output []byte
	// ExitStatus is the exit code when the process exited normally.
	ExitStatus *int
	// ExitSignal is the number of the signal that terminated the process.
	ExitSignal *int
}

// Success reports whether the process exited with status 0.
func (r *Result) Success() bool {
	return r.ExitStatus != nil && *r.ExitStatus == 0
}

// Err returns a *FailedError unless the process exited with status 0.
func (r *Result) Err() error {
	if r.Success() {
		return nil
	}
	return &FailedError{
		Args:       r.Args,
		ExitStatus: r.ExitStatus,
		ExitSignal: r.ExitSignal,
		Output:     r.Output,
	}
}

// FailedError is returned when a child process does not exit successfully.
type FailedError struct {
	Args       []string
	ExitStatus *int
	ExitSignal *int
	Output     []byte
}

func (e *FailedError) Error() string {
	cmd := shellquote.Join(e.Args...)
	switch {
	case e.ExitSignal != nil:
		return fmt.Sprintf("command %s killed by signal %d: %s", cmd, *e.ExitSignal, bytes.TrimSpace(e.Output))
	case e.ExitStatus != nil:
		return fmt.Sprintf("command %s exited with status %d: %s", cmd, *e.ExitStatus, bytes.TrimSpace(e.Output))
	}
	return fmt.Sprintf("command %s failed: %s", cmd, bytes.TrimSpace(e.Output))
}

// Runner executes commands. The zero value runs in the current directory
// with the current environment.
type Runner struct {
	// Dir is the working directory of the child.
	Dir string
	// Env replaces the environment of the child when non-nil.
	Env []string
}

// Run starts args[0] with the remaining arguments and waits for it. The
// returned error is non-nil only when the process could not be started; use
// Result.Err to check how it ended.
func (r Runner) Run(args ...string) (*Result, error) {
	if len(args) == 0 {
		return nil, errors.New("no command given")
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = r.Env

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("running %s: %w", shellquote.Join(args...), err)
	}

	result := &Result{Args: args, Output: output.Bytes()}
	if ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		sig := int(ws.Signal())
		result.ExitSignal = &sig
	} else {
		status := cmd.ProcessState.ExitCode()
		result.ExitStatus = &status
	}
	return result, nil
}

// Output runs args and returns its combined output, or a *FailedError when
// it does not exit with status 0.
func (r Runner) Output(args ...string) ([]byte, error) {
	result, err := r.Run(args...)
	if err != nil {
		return nil, err
	}
	return result.Output, result.Err()
}

