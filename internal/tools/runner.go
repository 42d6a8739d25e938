package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// RunResult holds the outcome of an external program that ran to exit.
type RunResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func (r *RunResult) Success() bool { return r.ExitCode == 0 }

// Runner executes an external program synchronously. A non-zero exit is
// reported through RunResult; the error is reserved for failures to run the
// program at all (not found, timed out, cancelled).
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (*RunResult, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (*RunResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Grandchildren can hold the output pipes open after a kill.
	cmd.WaitDelay = 2 * time.Second

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if timeout > 0 && errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s timed out after %s", name, timeout)
		}
		return nil, fmt.Errorf("%s: %w", name, ctxErr)
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, err
	}

	res := &RunResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if exitErr != nil {
		res.ExitCode = exitErr.ExitCode()
	}
	return res, nil
}

// Spawner starts a detached process without waiting for it.
type Spawner interface {
	Spawn(name string, args ...string) error
}

// ProcessSpawner starts processes with os/exec and releases them
// immediately. The child does not inherit the protocol stdio.
type ProcessSpawner struct{}

func (ProcessSpawner) Spawn(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
