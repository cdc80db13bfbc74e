// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Local runs the compiler binary directly on the host.
type Local struct {
	bin string
}

// NewLocal creates a local executor for the given compiler binary. The
// binary is resolved through PATH; a missing binary is an
// EnvironmentUnavailableError.
func NewLocal(bin string) (*Local, error) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, &EnvironmentUnavailableError{
			Backend: bin,
			Reason:  "compiler binary not found",
			Cause:   err,
		}
	}
	return &Local{bin: path}, nil
}

// Ref returns the resolved binary path.
func (l *Local) Ref() string { return l.bin }

// Invoke runs the compiler binary and returns its captured stdout.
func (l *Local) Invoke(ctx context.Context, args []string, opts InvokeOptions) (string, error) {
	timeout := opts.timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := execCommand(ctx, l.bin, args...)
	cmd.Dir = opts.WorkDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &TimeoutError{Ref: l.bin, Args: args, Timeout: timeout}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ExecutionError{
				Ref:      l.bin,
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Output:   stderr.String(),
			}
		}
		return "", &ExecutionError{Ref: l.bin, Args: args, ExitCode: -1, Cause: err}
	}

	return stdout.String(), nil
}
