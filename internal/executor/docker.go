// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// timeoutExitCode is what coreutils timeout(1) returns when it kills the
// wrapped command.
const timeoutExitCode = 124

// Docker runs the compiler inside a one-shot container of a fixed image.
type Docker struct {
	engine *CLIEngine
	image  string
}

// NewDocker creates a docker executor for the given image. The image
// must already be pulled; Registry handles that once per image.
func NewDocker(engine *CLIEngine, image string) *Docker {
	return &Docker{engine: engine, image: image}
}

// Ref returns the docker-prefixed image reference.
func (d *Docker) Ref() string { return "docker:" + d.image }

// Invoke runs gcc inside a fresh container and returns its captured
// stdout. The working directory is bind-mounted read-write at the same
// path inside the container so compiler inputs and outputs line up with
// the host. The timeout is enforced twice: coreutils timeout(1) inside
// the container, and a context deadline on the docker client itself in
// case the container never starts.
func (d *Docker) Invoke(ctx context.Context, args []string, opts InvokeOptions) (string, error) {
	timeout := opts.timeout()

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", &ExecutionError{Ref: d.Ref(), Args: args, ExitCode: -1, Cause: err}
		}
		workDir = wd
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", &ExecutionError{Ref: d.Ref(), Args: args, ExitCode: -1, Cause: err}
	}

	command := []string{"timeout", strconv.Itoa(int(timeout.Seconds())), "gcc"}
	command = append(command, args...)
	runArgs := d.engine.RunArgs(d.image, workDir, opts.Volumes, command)

	// Leave headroom over the in-container timeout so the distinct
	// exit-124 path is the one that normally fires.
	ctx, cancel := context.WithTimeout(ctx, timeout+30*time.Second)
	defer cancel()

	stdout, stderr, exitCode, err := d.engine.Run(ctx, runArgs)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &TimeoutError{Ref: d.Ref(), Args: args, Timeout: timeout}
		}
		return "", &ExecutionError{Ref: d.Ref(), Args: args, ExitCode: -1, Cause: err}
	}

	switch {
	case exitCode == timeoutExitCode || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "", &TimeoutError{Ref: d.Ref(), Args: args, Timeout: timeout}
	case exitCode != 0:
		return "", &ExecutionError{
			Ref:      d.Ref(),
			Args:     args,
			ExitCode: exitCode,
			Output:   fmt.Sprintf("%s%s", stdout, stderr),
		}
	}

	return stdout, nil
}
