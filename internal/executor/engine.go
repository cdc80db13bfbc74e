// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ExecCommandFunc is the function signature for creating exec.Cmd.
// This allows injection of mock implementations for testing.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// execCommand creates commands for both the docker CLI engine and the
// local backend. Tests swap it for a recorder.
var execCommand ExecCommandFunc = exec.CommandContext

// CLIEngine wraps the docker command-line client. All container
// operations shell out to the resolved binary; no daemon API client is
// held open between calls.
type CLIEngine struct {
	binaryPath string
}

// NewCLIEngine creates a docker CLI engine. The binary is resolved once
// at construction; an empty path means docker is not installed.
func NewCLIEngine() *CLIEngine {
	path, _ := exec.LookPath("docker")
	return &CLIEngine{binaryPath: path}
}

// BinaryPath returns the resolved docker binary path, or "" if absent.
func (e *CLIEngine) BinaryPath() string { return e.binaryPath }

// Available checks that the docker binary exists and the daemon responds.
func (e *CLIEngine) Available(ctx context.Context) bool {
	if e.binaryPath == "" {
		return false
	}
	cmd := execCommand(ctx, e.binaryPath, "version", "--format", "{{.Server.Version}}")
	return cmd.Run() == nil
}

// Pull fetches an image from its registry.
func (e *CLIEngine) Pull(ctx context.Context, image string) error {
	var stderr bytes.Buffer
	cmd := execCommand(ctx, e.binaryPath, "pull", image)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &EnvironmentUnavailableError{
			Backend: "docker:" + image,
			Reason:  fmt.Sprintf("image pull failed: %s", strings.TrimSpace(stderr.String())),
			Cause:   err,
		}
	}
	return nil
}

// RunArgs builds the argument slice for a one-shot 'docker run' without
// executing it. Split out so tests can verify argument construction.
func (e *CLIEngine) RunArgs(image, workDir string, volumes []VolumeMount, command []string) []string {
	args := []string{"run", "--rm", "-w", workDir, "-v", workDir + ":" + workDir}
	for _, v := range volumes {
		spec := v.HostPath + ":" + v.ContainerPath
		if v.ReadOnly {
			spec += ":ro"
		}
		args = append(args, "-v", spec)
	}
	args = append(args, image)
	args = append(args, command...)
	return args
}

// Run executes a one-shot container and returns captured stdout, stderr,
// and the process exit code. A start failure (as opposed to a non-zero
// containerized command) is reported through err.
func (e *CLIEngine) Run(ctx context.Context, args []string) (stdout, stderr string, exitCode int, err error) {
	var outBuf, errBuf bytes.Buffer
	cmd := execCommand(ctx, e.binaryPath, args...)
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return stdout, stderr, exitErr.ExitCode(), nil
		}
		return stdout, stderr, -1, runErr
	}
	return stdout, stderr, 0, nil
}
