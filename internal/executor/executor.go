// SPDX-License-Identifier: MPL-2.0

// Package executor abstracts running a GCC compiler, either as a binary
// on the host or inside a docker container.
//
// Both backends implement the same contract: invoke the compiler with a
// list of arguments and a hard timeout, and return its captured stdout.
// Failures are typed so callers can tell a timeout from a non-zero exit
// from an unusable environment.
package executor

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single compiler invocation when the caller
// does not pick one. Introspection queries on large GCC builds can take
// tens of seconds inside a cold container.
const DefaultTimeout = 60 * time.Second

type (
	// Executor runs the compiler with the given arguments.
	Executor interface {
		// Invoke runs the compiler and returns its captured stdout.
		// It blocks until the process exits or the timeout elapses;
		// exceeding the timeout is a TimeoutError, never a partial result.
		Invoke(ctx context.Context, args []string, opts InvokeOptions) (string, error)

		// Ref returns the stable identity of the backend, e.g.
		// "/usr/bin/gcc" or "docker:gcc:11.2.0". Used as a memoization key.
		Ref() string
	}

	// InvokeOptions configures a single compiler invocation.
	InvokeOptions struct {
		// Timeout bounds the invocation. Zero means DefaultTimeout.
		Timeout time.Duration
		// WorkDir is the working directory for the compiler process.
		// Empty means the current directory.
		WorkDir string
		// Volumes are extra bind mounts for container backends. The
		// working directory is always mounted; local backends ignore this.
		Volumes []VolumeMount
	}

	// VolumeMount is a host path bind-mounted into a container.
	VolumeMount struct {
		HostPath      string
		ContainerPath string
		ReadOnly      bool
	}
)

// timeout resolves the effective timeout for an invocation.
func (o InvokeOptions) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}
