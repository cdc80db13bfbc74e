// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrEnvironmentUnavailable is the sentinel error wrapped by EnvironmentUnavailableError.
	ErrEnvironmentUnavailable = errors.New("execution environment unavailable")

	// ErrInvokeTimeout is the sentinel error wrapped by TimeoutError.
	ErrInvokeTimeout = errors.New("compiler invocation timed out")

	// ErrExecutionFailed is the sentinel error wrapped by ExecutionError.
	ErrExecutionFailed = errors.New("compiler invocation failed")
)

type (
	// EnvironmentUnavailableError is returned when an execution backend
	// cannot initialize at all: the docker daemon is unreachable, an image
	// cannot be pulled, or the compiler binary does not exist.
	EnvironmentUnavailableError struct {
		Backend string
		Reason  string
		Cause   error
	}

	// TimeoutError is returned when a compiler invocation exceeds its
	// timeout. It is always distinct from a non-zero exit; a timed-out
	// invocation never yields partial output.
	TimeoutError struct {
		Ref     string
		Args    []string
		Timeout time.Duration
	}

	// ExecutionError is returned when the compiler exits non-zero or the
	// invocation itself fails. Output carries whatever diagnostics were
	// captured.
	ExecutionError struct {
		Ref      string
		Args     []string
		ExitCode int
		Output   string
		Cause    error
	}
)

// Error implements the error interface.
func (e *EnvironmentUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("backend %q unavailable: %s: %v", e.Backend, e.Reason, e.Cause)
	}
	return fmt.Sprintf("backend %q unavailable: %s", e.Backend, e.Reason)
}

// Unwrap returns ErrEnvironmentUnavailable (and the cause) so callers can
// use errors.Is for programmatic detection.
func (e *EnvironmentUnavailableError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrEnvironmentUnavailable, e.Cause}
	}
	return []error{ErrEnvironmentUnavailable}
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s %s timed out after %s", e.Ref, strings.Join(e.Args, " "), e.Timeout)
}

// Unwrap returns ErrInvokeTimeout so callers can use errors.Is for programmatic detection.
func (e *TimeoutError) Unwrap() error { return ErrInvokeTimeout }

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("%s %s failed with exit code %d", e.Ref, strings.Join(e.Args, " "), e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns ErrExecutionFailed (and the cause) so callers can use
// errors.Is for programmatic detection.
func (e *ExecutionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrExecutionFailed, e.Cause}
	}
	return []error{ErrExecutionFailed}
}
