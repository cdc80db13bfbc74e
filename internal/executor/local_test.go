// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewLocal_MissingBinary(t *testing.T) {
	t.Parallel()

	_, err := NewLocal("definitely-not-a-compiler-3f9a")
	if !errors.Is(err, ErrEnvironmentUnavailable) {
		t.Fatalf("NewLocal() error = %v, want ErrEnvironmentUnavailable", err)
	}
}

func TestLocal_Invoke(t *testing.T) {
	t.Run("captures stdout", func(t *testing.T) {
		local, err := NewLocal("sh")
		if err != nil {
			t.Fatalf("NewLocal() error = %v", err)
		}

		out, err := local.Invoke(context.Background(), []string{"-c", "echo hello"}, InvokeOptions{})
		if err != nil {
			t.Fatalf("Invoke() error = %v", err)
		}
		if out != "hello\n" {
			t.Errorf("stdout = %q, want %q", out, "hello\n")
		}
	})

	t.Run("non-zero exit becomes ExecutionError with stderr", func(t *testing.T) {
		local, err := NewLocal("sh")
		if err != nil {
			t.Fatalf("NewLocal() error = %v", err)
		}

		_, err = local.Invoke(context.Background(), []string{"-c", "echo oops >&2; exit 3"}, InvokeOptions{})
		if !errors.Is(err, ErrExecutionFailed) {
			t.Fatalf("Invoke() error = %v, want ErrExecutionFailed", err)
		}

		var execErr *ExecutionError
		if !errors.As(err, &execErr) {
			t.Fatal("error is not an *ExecutionError")
		}
		if execErr.ExitCode != 3 {
			t.Errorf("exit code = %d, want 3", execErr.ExitCode)
		}
		if execErr.Output != "oops\n" {
			t.Errorf("output = %q, want %q", execErr.Output, "oops\n")
		}
	})

	t.Run("deadline becomes TimeoutError", func(t *testing.T) {
		local, err := NewLocal("sleep")
		if err != nil {
			t.Fatalf("NewLocal() error = %v", err)
		}

		_, err = local.Invoke(context.Background(), []string{"5"}, InvokeOptions{Timeout: 100 * time.Millisecond})
		if !errors.Is(err, ErrInvokeTimeout) {
			t.Fatalf("Invoke() error = %v, want ErrInvokeTimeout", err)
		}

		var timeoutErr *TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Fatal("error is not a *TimeoutError")
		}
		if timeoutErr.Timeout != 100*time.Millisecond {
			t.Errorf("timeout = %v, want 100ms", timeoutErr.Timeout)
		}
	})

	t.Run("Ref is the resolved binary path", func(t *testing.T) {
		local, err := NewLocal("sh")
		if err != nil {
			t.Fatalf("NewLocal() error = %v", err)
		}
		if local.Ref() == "" || local.Ref() == "sh" {
			t.Errorf("Ref() = %q, want an absolute resolved path", local.Ref())
		}
	})
}
