// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"context"
	"strings"
	"sync"
)

// dockerPrefix marks a backend reference as a docker image instead of a
// host binary path.
const dockerPrefix = "docker:"

// newEngine creates the docker CLI engine. Tests swap it to skip the
// PATH lookup.
var newEngine = NewCLIEngine

// Registry constructs executors and memoizes the expensive one-time
// backend setup: docker daemon availability is probed once, and each
// image is pulled at most once per process. The caller constructs one
// Registry and passes it down; there are no package-level singletons.
type Registry struct {
	mu        sync.Mutex
	engine    *CLIEngine
	engineErr error
	probed    bool
	pulled    map[string]error
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{pulled: make(map[string]error)}
}

// Executor resolves a backend reference to a ready executor. References
// of the form "docker:<image>" get a docker backend with the image
// pulled; anything else is treated as a compiler binary on the host.
func (r *Registry) Executor(ctx context.Context, ref string) (Executor, error) {
	if image, ok := strings.CutPrefix(ref, dockerPrefix); ok {
		return r.docker(ctx, image)
	}
	return NewLocal(ref)
}

// docker returns a docker executor for the image, initializing the
// engine and pulling the image only on first use.
func (r *Registry) docker(ctx context.Context, image string) (*Docker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.probed {
		r.probed = true
		engine := newEngine()
		if !engine.Available(ctx) {
			r.engineErr = &EnvironmentUnavailableError{
				Backend: "docker",
				Reason:  "docker client unavailable; is docker installed and the daemon running?",
			}
		} else {
			r.engine = engine
		}
	}
	if r.engineErr != nil {
		return nil, r.engineErr
	}

	pullErr, done := r.pulled[image]
	if !done {
		pullErr = r.engine.Pull(ctx, image)
		r.pulled[image] = pullErr
	}
	if pullErr != nil {
		return nil, pullErr
	}

	return NewDocker(r.engine, image), nil
}
