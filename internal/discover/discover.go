// SPDX-License-Identifier: MPL-2.0

// Package discover turns a live compiler backend into a sealed
// gccspec.Spec: fetch the version, probe the cache, and on a miss parse
// the compiler's own introspection output, apply fixups, and persist the
// result.
//
// Discovery is synchronous per call and issues its compiler invocations
// sequentially (version, optimize help, param help). Independent calls
// for different backends may run in parallel; the on-disk cache is the
// only shared resource and its writes are atomic.
package discover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"gccprobe/internal/cache"
	"gccprobe/internal/executor"
	"gccprobe/internal/fixup"
	"gccprobe/internal/gccspec"
	"gccprobe/internal/help"
)

var (
	// ErrSpecUnavailable is returned when the compiler's version cannot be
	// determined. Callers may tolerate a missing spec, so this degrades
	// rather than carrying a hard executor failure.
	ErrSpecUnavailable = errors.New("compiler spec unavailable")

	// ErrVersionUnrecognized is the sentinel error wrapped by VersionUnrecognizedError.
	ErrVersionUnrecognized = errors.New("unrecognized compiler version")

	// ErrParseIncomplete is the sentinel error wrapped by ParseIncompleteError.
	ErrParseIncomplete = errors.New("no options recovered from help output")
)

type (
	// VersionUnrecognizedError is returned when --version output does not
	// identify a GCC compiler.
	VersionUnrecognizedError struct {
		Output string
	}

	// ParseIncompleteError is returned when a recognized compiler version
	// yields zero options: the help output changed shape badly enough that
	// nothing parsed. An empty spec is never cached or returned.
	ParseIncompleteError struct {
		Version string
	}

	// Discoverer builds and caches compiler specs. One Discoverer is
	// shared per process; specs are memoized per backend reference for
	// the process lifetime on top of the durable on-disk cache.
	Discoverer struct {
		store   *cache.Store
		parser  *help.Parser
		fixups  fixup.Table
		logger  *log.Logger
		timeout time.Duration

		mu   sync.Mutex
		memo map[string]*gccspec.Spec
	}
)

// Error implements the error interface.
func (e *VersionUnrecognizedError) Error() string {
	return fmt.Sprintf("version output %q does not identify a gcc compiler", e.Output)
}

// Unwrap returns ErrVersionUnrecognized so callers can use errors.Is for programmatic detection.
func (e *VersionUnrecognizedError) Unwrap() error { return ErrVersionUnrecognized }

// Error implements the error interface.
func (e *ParseIncompleteError) Error() string {
	return fmt.Sprintf("parsed zero options for compiler version %q", e.Version)
}

// Unwrap returns ErrParseIncomplete so callers can use errors.Is for programmatic detection.
func (e *ParseIncompleteError) Unwrap() error { return ErrParseIncomplete }

// New creates a Discoverer persisting specs through store.
func New(store *cache.Store, logger *log.Logger) *Discoverer {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "discover"})
	}
	return &Discoverer{
		store:  store,
		parser: help.NewParser(logger),
		fixups: fixup.Default(),
		logger: logger,
		memo:   make(map[string]*gccspec.Spec),
	}
}

// SetInvokeTimeout overrides the per-invocation timeout for discovery
// queries. Zero keeps the executor default.
func (d *Discoverer) SetInvokeTimeout(timeout time.Duration) {
	d.timeout = timeout
}

// Spec returns the sealed option-space model for the given backend,
// from memory, from the on-disk cache, or by parsing the compiler's
// introspection output. The returned spec is fully parsed, fixed up,
// and validated non-empty; discovery never hands back a partial one.
func (d *Discoverer) Spec(ctx context.Context, exec executor.Executor) (*gccspec.Spec, error) {
	d.mu.Lock()
	if spec, ok := d.memo[exec.Ref()]; ok {
		d.mu.Unlock()
		return spec, nil
	}
	d.mu.Unlock()

	version, err := d.fetchVersion(ctx, exec)
	if err != nil {
		d.logger.Error("unable to determine compiler version", "ref", exec.Ref(), "err", err)
		return nil, fmt.Errorf("%w: %w", ErrSpecUnavailable, err)
	}
	d.logger.Debug("compiler version", "ref", exec.Ref(), "version", version)

	spec, err := d.store.Load(version)
	switch {
	case err == nil:
		spec.Rebind(exec)
	case errors.Is(err, cache.ErrCacheMiss):
		spec, err = d.parse(ctx, exec, version)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	d.logger.Debug("spec size", "version", version, "magnitude", fmt.Sprintf("10^%d", spec.Log10Size()))

	d.mu.Lock()
	d.memo[exec.Ref()] = spec
	d.mu.Unlock()
	return spec, nil
}

// fetchVersion asks the compiler for its version string: the first line
// of --version output, which must identify gcc.
func (d *Discoverer) fetchVersion(ctx context.Context, exec executor.Executor) (string, error) {
	out, err := exec.Invoke(ctx, []string{"--version"}, executor.InvokeOptions{Timeout: d.timeout})
	if err != nil {
		return "", err
	}

	version := strings.TrimSpace(strings.SplitN(out, "\n", 2)[0])
	if !strings.Contains(version, "gcc") {
		return "", &VersionUnrecognizedError{Output: version}
	}
	return version, nil
}

// parse runs both introspection queries, merges and corrects the
// results, seals the spec, and persists it.
func (d *Discoverer) parse(ctx context.Context, exec executor.Executor, version string) (*gccspec.Spec, error) {
	d.logger.Debug("parsing optimization space", "ref", exec.Ref())
	optimizeOut, err := exec.Invoke(ctx, []string{"--help=optimize", "-Q"}, executor.InvokeOptions{Timeout: d.timeout})
	if err != nil {
		return nil, err
	}
	optimizeOpts, err := d.parser.ParseOptimize(optimizeOut)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("parsing param space", "ref", exec.Ref())
	paramOut, err := exec.Invoke(ctx, []string{"--help=param", "-Q"}, executor.InvokeOptions{Timeout: d.timeout})
	if err != nil {
		return nil, err
	}
	paramOpts, err := d.parser.ParseParams(paramOut)
	if err != nil {
		return nil, err
	}

	options := d.fixups.Apply(append(optimizeOpts, paramOpts...))
	if len(options) == 0 {
		return nil, &ParseIncompleteError{Version: version}
	}

	spec := gccspec.New(version, options, exec)
	if err := d.store.Save(spec); err != nil {
		// The cache is an optimization; the freshly parsed spec is still good.
		d.logger.Warn("unable to persist spec", "version", version, "err", err)
	}
	return spec, nil
}
