// SPDX-License-Identifier: MPL-2.0

// Package cache persists discovered compiler specs on disk, keyed by a
// hash of the compiler version string.
//
// Layout: <root>/<version-hash>/spec.toml. Writes are atomic
// (temp file + rename), so concurrent discoverers of the same version
// race safely: the loser overwrites with equivalent content and no
// reader ever sees a partial file. Any failure to load is treated as a
// miss, never propagated.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"gccprobe/internal/gccspec"
)

// specFileName is the single serialized spec inside each version directory.
const specFileName = "spec.toml"

var (
	// ErrCacheMiss is returned by Load when no usable cached spec exists.
	// Corrupt or incompatible entries wrap it, so callers need only one
	// errors.Is check.
	ErrCacheMiss = errors.New("no cached spec")
)

type (
	// CorruptEntryError is returned (wrapped in ErrCacheMiss) when a cache
	// file exists but cannot be decoded: truncated writes from pre-atomic
	// versions, schema changes, or manual edits.
	CorruptEntryError struct {
		Path  string
		Cause error
	}

	// Store reads and writes serialized specs under a root directory.
	Store struct {
		root   string
		logger *log.Logger
	}
)

// Error implements the error interface.
func (e *CorruptEntryError) Error() string {
	return fmt.Sprintf("corrupt cache entry %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrCacheMiss (and the cause): a corrupt entry is
// indistinguishable from an absent one to callers.
func (e *CorruptEntryError) Unwrap() []error {
	return []error{ErrCacheMiss, e.Cause}
}

// NewStore creates a spec store rooted at dir.
func NewStore(dir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "cache"})
	}
	return &Store{root: dir, logger: logger}
}

// VersionHash maps a compiler version string to its cache key: a
// polynomial rolling hash over native uint64, rendered in decimal.
// Collisions between real version strings are accepted as negligible;
// this is not a security property.
func VersionHash(version string) string {
	var h uint64
	for _, c := range version {
		h = uint64(c) + 31*h
	}
	return strconv.FormatUint(h, 10)
}

// Path returns the cache file location for a version.
func (s *Store) Path(version string) string {
	return filepath.Join(s.root, VersionHash(version), specFileName)
}

// Load reads the cached spec for a version. The returned spec has no
// executor bound; callers re-attach their live executor. Every failure
// mode is a miss: absence returns ErrCacheMiss directly, while a file
// that exists but cannot be decoded is logged and returned as a
// CorruptEntryError wrapping ErrCacheMiss.
func (s *Store) Load(version string) (*gccspec.Spec, error) {
	path := s.Path(version)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		s.logger.Warn("unable to read cached spec", "path", path, "err", err)
		return nil, &CorruptEntryError{Path: path, Cause: err}
	}

	var doc specDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("unable to decode cached spec", "path", path, "err", err)
		return nil, &CorruptEntryError{Path: path, Cause: err}
	}

	opts, err := doc.decode()
	if err != nil {
		s.logger.Warn("cached spec failed validation", "path", path, "err", err)
		return nil, &CorruptEntryError{Path: path, Cause: err}
	}
	if doc.CompilerVersion != version {
		// Hash collision or a moved directory; either way not our spec.
		s.logger.Warn("cached spec version mismatch", "path", path, "cached", doc.CompilerVersion, "want", version)
		return nil, &CorruptEntryError{Path: path, Cause: fmt.Errorf("version mismatch")}
	}

	s.logger.Debug("spec loaded from cache", "path", path, "options", len(opts))
	return gccspec.New(version, opts, nil), nil
}

// Save persists a spec atomically: parent directories are created
// idempotently, the document is written to a temp file in the target
// directory, then renamed over the final path.
func (s *Store) Save(spec *gccspec.Spec) error {
	path := s.Path(spec.Version())
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := toml.Marshal(newDocument(spec))
	if err != nil {
		return fmt.Errorf("failed to encode spec: %w", err)
	}

	tmp, err := os.CreateTemp(dir, specFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write spec: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	s.logger.Debug("spec written to cache", "path", path, "options", len(spec.Options()))
	return nil
}
