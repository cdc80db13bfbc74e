// SPDX-License-Identifier: MPL-2.0

package gccspec

import (
	"math/big"
	"sort"

	"gccprobe/internal/executor"
)

// Spec is the complete, versioned model of one compiler's tunable option
// space. It is immutable after construction except for the executor
// binding, which is transient and re-attached when a spec is loaded from
// cache.
type Spec struct {
	version string
	options []Option
	exec    executor.Executor
}

// New seals a version string and option list into a Spec. The option
// list is sorted by name (then kind) and deduplicated, so specs built
// from the same parse input are byte-for-byte reproducible.
func New(version string, options []Option, exec executor.Executor) *Spec {
	sorted := make([]Option, len(options))
	copy(sorted, options)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Kind < sorted[j].Kind
	})

	deduped := sorted[:0]
	for _, opt := range sorted {
		if len(deduped) > 0 && deduped[len(deduped)-1].Equal(opt) {
			continue
		}
		deduped = append(deduped, opt)
	}

	return &Spec{version: version, options: deduped, exec: exec}
}

// Version returns the compiler version string the spec was built from.
func (s *Spec) Version() string { return s.version }

// Options returns the name-sorted option list. Callers must not mutate it.
func (s *Spec) Options() []Option { return s.options }

// Executor returns the live executor bound to this spec.
func (s *Spec) Executor() executor.Executor { return s.exec }

// Rebind attaches a live executor to the spec. Used after loading a
// cached spec, since executor handles are never persisted.
func (s *Spec) Rebind(exec executor.Executor) { s.exec = exec }

// Size returns the number of distinct compiler configurations the spec
// describes: the product over all options of cardinality+1, the +1
// accounting for the option being omitted. The result does not fit in
// any machine integer for real compilers.
func (s *Spec) Size() *big.Int {
	size := big.NewInt(1)
	card := new(big.Int)
	for _, opt := range s.options {
		card.SetInt64(int64(opt.Cardinality()) + 1)
		size.Mul(size, card)
	}
	return size
}

// Log10Size returns the decimal order of magnitude of Size. The space is
// astronomically large, so it is only ever reported at this granularity.
func (s *Spec) Log10Size() int {
	return len(s.Size().Text(10)) - 1
}
