// SPDX-License-Identifier: MPL-2.0

package help

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"gccprobe/internal/gccspec"
)

// ErrShapeConflict is the sentinel error wrapped by ConflictError.
var ErrShapeConflict = errors.New("conflicting flag shapes")

type (
	// entryState tracks each named entry through its lifecycle:
	// absent -> provisional (a bare boolean sighting) -> specialized
	// (enum/interval/numeric/alignment, or a parameter). Only the
	// provisional state may be overwritten.
	entryState int

	// ConflictError is returned when help text (or a parser defect)
	// tries to replace an already-specialized entry. This is an
	// internal-consistency failure, never a skippable line.
	ConflictError struct {
		Name     string
		Existing gccspec.OptionKind
		Incoming gccspec.OptionKind
	}

	// builder accumulates options keyed by name while a help stream is
	// parsed, enforcing the supersession rules between flag shapes.
	builder struct {
		entries map[string]*entry
	}

	entry struct {
		state entryState
		opt   gccspec.Option
	}
)

const (
	stateProvisional entryState = iota
	stateSpecialized
)

// levelName is the key of the single accumulated -O option.
const levelName = "O"

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("flag %q: cannot replace %s entry with %s", e.Name, e.Existing, e.Incoming)
}

// Unwrap returns ErrShapeConflict so callers can use errors.Is for programmatic detection.
func (e *ConflictError) Unwrap() error { return ErrShapeConflict }

func newBuilder() *builder {
	return &builder{entries: make(map[string]*entry)}
}

// addLevelSuffix accumulates one -O suffix into the single option named "O".
func (b *builder) addLevelSuffix(suffix string) {
	ent, ok := b.entries[levelName]
	if !ok {
		ent = &entry{state: stateSpecialized, opt: gccspec.Option{Kind: gccspec.KindOptLevel, Name: levelName}}
		b.entries[levelName] = ent
	}
	ent.opt.Values = append(ent.opt.Values, suffix)
}

// addBoolean records a bare -f<name> sighting. Booleans have the lowest
// priority: they never overwrite anything, and a later specialized
// sighting of the same name replaces them.
func (b *builder) addBoolean(name string) {
	if _, ok := b.entries[name]; ok {
		return
	}
	b.entries[name] = &entry{
		state: stateProvisional,
		opt:   gccspec.Option{Kind: gccspec.KindFlag, Name: name},
	}
}

// specialize installs an enum, interval, numeric, or alignment option.
// It may replace a provisional boolean of the same name; replacing
// anything else is a ConflictError.
func (b *builder) specialize(opt gccspec.Option) error {
	if ent, ok := b.entries[opt.Name]; ok && ent.state != stateProvisional {
		return &ConflictError{Name: opt.Name, Existing: ent.opt.Kind, Incoming: opt.Kind}
	}
	b.entries[opt.Name] = &entry{state: stateSpecialized, opt: opt}
	return nil
}

// add installs an option whose name must not have been seen at all.
// Parameter streams have no provisional shape, so any duplicate is a
// parser defect.
func (b *builder) add(opt gccspec.Option) error {
	if ent, ok := b.entries[opt.Name]; ok {
		return &ConflictError{Name: opt.Name, Existing: ent.opt.Kind, Incoming: opt.Kind}
	}
	b.entries[opt.Name] = &entry{state: stateSpecialized, opt: opt}
	return nil
}

// options returns the accumulated options sorted by name.
func (b *builder) options() []gccspec.Option {
	names := maps.Keys(b.entries)
	slices.Sort(names)

	opts := make([]gccspec.Option, 0, len(names))
	for _, name := range names {
		opts = append(opts, b.entries[name].opt)
	}
	return opts
}
