// SPDX-License-Identifier: MPL-2.0

// Package fixup corrects parsed options where GCC's help output disagrees
// with what the compiler actually accepts.
//
// The corrections are a fixed, data-driven table. New compiler-version
// quirks belong here, never in the parser. Applying the table to an
// already-corrected option list is a no-op.
package fixup

import (
	"gccprobe/internal/gccspec"
)

type (
	// Table holds the per-rule correction data, all keyed by option name.
	Table struct {
		// DropEnumFlags are enum flags removed entirely: documented but
		// non-functional or deprecated.
		DropEnumFlags map[string]bool

		// ZeroMinParams are integer params whose documented negative lower
		// bound the compiler actually rejects; their Min is forced to 0.
		ZeroMinParams map[string]bool

		// RenameFlags maps flags whose enabling form diverges from the
		// documented name to their real name.
		RenameFlags map[string]string

		// NoNegationFlags are boolean flags with no -fno- form despite the
		// general naming rule implying one.
		NoNegationFlags map[string]bool

		// StripNegationPrefix are flags documented under their negated
		// name; the spurious "no-" prefix is stripped to recover the
		// canonical on form.
		StripNegationPrefix map[string]bool

		// RetypeIntAsEnum re-types integer flags that actually accept only
		// the listed values as explicit enums.
		RetypeIntAsEnum map[string][]string
	}
)

// Default returns the correction table for the GCC versions probed so far.
func Default() Table {
	return Table{
		// -flive-patching= is accepted by --help but rejected in use.
		DropEnumFlags: map[string]bool{
			"live-patching": true,
		},
		// Documented as allowing -1, which GCC rejects.
		ZeroMinParams: map[string]bool{
			"logical-op-non-short-circuit":   true,
			"prefetch-minimum-stride":        true,
			"sched-autopref-queue-depth":     true,
			"vect-max-peeling-for-alignment": true,
		},
		// -fhandle-exceptions was renamed to -fexceptions.
		RenameFlags: map[string]string{
			"handle-exceptions": "exceptions",
		},
		NoNegationFlags: map[string]bool{
			"stack-protector-all":      true,
			"stack-protector-explicit": true,
			"stack-protector-strong":   true,
		},
		// Listed as -fno-threadsafe-statics; the on form is the canonical name.
		StripNegationPrefix: map[string]bool{
			"no-threadsafe-statics": true,
		},
		// -fpack-struct only accepts small powers of two.
		RetypeIntAsEnum: map[string][]string{
			"pack-struct": {"1", "2", "4", "8", "16"},
		},
	}
}

// Apply returns a corrected copy of the option list. Input options are
// not mutated. Apply is idempotent: corrected options no longer match
// any rule's precondition.
func (t Table) Apply(options []gccspec.Option) []gccspec.Option {
	fixed := make([]gccspec.Option, 0, len(options))

	for _, opt := range options {
		if opt.Kind == gccspec.KindFlagEnum && t.DropEnumFlags[opt.Name] {
			continue
		}

		switch opt.Kind {
		case gccspec.KindParamInt:
			if t.ZeroMinParams[opt.Name] && opt.Min < 0 {
				opt.Min = 0
			}

		case gccspec.KindFlag:
			if renamed, ok := t.RenameFlags[opt.Name]; ok {
				opt.Name = renamed
			}
			if t.NoNegationFlags[opt.Name] {
				opt.NoNegated = true
			}
			if t.StripNegationPrefix[opt.Name] {
				opt.Name = opt.Name[len("no-"):]
			}

		case gccspec.KindFlagInt:
			if values, ok := t.RetypeIntAsEnum[opt.Name]; ok {
				opt = gccspec.Option{Kind: gccspec.KindFlagEnum, Name: opt.Name, Values: values}
			}
		}

		fixed = append(fixed, opt)
	}

	return fixed
}
