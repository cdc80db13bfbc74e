// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"fmt"

	"gccprobe/internal/gccspec"
)

// SchemaVersion is bumped whenever the persisted option records change
// shape, so stale cache entries invalidate deliberately instead of
// through accidental decode failures.
const SchemaVersion = 1

type (
	// specDocument is the on-disk form of a Spec. The executor binding is
	// never persisted.
	specDocument struct {
		SchemaVersion   int            `toml:"schema_version"`
		CompilerVersion string         `toml:"compiler_version"`
		Options         []optionRecord `toml:"options"`
	}

	// optionRecord is the on-disk form of one option. Kind is the
	// self-describing tag; the remaining fields mirror gccspec.Option.
	optionRecord struct {
		Kind      string   `toml:"kind"`
		Name      string   `toml:"name"`
		Values    []string `toml:"values,omitempty"`
		Min       int      `toml:"min,omitempty"`
		Max       int      `toml:"max,omitempty"`
		NoNegated bool     `toml:"no_negated,omitempty"`
	}
)

// newDocument converts a sealed Spec into its on-disk form.
func newDocument(spec *gccspec.Spec) specDocument {
	doc := specDocument{
		SchemaVersion:   SchemaVersion,
		CompilerVersion: spec.Version(),
	}
	for _, opt := range spec.Options() {
		doc.Options = append(doc.Options, optionRecord{
			Kind:      string(opt.Kind),
			Name:      opt.Name,
			Values:    opt.Values,
			Min:       opt.Min,
			Max:       opt.Max,
			NoNegated: opt.NoNegated,
		})
	}
	return doc
}

// decode validates a loaded document and converts it back into options.
func (d specDocument) decode() ([]gccspec.Option, error) {
	if d.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("schema version %d, want %d", d.SchemaVersion, SchemaVersion)
	}
	if d.CompilerVersion == "" {
		return nil, fmt.Errorf("missing compiler version")
	}
	if len(d.Options) == 0 {
		return nil, fmt.Errorf("no options")
	}

	opts := make([]gccspec.Option, 0, len(d.Options))
	for i, rec := range d.Options {
		opt := gccspec.Option{
			Kind:      gccspec.OptionKind(rec.Kind),
			Name:      rec.Name,
			Values:    rec.Values,
			Min:       rec.Min,
			Max:       rec.Max,
			NoNegated: rec.NoNegated,
		}
		if err := opt.Validate(); err != nil {
			return nil, fmt.Errorf("options[%d]: %w", i, err)
		}
		opts = append(opts, opt)
	}
	return opts, nil
}
