// SPDX-License-Identifier: MPL-2.0

package fixup

import (
	"testing"

	"gccprobe/internal/gccspec"
)

// parsedSample mimics what the parser produces for the options the
// default table corrects, plus untouched bystanders.
func parsedSample() []gccspec.Option {
	return []gccspec.Option{
		{Kind: gccspec.KindFlagEnum, Name: "live-patching", Values: []string{"inline-clone", "inline-only-static"}},
		{Kind: gccspec.KindParamInt, Name: "logical-op-non-short-circuit", Min: -1, Max: 1},
		{Kind: gccspec.KindFlag, Name: "handle-exceptions"},
		{Kind: gccspec.KindFlag, Name: "stack-protector-strong"},
		{Kind: gccspec.KindFlag, Name: "no-threadsafe-statics"},
		{Kind: gccspec.KindFlagInt, Name: "pack-struct", Min: 0, Max: 1<<31 - 1},
		{Kind: gccspec.KindFlag, Name: "gcse"},
		{Kind: gccspec.KindParamInt, Name: "ggc-min-expand", Min: 0, Max: 100},
	}
}

func byName(t *testing.T, opts []gccspec.Option, name string) gccspec.Option {
	t.Helper()
	for _, opt := range opts {
		if opt.Name == name {
			return opt
		}
	}
	t.Fatalf("option %q not found", name)
	return gccspec.Option{}
}

func TestApply_Corrections(t *testing.T) {
	t.Parallel()

	fixed := Default().Apply(parsedSample())

	if len(fixed) != len(parsedSample())-1 {
		t.Fatalf("got %d options, want %d (live-patching dropped)", len(fixed), len(parsedSample())-1)
	}
	for _, opt := range fixed {
		if opt.Name == "live-patching" {
			t.Error("live-patching should have been dropped")
		}
	}

	if got := byName(t, fixed, "logical-op-non-short-circuit"); got.Min != 0 {
		t.Errorf("logical-op-non-short-circuit Min = %d, want 0", got.Min)
	}

	exceptions := byName(t, fixed, "exceptions")
	if exceptions.Kind != gccspec.KindFlag {
		t.Errorf("exceptions kind = %s, want %s", exceptions.Kind, gccspec.KindFlag)
	}
	for _, opt := range fixed {
		if opt.Name == "handle-exceptions" {
			t.Error("handle-exceptions should have been renamed")
		}
	}

	if got := byName(t, fixed, "stack-protector-strong"); !got.NoNegated {
		t.Error("stack-protector-strong should have no negated form")
	}

	threadsafe := byName(t, fixed, "threadsafe-statics")
	if threadsafe.Kind != gccspec.KindFlag {
		t.Errorf("threadsafe-statics kind = %s, want %s", threadsafe.Kind, gccspec.KindFlag)
	}

	packStruct := byName(t, fixed, "pack-struct")
	want := gccspec.Option{Kind: gccspec.KindFlagEnum, Name: "pack-struct", Values: []string{"1", "2", "4", "8", "16"}}
	if !packStruct.Equal(want) {
		t.Errorf("pack-struct = %+v, want %+v", packStruct, want)
	}

	// Bystanders pass through untouched.
	if got := byName(t, fixed, "gcse"); !got.Equal(gccspec.Option{Kind: gccspec.KindFlag, Name: "gcse"}) {
		t.Errorf("gcse was modified: %+v", got)
	}
	if got := byName(t, fixed, "ggc-min-expand"); got.Min != 0 || got.Max != 100 {
		t.Errorf("ggc-min-expand was modified: %+v", got)
	}
}

func TestApply_Idempotent(t *testing.T) {
	t.Parallel()

	table := Default()
	once := table.Apply(parsedSample())
	twice := table.Apply(once)

	if len(once) != len(twice) {
		t.Fatalf("second application changed option count: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if !once[i].Equal(twice[i]) {
			t.Errorf("option %d changed on second application: %+v -> %+v", i, once[i], twice[i])
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := parsedSample()
	Default().Apply(input)

	if input[1].Min != -1 {
		t.Error("Apply mutated the input slice")
	}
	if input[2].Name != "handle-exceptions" {
		t.Error("Apply mutated the input slice")
	}
}
