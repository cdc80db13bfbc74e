// SPDX-License-Identifier: MPL-2.0

package help

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"gccprobe/internal/gccspec"
)

func newTestParser() *Parser {
	return NewParser(log.New(io.Discard))
}

func findOption(t *testing.T, opts []gccspec.Option, name string) gccspec.Option {
	t.Helper()
	for _, opt := range opts {
		if opt.Name == name {
			return opt
		}
	}
	t.Fatalf("option %q not found in %d parsed options", name, len(opts))
	return gccspec.Option{}
}

func TestParseOptimize_LevelsAccumulate(t *testing.T) {
	t.Parallel()

	text := `The following options control optimizations:
  -O<number>                  Set optimization level to <number>.
  -Ofast                      Optimize for speed disregarding standards compliance.
  -Os                         Optimize for space rather than speed.
`
	opts, err := newTestParser().ParseOptimize(text)
	if err != nil {
		t.Fatalf("ParseOptimize() error = %v", err)
	}

	level := findOption(t, opts, "O")
	if level.Kind != gccspec.KindOptLevel {
		t.Fatalf("option O has kind %s, want %s", level.Kind, gccspec.KindOptLevel)
	}
	want := []string{"0", "1", "2", "3", "fast", "s"}
	if len(level.Values) != len(want) {
		t.Fatalf("O values = %v, want %v", level.Values, want)
	}
	for i, v := range want {
		if level.Values[i] != v {
			t.Fatalf("O values = %v, want %v", level.Values, want)
		}
	}

	arg, err := level.Arg(0)
	if err != nil {
		t.Fatalf("Arg(0) error = %v", err)
	}
	if arg != "-O0" {
		t.Errorf("Arg(0) = %q, want -O0", arg)
	}
}

func TestParseOptimize_Shapes(t *testing.T) {
	t.Parallel()

	text := `The following options control optimizations:
  -faggressive-loop-optimizations Enable aggressive loop optimizations.
  -ffp-contract=[off|on|fast] Perform floating-point expression contraction.
  -fpack-struct=<0,8>         Set initial maximum structure member alignment.
  -ftree-parallelize-loops=<number> Enable loop parallelization.
  -falign-functions=          Align the start of functions.
`
	opts, err := newTestParser().ParseOptimize(text)
	if err != nil {
		t.Fatalf("ParseOptimize() error = %v", err)
	}
	if len(opts) != 5 {
		t.Fatalf("got %d options, want 5", len(opts))
	}

	tests := []struct {
		name string
		want gccspec.Option
	}{
		{"aggressive-loop-optimizations", gccspec.Option{Kind: gccspec.KindFlag, Name: "aggressive-loop-optimizations"}},
		{"fp-contract", gccspec.Option{Kind: gccspec.KindFlagEnum, Name: "fp-contract", Values: []string{"off", "on", "fast"}}},
		{"pack-struct", gccspec.Option{Kind: gccspec.KindFlagInt, Name: "pack-struct", Min: 0, Max: 8}},
		{"tree-parallelize-loops", gccspec.Option{Kind: gccspec.KindFlagInt, Name: "tree-parallelize-loops", Min: 0, Max: UnboundedMax}},
		{"align-functions", gccspec.Option{Kind: gccspec.KindFlagAlign, Name: "align-functions"}},
	}
	for _, tt := range tests {
		got := findOption(t, opts, tt.name)
		if !got.Equal(tt.want) {
			t.Errorf("option %s = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestParseOptimize_BooleanSupersededByEnum(t *testing.T) {
	t.Parallel()

	// A bare sighting first, the specialized form later: the enum wins.
	text := `The following options control optimizations:
  -ffoo                       A provisional boolean sighting.
  -ffoo=[a|b]                 The real shape.
`
	opts, err := newTestParser().ParseOptimize(text)
	if err != nil {
		t.Fatalf("ParseOptimize() error = %v", err)
	}

	foo := findOption(t, opts, "foo")
	want := gccspec.Option{Kind: gccspec.KindFlagEnum, Name: "foo", Values: []string{"a", "b"}}
	if !foo.Equal(want) {
		t.Errorf("option foo = %+v, want %+v", foo, want)
	}
}

func TestParseOptimize_BooleanNeverOverwritesEnum(t *testing.T) {
	t.Parallel()

	// Reversed order: the provisional boolean must not displace the enum.
	text := `The following options control optimizations:
  -ffoo=[a|b]                 The real shape.
  -ffoo                       A later bare sighting.
`
	opts, err := newTestParser().ParseOptimize(text)
	if err != nil {
		t.Fatalf("ParseOptimize() error = %v", err)
	}

	foo := findOption(t, opts, "foo")
	if foo.Kind != gccspec.KindFlagEnum {
		t.Errorf("option foo has kind %s, want %s", foo.Kind, gccspec.KindFlagEnum)
	}
}

func TestParseOptimize_ConflictingSpecializationsFatal(t *testing.T) {
	t.Parallel()

	// Two incompatible specialized shapes for one name is a parser
	// defect, not a skippable line.
	text := `The following options control optimizations:
  -ffoo=[a|b]                 An enum shape.
  -ffoo=<0,8>                 An interval shape for the same name.
`
	_, err := newTestParser().ParseOptimize(text)
	if !errors.Is(err, ErrShapeConflict) {
		t.Fatalf("ParseOptimize() error = %v, want ErrShapeConflict", err)
	}
}

func TestParseOptimize_UnrecognizedLinesSkipped(t *testing.T) {
	t.Parallel()

	text := `The following options control optimizations:
  -ffoo                       A fine flag.
  --something-unexpected      Never seen before.
  %%% garbage %%%
  -fbar                       Another fine flag.
`
	opts, err := newTestParser().ParseOptimize(text)
	if err != nil {
		t.Fatalf("ParseOptimize() error = %v", err)
	}
	if len(opts) != 2 {
		t.Fatalf("got %d options, want 2 (garbage skipped)", len(opts))
	}
}

func TestParseOptimize_HeaderLineIgnored(t *testing.T) {
	t.Parallel()

	// The header is dropped even when it would otherwise look parseable.
	text := `-fbogus-header
  -ffoo                       A fine flag.
`
	opts, err := newTestParser().ParseOptimize(text)
	if err != nil {
		t.Fatalf("ParseOptimize() error = %v", err)
	}
	if len(opts) != 1 || opts[0].Name != "foo" {
		t.Fatalf("got %+v, want just option foo", opts)
	}
}

func TestParseParams_ModernShapes(t *testing.T) {
	t.Parallel()

	text := `The following options control parameters:
  --param=ggc-min-expand=     30      Percentage of function body growth.
  --param=uninit-max-chain-len=<1,128> 8 Maximum chain length.
  --param=vect-partial-vector-usage=[0|1|2] 2 Controls vector usage.
  --param=logical-op-non-short-circuit= -1 True if non-short-circuit.
`
	opts, err := newTestParser().ParseParams(text)
	if err != nil {
		t.Fatalf("ParseParams() error = %v", err)
	}

	tests := []struct {
		name string
		want gccspec.Option
	}{
		{"ggc-min-expand", gccspec.Option{Kind: gccspec.KindParamInt, Name: "ggc-min-expand", Min: 0, Max: UnboundedMax}},
		{"uninit-max-chain-len", gccspec.Option{Kind: gccspec.KindParamInt, Name: "uninit-max-chain-len", Min: 1, Max: 128}},
		{"vect-partial-vector-usage", gccspec.Option{Kind: gccspec.KindParamEnum, Name: "vect-partial-vector-usage", Values: []string{"0", "1", "2"}}},
		// A negative default widens the lower bound below zero.
		{"logical-op-non-short-circuit", gccspec.Option{Kind: gccspec.KindParamInt, Name: "logical-op-non-short-circuit", Min: -1, Max: UnboundedMax}},
	}
	for _, tt := range tests {
		got := findOption(t, opts, tt.name)
		if !got.Equal(tt.want) {
			t.Errorf("param %s = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestParseParams_LegacyShape(t *testing.T) {
	t.Parallel()

	text := `The following options control parameters:
  sra-max-scalarization-size default 5 minimum 0 maximum 10
`
	opts, err := newTestParser().ParseParams(text)
	if err != nil {
		t.Fatalf("ParseParams() error = %v", err)
	}

	got := findOption(t, opts, "sra-max-scalarization-size")
	want := gccspec.Option{Kind: gccspec.KindParamInt, Name: "sra-max-scalarization-size", Min: 0, Max: 10}
	if !got.Equal(want) {
		t.Errorf("param = %+v, want %+v", got, want)
	}
}

func TestParseParams_DefaultOutsideBoundsDropped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
	}{
		{"legacy shape", "  bad-legacy default 20 minimum 0 maximum 10"},
		{"interval shape", "  --param=bad-interval=<0,10> 20 Out of bounds default."},
		{"enum shape", "  --param=bad-enum=[a|b] c The default is not a value."},
		{"non-integer default", "  --param=bad-number= nope Not an integer."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			text := "The following options control parameters:\n" + tt.line + "\n"
			opts, err := newTestParser().ParseParams(text)
			if err != nil {
				t.Fatalf("ParseParams() error = %v", err)
			}
			if len(opts) != 0 {
				t.Fatalf("got %+v, want the malformed line dropped", opts)
			}
		})
	}
}

func TestParseParams_DuplicateNameFatal(t *testing.T) {
	t.Parallel()

	text := `The following options control parameters:
  --param=twice= 1 First sighting.
  --param=twice= 2 Second sighting.
`
	_, err := newTestParser().ParseParams(text)
	if !errors.Is(err, ErrShapeConflict) {
		t.Fatalf("ParseParams() error = %v, want ErrShapeConflict", err)
	}
}

func TestParseParams_ShortLinesSkipped(t *testing.T) {
	t.Parallel()

	text := `The following options control parameters:
  lonely-token
  --param=fine= 5 A good param.
`
	opts, err := newTestParser().ParseParams(text)
	if err != nil {
		t.Fatalf("ParseParams() error = %v", err)
	}
	if len(opts) != 1 || opts[0].Name != "fine" {
		t.Fatalf("got %+v, want just param fine", opts)
	}
}
