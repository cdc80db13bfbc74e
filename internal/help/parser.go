// SPDX-License-Identifier: MPL-2.0

// Package help parses GCC introspection output ('--help=optimize -Q' and
// '--help=param -Q') into the option model.
//
// Help-text formats drift across compiler versions, so parsing is
// best-effort: a line whose shape is not recognized is logged and
// skipped, never fatal. Internal-consistency violations (one name
// resolving to two incompatible shapes) are fatal; see builder.
package help

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"

	"gccprobe/internal/gccspec"
)

// UnboundedMax is the synthetic upper bound assigned to flags and
// parameters that GCC documents as "<number>" with no ceiling. The
// combinatorial model needs finite cardinality, so these get the full
// non-negative int32 range: 2^31-1.
const UnboundedMax = 1<<31 - 1

// Anchored shape patterns for the optimize stream, ordered
// most-specific-first. The first match wins.
var (
	levelNumPat     = regexp.MustCompile(`^-O<number>$`)
	levelPat        = regexp.MustCompile(`^-O([a-z]+)$`)
	flagAlignPat    = regexp.MustCompile(`^-f(align-[-a-z]+)=$`)
	flagEnumPat     = regexp.MustCompile(`^-f([-a-z0-9]+)=\[([-A-Za-z_|]+)\]$`)
	flagIntervalPat = regexp.MustCompile(`^-f([-a-z0-9]+)=<([0-9]+),([0-9]+)>$`)
	flagNumberPat   = regexp.MustCompile(`^-f([-a-z0-9]+)=<number>$`)
	flagPat         = regexp.MustCompile(`^-f([-a-z0-9]+)$`)
)

// Shape patterns for the param stream. The legacy pattern matches the
// whole line, the rest match the leading token.
var (
	paramEnumPat     = regexp.MustCompile(`^--param=([-a-zA-Z0-9]+)=\[([-A-Za-z_|]+)\]$`)
	paramIntervalPat = regexp.MustCompile(`^--param=([-a-zA-Z0-9]+)=<(-?[0-9]+),(-?[0-9]+)>$`)
	paramNumberPat   = regexp.MustCompile(`^--param=([-a-zA-Z0-9]+)=$`)
	paramLegacyPat   = regexp.MustCompile(`^([-a-zA-Z0-9]+)\s+default\s+(-?\d+)\s+minimum\s+(-?\d+)\s+maximum\s+(-?\d+)$`)
)

// Parser converts raw help text into name-sorted option lists.
type Parser struct {
	logger *log.Logger
}

// NewParser creates a parser logging through the given logger, or a
// stderr logger with a "help" prefix when nil.
func NewParser(logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "help"})
	}
	return &Parser{logger: logger}
}

// ParseOptimize parses the output of 'gcc --help=optimize -Q'. The
// returned options are sorted by name. An error means the stream
// contradicted itself, not that lines went unrecognized.
func (p *Parser) ParseOptimize(text string) ([]gccspec.Option, error) {
	b := newBuilder()

	for _, line := range bodyLines(text) {
		if err := p.parseOptimizeLine(b, line); err != nil {
			return nil, err
		}
	}

	return b.options(), nil
}

func (p *Parser) parseOptimizeLine(b *builder, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	spec := fields[0]

	if levelNumPat.MatchString(spec) {
		// -O<number> stands for -O0 through -O3.
		for i := 0; i < 4; i++ {
			b.addLevelSuffix(strconv.Itoa(i))
		}
		return nil
	}

	if m := levelPat.FindStringSubmatch(spec); m != nil {
		b.addLevelSuffix(m[1])
		return nil
	}

	if m := flagAlignPat.FindStringSubmatch(spec); m != nil {
		// Alignment values have an irregular multi-part syntax that is
		// not decomposed into an enumerable domain.
		p.logger.Warn("alignment flag not decomposed", "flag", m[1])
		return b.specialize(gccspec.Option{Kind: gccspec.KindFlagAlign, Name: m[1]})
	}

	if m := flagEnumPat.FindStringSubmatch(spec); m != nil {
		return b.specialize(gccspec.Option{
			Kind:   gccspec.KindFlagEnum,
			Name:   m[1],
			Values: strings.Split(m[2], "|"),
		})
	}

	if m := flagIntervalPat.FindStringSubmatch(spec); m != nil {
		minVal, _ := strconv.Atoi(m[2])
		maxVal, _ := strconv.Atoi(m[3])
		return b.specialize(gccspec.Option{
			Kind: gccspec.KindFlagInt,
			Name: m[1],
			Min:  minVal,
			Max:  maxVal,
		})
	}

	if m := flagNumberPat.FindStringSubmatch(spec); m != nil {
		return b.specialize(gccspec.Option{
			Kind: gccspec.KindFlagInt,
			Name: m[1],
			Min:  0,
			Max:  UnboundedMax,
		})
	}

	if m := flagPat.FindStringSubmatch(spec); m != nil {
		b.addBoolean(m[1])
		return nil
	}

	p.logger.Warn("unrecognized optimization flag shape", "line", line)
	return nil
}

// ParseParams parses the output of 'gcc --help=param -Q'. Param lines
// carry a documented default; numeric bounds are accepted only when the
// default actually lies within them, since a wrong legal range is worse
// than a missing option.
func (p *Parser) ParseParams(text string) ([]gccspec.Option, error) {
	b := newBuilder()

	for _, line := range bodyLines(text) {
		if err := p.parseParamLine(b, line); err != nil {
			return nil, err
		}
	}

	return b.options(), nil
}

func (p *Parser) parseParamLine(b *builder, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	if len(fields) < 2 {
		// No documented default. Seen only for headers and blank-ish
		// lines so far; skipped quietly.
		p.logger.Debug("param line without default", "line", line)
		return nil
	}

	spec, deflt := fields[0], fields[1]

	if m := paramEnumPat.FindStringSubmatch(spec); m != nil {
		values := strings.Split(m[2], "|")
		if deflt != "" && !slices.Contains(values, deflt) {
			p.logger.Warn("param default not among documented values", "line", line, "default", deflt)
			return nil
		}
		return b.add(gccspec.Option{Kind: gccspec.KindParamEnum, Name: m[1], Values: values})
	}

	if m := paramIntervalPat.FindStringSubmatch(spec); m != nil {
		minVal, _ := strconv.Atoi(m[2])
		maxVal, _ := strconv.Atoi(m[3])
		d, err := strconv.Atoi(deflt)
		if err != nil || d < minVal || d > maxVal {
			p.logger.Warn("param default outside documented bounds", "line", line, "default", deflt)
			return nil
		}
		return b.add(gccspec.Option{Kind: gccspec.KindParamInt, Name: m[1], Min: minVal, Max: maxVal})
	}

	if m := paramNumberPat.FindStringSubmatch(spec); m != nil {
		d, err := strconv.Atoi(deflt)
		if err != nil {
			p.logger.Warn("param default is not an integer", "line", line, "default", deflt)
			return nil
		}
		minVal := 0
		if d < minVal {
			minVal = d
		}
		return b.add(gccspec.Option{Kind: gccspec.KindParamInt, Name: m[1], Min: minVal, Max: UnboundedMax})
	}

	if m := paramLegacyPat.FindStringSubmatch(strings.Join(fields, " ")); m != nil {
		d, _ := strconv.Atoi(m[2])
		minVal, _ := strconv.Atoi(m[3])
		maxVal, _ := strconv.Atoi(m[4])
		if d < minVal || d > maxVal {
			p.logger.Warn("param default outside documented bounds", "line", line, "default", m[2])
			return nil
		}
		return b.add(gccspec.Option{Kind: gccspec.KindParamInt, Name: m[1], Min: minVal, Max: maxVal})
	}

	p.logger.Warn("unrecognized param shape", "line", line)
	return nil
}

// bodyLines splits help output into trimmed lines with the header line
// removed.
func bodyLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}
