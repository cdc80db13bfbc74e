// SPDX-License-Identifier: MPL-2.0

// Package gccspec models the tunable option space of a GCC compiler.
//
// An Option is one command-line switch or --param, reduced to the finite
// list of literal argument strings it can legally produce. A Spec is the
// complete, versioned collection of options for one compiler build.
package gccspec

import (
	"errors"
	"fmt"
)

const (
	// KindOptLevel is the -O option. There is exactly one per spec, named
	// "O"; its Values hold the accumulated suffixes ("0".."3", "s", "fast", ...).
	KindOptLevel OptionKind = "opt-level"
	// KindFlag is an ordinary -f flag with an on form and, unless
	// NoNegated is set, a -fno- form.
	KindFlag OptionKind = "flag"
	// KindFlagEnum is a -f<name>=[a|b|...] flag.
	KindFlagEnum OptionKind = "flag-enum"
	// KindFlagInt is a -f<name>=<integer> flag bounded by Min and Max.
	KindFlagInt OptionKind = "flag-int"
	// KindFlagAlign is an alignment flag. The -falign-* family has an
	// irregular multi-part value syntax that is not decomposed; the option
	// contributes only its bare on form.
	KindFlagAlign OptionKind = "flag-align"
	// KindParamEnum is a --param=<name>=[a|b|...] parameter.
	KindParamEnum OptionKind = "param-enum"
	// KindParamInt is a --param=<name>=<integer> parameter bounded by Min and Max.
	KindParamInt OptionKind = "param-int"
)

var (
	// ErrInvalidOptionKind is the sentinel error wrapped by InvalidOptionKindError.
	ErrInvalidOptionKind = errors.New("invalid option kind")

	// ErrIndexOutOfRange is the sentinel error wrapped by IndexOutOfRangeError.
	ErrIndexOutOfRange = errors.New("option index out of range")
)

type (
	// OptionKind tags the closed set of option variants. Behavior is
	// dispatched by switching on the kind; there is no subtyping.
	OptionKind string

	// Option is one compiler switch or tunable parameter. Which fields are
	// meaningful depends on Kind:
	//
	//	KindOptLevel:  Values (suffixes appended to "-O")
	//	KindFlag:      Name, NoNegated
	//	KindFlagEnum:  Name, Values
	//	KindFlagInt:   Name, Min, Max
	//	KindFlagAlign: Name
	//	KindParamEnum: Name, Values
	//	KindParamInt:  Name, Min, Max
	//
	// Options are created during parsing and fixup and must be treated as
	// immutable once sealed into a Spec.
	Option struct {
		Kind      OptionKind
		Name      string
		Values    []string
		Min       int
		Max       int
		NoNegated bool
	}

	// InvalidOptionKindError is returned when an OptionKind is not one of
	// the defined kinds.
	InvalidOptionKindError struct {
		Value OptionKind
	}

	// IndexOutOfRangeError is returned by Option.Arg when the index is
	// outside [0, Cardinality).
	IndexOutOfRangeError struct {
		Option Option
		Index  int
	}
)

// Error implements the error interface.
func (e *InvalidOptionKindError) Error() string {
	return fmt.Sprintf("invalid option kind %q", e.Value)
}

// Unwrap returns ErrInvalidOptionKind so callers can use errors.Is for programmatic detection.
func (e *InvalidOptionKindError) Unwrap() error { return ErrInvalidOptionKind }

// Error implements the error interface.
func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0,%d) for option %s",
		e.Index, e.Option.Cardinality(), e.Option)
}

// Unwrap returns ErrIndexOutOfRange so callers can use errors.Is for programmatic detection.
func (e *IndexOutOfRangeError) Unwrap() error { return ErrIndexOutOfRange }

// Validate returns an error if the OptionKind is not one of the defined kinds.
func (k OptionKind) Validate() error {
	switch k {
	case KindOptLevel, KindFlag, KindFlagEnum, KindFlagInt, KindFlagAlign,
		KindParamEnum, KindParamInt:
		return nil
	default:
		return &InvalidOptionKindError{Value: k}
	}
}

// String returns the string representation of the OptionKind.
func (k OptionKind) String() string { return string(k) }

// Cardinality returns the number of legal non-absent values for the
// option. Not passing the option at all is implicit and excluded.
func (o Option) Cardinality() int {
	switch o.Kind {
	case KindOptLevel, KindFlagEnum, KindParamEnum:
		return len(o.Values)
	case KindFlag:
		if o.NoNegated {
			return 1
		}
		return 2
	case KindFlagInt, KindParamInt:
		return o.Max - o.Min + 1
	case KindFlagAlign:
		return 1
	default:
		return 0
	}
}

// Arg returns the literal command-line argument for index i. The valid
// domain is exactly [0, Cardinality).
func (o Option) Arg(i int) (string, error) {
	if i < 0 || i >= o.Cardinality() {
		return "", &IndexOutOfRangeError{Option: o, Index: i}
	}

	switch o.Kind {
	case KindOptLevel:
		return "-O" + o.Values[i], nil
	case KindFlag:
		if i == 0 {
			return "-f" + o.Name, nil
		}
		return "-fno-" + o.Name, nil
	case KindFlagEnum:
		return fmt.Sprintf("-f%s=%s", o.Name, o.Values[i]), nil
	case KindFlagInt:
		return fmt.Sprintf("-f%s=%d", o.Name, o.Min+i), nil
	case KindFlagAlign:
		return "-f" + o.Name, nil
	case KindParamEnum:
		return fmt.Sprintf("--param=%s=%s", o.Name, o.Values[i]), nil
	case KindParamInt:
		return fmt.Sprintf("--param=%s=%d", o.Name, o.Min+i), nil
	default:
		return "", &InvalidOptionKindError{Value: o.Kind}
	}
}

// String returns the canonical switch text for the option, without any value.
func (o Option) String() string {
	switch o.Kind {
	case KindOptLevel:
		return "-O"
	case KindParamEnum, KindParamInt:
		return "--param=" + o.Name
	default:
		return "-f" + o.Name
	}
}

// Validate checks that the option is internally consistent: a defined
// kind, a name (except for the -O option), and a non-empty value domain.
func (o Option) Validate() error {
	if err := o.Kind.Validate(); err != nil {
		return err
	}
	if o.Kind != KindOptLevel && o.Name == "" {
		return fmt.Errorf("option of kind %s has no name", o.Kind)
	}
	if o.Cardinality() < 1 {
		return fmt.Errorf("option %s has empty value domain", o)
	}
	return nil
}

// Equal reports whether two options are identical by kind, name, and
// value domain. Executor binding plays no part.
func (o Option) Equal(other Option) bool {
	if o.Kind != other.Kind || o.Name != other.Name ||
		o.Min != other.Min || o.Max != other.Max || o.NoNegated != other.NoNegated {
		return false
	}
	if len(o.Values) != len(other.Values) {
		return false
	}
	for i := range o.Values {
		if o.Values[i] != other.Values[i] {
			return false
		}
	}
	return true
}
