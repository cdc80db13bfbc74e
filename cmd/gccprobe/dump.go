// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"gccprobe/internal/gccspec"
)

// dumpFormat selects the dump output style.
var dumpFormat string

// dumpCmd prints the discovered spec option-by-option for human inspection.
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the compiler spec option-by-option",
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "text", "output format: text or markdown")
}

func runDump(cmd *cobra.Command, _ []string) error {
	_, discoverer, exec, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	spec, err := discoverer.Spec(cmd.Context(), exec)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch dumpFormat {
	case "markdown":
		rendered, err := renderMarkdown(specMarkdown(spec))
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
	case "text":
		fmt.Fprintln(out, TitleStyle.Render(spec.Version()))
		fmt.Fprintf(out, "%d options, ~10^%d configurations\n\n", len(spec.Options()), spec.Log10Size())
		for _, opt := range spec.Options() {
			fmt.Fprintf(out, "%s  %s\n", FlagStyle.Render(opt.String()), SubtitleStyle.Render(describeOption(opt)))
		}
	default:
		return fmt.Errorf("unknown format %q (valid: text, markdown)", dumpFormat)
	}
	return nil
}

// describeOption summarizes one option's value domain on a single line.
func describeOption(opt gccspec.Option) string {
	switch opt.Kind {
	case gccspec.KindOptLevel:
		return fmt.Sprintf("levels: %s", strings.Join(opt.Values, ", "))
	case gccspec.KindFlag:
		if opt.NoNegated {
			return "boolean (no -fno- form)"
		}
		return "boolean"
	case gccspec.KindFlagEnum, gccspec.KindParamEnum:
		return fmt.Sprintf("one of: %s", strings.Join(opt.Values, ", "))
	case gccspec.KindFlagInt, gccspec.KindParamInt:
		return fmt.Sprintf("integer in [%d, %d]", opt.Min, opt.Max)
	case gccspec.KindFlagAlign:
		return "alignment (irregular syntax, not decomposed)"
	default:
		return string(opt.Kind)
	}
}

// specMarkdown renders the spec as a markdown document.
func specMarkdown(spec *gccspec.Spec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", spec.Version())
	fmt.Fprintf(&b, "%d options, ~10^%d configurations\n\n", len(spec.Options()), spec.Log10Size())
	fmt.Fprintln(&b, "| Option | Kind | Cardinality | Values |")
	fmt.Fprintln(&b, "|---|---|---|---|")
	for _, opt := range spec.Options() {
		fmt.Fprintf(&b, "| `%s` | %s | %d | %s |\n",
			opt.String(), opt.Kind, opt.Cardinality(), describeOption(opt))
	}
	return b.String()
}

// renderMarkdown renders markdown for the terminal using glamour.
func renderMarkdown(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}
