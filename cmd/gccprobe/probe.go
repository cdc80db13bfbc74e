// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// probeCmd discovers the compiler spec and prints a summary.
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Discover the compiler's option space",
	Long: `Discover the option space of the configured compiler.

Fetches the compiler version, then either loads the cached spec for that
version or parses the compiler's own '--help=optimize' and '--help=param'
output. The discovered spec is cached for subsequent runs.`,
	RunE: runProbe,
}

func runProbe(cmd *cobra.Command, _ []string) error {
	_, discoverer, exec, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	spec, err := discoverer.Spec(cmd.Context(), exec)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Compiler spec"))
	fmt.Fprintf(out, "%s %s\n", SubtitleStyle.Render("version:"), spec.Version())
	fmt.Fprintf(out, "%s %s\n", SubtitleStyle.Render("backend:"), spec.Executor().Ref())
	fmt.Fprintf(out, "%s %d\n", SubtitleStyle.Render("options:"), len(spec.Options()))
	fmt.Fprintf(out, "%s ~10^%d configurations\n", SubtitleStyle.Render("size:"), spec.Log10Size())
	return nil
}
