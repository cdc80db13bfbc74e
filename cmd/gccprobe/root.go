// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"gccprobe/internal/cache"
	"gccprobe/internal/config"
	"gccprobe/internal/discover"
	"gccprobe/internal/executor"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// gccRef overrides the configured compiler backend
	gccRef string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "gccprobe",
		Short: "Model the option space of a GCC compiler",
		Long: TitleStyle.Render("gccprobe") + SubtitleStyle.Render(" - Model the option space of a GCC compiler") + `

gccprobe queries an installed GCC (a host binary or a docker image) for
its optimization flags and tunable parameters, and seals the result into
a versioned, cached spec that downstream tooling can enumerate.

` + SubtitleStyle.Render("Examples:") + `
  gccprobe probe                      Discover the configured compiler
  gccprobe probe --gcc docker:gcc:12  Discover a dockerized gcc 12
  gccprobe dump --gcc /usr/bin/gcc    Dump every option of the host gcc`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/gccprobe/config.cue)")
	rootCmd.PersistentFlags().StringVar(&gccRef, "gcc", "", "compiler backend: a gcc binary path or docker:<image>")

	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(dumpCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger; --verbose lowers the level to debug.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "gccprobe"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// setup loads configuration and wires the discovery stack: one backend
// registry, one cache store, one discoverer.
func setup(ctx context.Context) (*config.Config, *discover.Discoverer, executor.Executor, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.UI.Verbose {
		verbose = true
	}

	ref := cfg.BackendRef()
	if gccRef != "" {
		ref = gccRef
	}

	logger := newLogger()
	registry := executor.NewRegistry()
	exec, err := registry.Executor(ctx, ref)
	if err != nil {
		return nil, nil, nil, err
	}

	store := cache.NewStore(cfg.CacheDir, logger)
	discoverer := discover.New(store, logger)
	discoverer.SetInvokeTimeout(time.Duration(cfg.GCC.TimeoutSeconds) * time.Second)
	return cfg, discoverer, exec, nil
}
