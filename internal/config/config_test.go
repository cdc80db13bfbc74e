// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.cue")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GCC.Image != "gcc:11.2.0" {
		t.Errorf("gcc.image = %q, want gcc:11.2.0", cfg.GCC.Image)
	}
	if cfg.GCC.TimeoutSeconds != 60 {
		t.Errorf("gcc.timeout_seconds = %d, want 60", cfg.GCC.TimeoutSeconds)
	}
	if cfg.GCC.Bin != "" {
		t.Errorf("gcc.bin = %q, want empty", cfg.GCC.Bin)
	}
	if cfg.CacheDir == "" {
		t.Error("cache_dir was not resolved to a concrete directory")
	}
	if cfg.UI.Verbose {
		t.Error("ui.verbose defaults to true, want false")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeConfig(t, `
cache_dir: "/tmp/gccprobe-test-cache"

gcc: {
	bin:             "gcc-11"
	timeout_seconds: 120
}

ui: verbose: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CacheDir != "/tmp/gccprobe-test-cache" {
		t.Errorf("cache_dir = %q", cfg.CacheDir)
	}
	if cfg.GCC.Bin != "gcc-11" {
		t.Errorf("gcc.bin = %q, want gcc-11", cfg.GCC.Bin)
	}
	if cfg.GCC.TimeoutSeconds != 120 {
		t.Errorf("gcc.timeout_seconds = %d, want 120", cfg.GCC.TimeoutSeconds)
	}
	if !cfg.UI.Verbose {
		t.Error("ui.verbose = false, want true")
	}

	// Fields the file leaves out keep their defaults.
	if cfg.GCC.Image != "gcc:11.2.0" {
		t.Errorf("gcc.image = %q, want default gcc:11.2.0", cfg.GCC.Image)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		match   string
	}{
		{
			name:    "invalid CUE syntax",
			content: "gcc: {",
			match:   "invalid CUE",
		},
		{
			name:    "schema violation on type",
			content: `gcc: timeout_seconds: "sixty"`,
			match:   "does not match schema",
		},
		{
			name:    "schema violation on bounds",
			content: `gcc: timeout_seconds: -1`,
			match:   "does not match schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() error = nil, want schema/parse error")
			}
			if !strings.Contains(err.Error(), tt.match) {
				t.Errorf("Load() error = %q, want to contain %q", err, tt.match)
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Fatalf("Load() error = %v, want not-found error", err)
		}
	})
}

func TestBackendRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "image only",
			cfg:  Config{GCC: GCCConfig{Image: "gcc:11.2.0"}},
			want: "docker:gcc:11.2.0",
		},
		{
			name: "bin wins over image",
			cfg:  Config{GCC: GCCConfig{Bin: "/usr/bin/gcc-11", Image: "gcc:11.2.0"}},
			want: "/usr/bin/gcc-11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cfg.BackendRef(); got != tt.want {
				t.Errorf("BackendRef() = %q, want %q", got, tt.want)
			}
		})
	}
}
