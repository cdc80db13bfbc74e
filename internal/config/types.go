// SPDX-License-Identifier: MPL-2.0

package config

type (
	// Config is the resolved gccprobe configuration.
	Config struct {
		// CacheDir is where discovered specs are persisted. Empty means
		// the platform data directory.
		CacheDir string `mapstructure:"cache_dir"`
		// GCC selects and tunes the compiler backend.
		GCC GCCConfig `mapstructure:"gcc"`
		// UI controls output behavior.
		UI UIConfig `mapstructure:"ui"`
	}

	// GCCConfig selects the compiler backend. Bin takes precedence over
	// Image when both are set.
	GCCConfig struct {
		// Bin is a gcc binary on the host (name or path).
		Bin string `mapstructure:"bin"`
		// Image is a docker image containing gcc.
		Image string `mapstructure:"image"`
		// TimeoutSeconds bounds each compiler invocation.
		TimeoutSeconds int `mapstructure:"timeout_seconds"`
	}

	// UIConfig controls CLI output.
	UIConfig struct {
		Verbose bool `mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults: the gcc 11.2.0 docker
// image and a 60 second invocation timeout.
func DefaultConfig() *Config {
	return &Config{
		GCC: GCCConfig{
			Image:          "gcc:11.2.0",
			TimeoutSeconds: 60,
		},
	}
}

// BackendRef returns the executor reference the config selects: the
// host binary when set, otherwise the docker image.
func (c *Config) BackendRef() string {
	if c.GCC.Bin != "" {
		return c.GCC.Bin
	}
	return "docker:" + c.GCC.Image
}
