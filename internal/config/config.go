// SPDX-License-Identifier: MPL-2.0

// Package config loads the gccprobe configuration: a CUE file validated
// against an embedded schema and merged into viper on top of the
// built-in defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for platform directories.
	AppName = "gccprobe"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the gccprobe configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DataDir returns the directory for durable application data (the spec
// cache), following the same platform conventions with $XDG_DATA_HOME
// on Linux.
func DataDir() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "windows":
		dataDir = os.Getenv("LOCALAPPDATA")
		if dataDir == "" {
			dataDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, "Library", "Application Support")
	default:
		dataDir = os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(dataDir, AppName), nil
}

// Load reads the configuration. A non-empty path selects a config file
// explicitly; otherwise the platform config dir and then the current
// directory are tried, and absence of a file just means defaults.
// CacheDir is always resolved to a concrete directory.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("cache_dir", defaults.CacheDir)
	v.SetDefault("gcc.bin", defaults.GCC.Bin)
	v.SetDefault("gcc.image", defaults.GCC.Image)
	v.SetDefault("gcc.timeout_seconds", defaults.GCC.TimeoutSeconds)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	if path != "" {
		if !fileExists(path) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, err
		}
	} else if resolved := findConfigFile(); resolved != "" {
		if err := loadCUEIntoViper(v, resolved); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.CacheDir == "" {
		dataDir, err := DataDir()
		if err != nil {
			return nil, err
		}
		cfg.CacheDir = filepath.Join(dataDir, "gcc-specs")
	}

	return &cfg, nil
}

// findConfigFile looks for config.cue in the platform config dir, then
// the current directory. Empty means no config file, which is fine.
func findConfigFile() string {
	if cfgDir, err := ConfigDir(); err == nil {
		candidate := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(candidate) {
			return candidate
		}
	}
	local := ConfigFileName + "." + ConfigFileExt
	if fileExists(local) {
		return local
	}
	return ""
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into viper on top of the defaults.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return fmt.Errorf("%s: invalid CUE: %w", path, userValue.Err())
	}

	// Unify with the schema; Concrete(false) because all fields are optional.
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("%s: config does not match schema: %w", path, err)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return fmt.Errorf("%s: failed to decode config: %w", path, err)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
