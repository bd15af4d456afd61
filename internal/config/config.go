// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"eggfetch/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "eggfetch"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"

	// envPrefix is the prefix for environment variable overrides,
	// e.g. EGGFETCH_REGISTRY or EGGFETCH_INSTALL_DIR.
	envPrefix = "EGGFETCH"

	// DefaultRegistry is the hatchery queried when nothing else is configured.
	DefaultRegistry = "https://badge.team"

	// defaultTimeoutSeconds bounds registry requests unless overridden.
	defaultTimeoutSeconds = 30
)

var (
	// configDirOverride allows tests to redirect the config directory.
	//
	//nolint:gochecknoglobals // Test seam for ConfigDir.
	configDirOverride string

	// configFilePathOverride holds the path given via the --config flag.
	//
	//nolint:gochecknoglobals // Set once from the root command before loading.
	configFilePathOverride string
)

// SetConfigDirOverride redirects ConfigDir, primarily for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride makes Load read the given file exclusively,
// as requested via the --config flag.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// ConfigDir returns the eggfetch configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

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

// FilePath returns the path of the config file Load would read: the
// --config override when set, otherwise the file inside ConfigDir.
func FilePath() (string, error) {
	if configFilePathOverride != "" {
		return configFilePathOverride, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// DefaultConfig returns the built-in defaults, used when no config file
// exists and as the base every file/env override is layered onto.
func DefaultConfig() *Config {
	return &Config{
		Registry:       DefaultRegistry,
		InstallDir:     "",
		TimeoutSeconds: defaultTimeoutSeconds,
	}
}

// Load reads the configuration from the config file (if present) and the
// environment, layered over DefaultConfig. A missing config file is not an
// error; an unreadable or invalid one is.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("registry", defaults.Registry)
	v.SetDefault("install_dir", defaults.InstallDir)
	v.SetDefault("timeout_seconds", defaults.TimeoutSeconds)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	// Environment overrides: EGGFETCH_REGISTRY, EGGFETCH_UI_VERBOSE, ...
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// If a custom config file path is set via the --config flag, use it exclusively.
	if configFilePathOverride != "" {
		if !fileExists(configFilePathOverride) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(configFilePathOverride).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				Build()
		}
		v.SetConfigFile(configFilePathOverride)
	} else {
		cfgDir, err := ConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config directory: %w", err)
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(cfgDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(v.ConfigFileUsed()).
				WithSuggestion("Check the TOML syntax").
				WithSuggestion("Run 'eggfetch config init' to recreate the default file").
				Wrap(err).
				Build()
		}
		// No config file: defaults plus environment apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(v.ConfigFileUsed()).
			WithSuggestion("Run 'eggfetch config show' to inspect the effective values").
			Wrap(err).
			Build()
	}

	return &cfg, nil
}

// WriteDefault creates the default config file at the standard location,
// returning the path it wrote. Refuses to overwrite an existing file.
func WriteDefault() (string, error) {
	path, err := FilePath()
	if err != nil {
		return "", err
	}

	if fileExists(path) {
		return path, fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return path, nil
}

// fileExists reports whether path exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
