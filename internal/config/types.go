// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidRegistryURL is returned when the registry value is not an absolute http(s) URL.
	ErrInvalidRegistryURL = errors.New("invalid registry URL")
	// ErrInvalidInstallDir is returned when the install_dir value is whitespace-only.
	ErrInvalidInstallDir = errors.New("invalid install dir")
	// ErrInvalidTimeout is returned when timeout_seconds is negative.
	ErrInvalidTimeout = errors.New("invalid timeout")
)

type (
	// Config is the full eggfetch configuration, loaded from the TOML config
	// file with environment overrides.
	Config struct {
		// Registry is the hatchery base URL queried for manifests and search.
		Registry string `mapstructure:"registry" toml:"registry"`

		// InstallDir is the default extraction root. Empty means the current
		// working directory at invocation time.
		InstallDir string `mapstructure:"install_dir" toml:"install_dir"`

		// TimeoutSeconds bounds each registry request. Zero disables the
		// client-side timeout.
		TimeoutSeconds int `mapstructure:"timeout_seconds" toml:"timeout_seconds"`

		// UI groups presentation settings.
		UI UIConfig `mapstructure:"ui" toml:"ui"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		// Verbose enables debug-level logging without the --verbose flag.
		Verbose bool `mapstructure:"verbose" toml:"verbose"`
	}

	// InvalidRegistryURLError is returned when a registry value is not usable.
	// It wraps ErrInvalidRegistryURL for errors.Is() compatibility.
	InvalidRegistryURLError struct {
		Value string
	}
)

// Error formats the offending registry value.
func (e *InvalidRegistryURLError) Error() string {
	return fmt.Sprintf("%v: %q (must be an absolute http or https URL)", ErrInvalidRegistryURL, e.Value)
}

// Unwrap returns ErrInvalidRegistryURL so callers can use errors.Is.
func (e *InvalidRegistryURLError) Unwrap() error { return ErrInvalidRegistryURL }

// Validate checks the configuration for values that can never work, as
// opposed to values that merely fail at request time.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Registry)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &InvalidRegistryURLError{Value: c.Registry}
	}

	if c.InstallDir != "" && strings.TrimSpace(c.InstallDir) == "" {
		return fmt.Errorf("%w: value is whitespace-only", ErrInvalidInstallDir)
	}

	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: %d seconds", ErrInvalidTimeout, c.TimeoutSeconds)
	}

	return nil
}
