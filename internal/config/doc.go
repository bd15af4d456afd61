// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates the eggfetch configuration: a TOML
// file in the platform config directory, layered under EGGFETCH_* environment
// overrides, with defaults that work without any file at all.
package config
