// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// withTempConfigDir points the config loader at an empty temp directory for
// the duration of the test. Tests using it must not run in parallel because
// the override is package-level state.
func withTempConfigDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(func() {
		SetConfigDirOverride("")
		SetConfigFilePathOverride("")
	})
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Registry != DefaultRegistry {
		t.Errorf("Registry = %q, want %q", cfg.Registry, DefaultRegistry)
	}
	if cfg.InstallDir != "" {
		t.Errorf("InstallDir = %q, want empty (current directory)", cfg.InstallDir)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
	if cfg.UI.Verbose {
		t.Error("UI.Verbose = true, want false")
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	withTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Registry != DefaultRegistry {
		t.Errorf("Registry = %q, want the default", cfg.Registry)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := withTempConfigDir(t)

	contents := `registry = "https://hatchery.example.org"
install_dir = "/opt/eggs"
timeout_seconds = 5

[ui]
verbose = true
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Registry != "https://hatchery.example.org" {
		t.Errorf("Registry = %q", cfg.Registry)
	}
	if cfg.InstallDir != "/opt/eggs" {
		t.Errorf("InstallDir = %q", cfg.InstallDir)
	}
	if cfg.TimeoutSeconds != 5 {
		t.Errorf("TimeoutSeconds = %d", cfg.TimeoutSeconds)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	withTempConfigDir(t)
	t.Setenv("EGGFETCH_REGISTRY", "https://env.example.org")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Registry != "https://env.example.org" {
		t.Errorf("Registry = %q, want the env override", cfg.Registry)
	}
}

func TestLoad_InvalidRegistryInFile(t *testing.T) {
	dir := withTempConfigDir(t)

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`registry = "not a url"`), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	_, err := Load()
	if !errors.Is(err, ErrInvalidRegistryURL) {
		t.Errorf("got %v, want ErrInvalidRegistryURL", err)
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	dir := withTempConfigDir(t)

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`registry = [broken`), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for malformed TOML")
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	withTempConfigDir(t)
	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "absent.toml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a missing --config file")
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	withTempConfigDir(t)

	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte(`registry = "https://custom.example.org"`), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	SetConfigFilePathOverride(path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Registry != "https://custom.example.org" {
		t.Errorf("Registry = %q, want the custom file value", cfg.Registry)
	}
}

func TestWriteDefault(t *testing.T) {
	dir := withTempConfigDir(t)

	path, err := WriteDefault()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "config.toml") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written config: %v", err)
	}
	if !strings.Contains(string(data), DefaultRegistry) {
		t.Errorf("written config lacks the default registry: %q", data)
	}

	// A second call must refuse to overwrite.
	if _, err := WriteDefault(); err == nil {
		t.Fatal("expected an error when the file already exists")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"defaults are valid", *DefaultConfig(), nil},
		{"http registry", Config{Registry: "http://localhost:8080"}, nil},
		{"relative registry", Config{Registry: "badge.team"}, ErrInvalidRegistryURL},
		{"wrong scheme", Config{Registry: "ftp://badge.team"}, ErrInvalidRegistryURL},
		{"empty registry", Config{}, ErrInvalidRegistryURL},
		{"whitespace install dir", Config{Registry: DefaultRegistry, InstallDir: "   "}, ErrInvalidInstallDir},
		{"negative timeout", Config{Registry: DefaultRegistry, TimeoutSeconds: -1}, ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
