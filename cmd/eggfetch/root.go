// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"eggfetch/internal/config"
	"eggfetch/internal/hatchery"
	"eggfetch/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// registryFlag overrides the configured registry base URL
	registryFlag string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "eggfetch",
		Short: "Install eggs from a hatchery registry",
		Long: TitleStyle.Render("eggfetch") + SubtitleStyle.Render(" - Install eggs from a hatchery registry") + `

eggfetch queries a hatchery registry for the release manifest of a named
egg, resolves the download URL of the wanted version (latest by default),
and streams the archive into tar extraction in the target directory.

` + SubtitleStyle.Render("Examples:") + `
  eggfetch install clock            Install the latest 'clock' egg here
  eggfetch install clock --dir app  Extract into ./app instead
  eggfetch info clock               Show published versions
  eggfetch search time              Find eggs matching 'time'
  eggfetch config show              Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/eggfetch/config.toml)")
	rootCmd.PersistentFlags().StringVar(&registryFlag, "registry", "", "registry base URL (overrides configuration)")

	// Add subcommands
	rootCmd.AddCommand(newInstallCommand())
	rootCmd.AddCommand(newInfoCommand())
	rootCmd.AddCommand(newSearchCommand())
	rootCmd.AddCommand(newConfigCommand())
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
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig wires the --config flag into the config loader and applies
// config-driven verbosity before any command runs.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}

	setupLogging(verbose)
}

// formatErrorForDisplay renders an error for terminal output, using the
// actionable formatting (suggestions, error chain) when available.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// effectiveConfig loads the configuration and layers the --registry flag on
// top. Commands call this instead of config.Load so flag precedence stays in
// one place.
func effectiveConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if registryFlag != "" {
		cfg.Registry = registryFlag
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newRegistryClient builds the hatchery client for the effective config.
func newRegistryClient(cfg *config.Config) *hatchery.Client {
	httpClient := http.DefaultClient
	if cfg.TimeoutSeconds > 0 {
		httpClient = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}

	return hatchery.NewClient(
		hatchery.WithBaseURL(cfg.Registry),
		hatchery.WithHTTPClient(httpClient),
		hatchery.WithUserAgent("eggfetch/"+Version),
		hatchery.WithLogger(logger),
	)
}
