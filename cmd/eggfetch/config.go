// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"eggfetch/internal/config"
	"eggfetch/internal/issue"
)

// newConfigCommand creates the `eggfetch config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage eggfetch configuration",
		Long: `Manage eggfetch configuration.

Configuration is stored in:
  - Linux: ~/.config/eggfetch/config.toml
  - macOS: ~/Library/Application Support/eggfetch/config.toml
  - Windows: %APPDATA%\eggfetch\config.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	return cfgCmd
}

func showConfig() error {
	cfg, err := effectiveConfig()
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	cfgPath, pathErr := config.FilePath()
	if pathErr == nil && fileExists(cfgPath) {
		fmt.Printf("%s: %s\n", CmdStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Printf("%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	installDir := cfg.InstallDir
	if installDir == "" {
		installDir = "(current directory)"
	}

	fmt.Printf("%s: %s\n", CmdStyle.Render("registry"), SuccessStyle.Render(cfg.Registry))
	fmt.Printf("%s: %s\n", CmdStyle.Render("install_dir"), SuccessStyle.Render(installDir))
	fmt.Printf("%s: %s\n", CmdStyle.Render("timeout_seconds"), SuccessStyle.Render(fmt.Sprintf("%d", cfg.TimeoutSeconds)))
	fmt.Printf("%s: %s\n", CmdStyle.Render("ui.verbose"), SuccessStyle.Render(fmt.Sprintf("%t", cfg.UI.Verbose)))

	return nil
}

func initConfigFile() error {
	path, err := config.WriteDefault()
	if err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Created " + path))
	return nil
}

func showConfigPath() error {
	path, err := config.FilePath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// fileExists reports whether path exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
