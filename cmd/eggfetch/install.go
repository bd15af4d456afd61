// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"eggfetch/internal/hatchery"
	"eggfetch/internal/install"
	"eggfetch/internal/issue"
)

// installParams bundles the dependencies and flags for the install command,
// enabling the core logic in runInstall to be tested without a real Cobra
// command or a live registry.
type installParams struct {
	stdout      io.Writer
	stderr      io.Writer
	installer   *install.Installer
	name        string // egg to install
	version     string // exact manifest key (empty = latest)
	targetDir   string // extraction root (empty = current working directory)
	keepArchive bool   // leave the downloaded archive next to the extracted files
}

// newInstallCommand creates the `eggfetch install` command, which resolves
// the wanted release of an egg and extracts its archive into the target
// directory.
func newInstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <egg>",
		Short: "Download and extract an egg release",
		Long: `Download and extract an egg release.

The install command fetches the egg's release manifest from the registry,
resolves the download URL of the wanted version (the numerically highest
one unless --version pins an exact key), downloads the archive, verifies
its SHA256 digest when the manifest publishes one, and extracts it into
the target directory.`,
		Example: `  # Install the latest release into the current directory
  eggfetch install clock

  # Install a pinned version
  eggfetch install clock --version 3

  # Extract somewhere else and keep the downloaded archive
  eggfetch install clock --dir ~/eggs/clock --keep-archive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			versionFlag, _ := cmd.Flags().GetString("version")
			dirFlag, _ := cmd.Flags().GetString("dir")
			keepFlag, _ := cmd.Flags().GetBool("keep-archive")

			cfg, err := effectiveConfig()
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), formatErrorForDisplay(err, verbose))
				return &ExitError{Code: 1, Err: err}
			}

			targetDir := dirFlag
			if targetDir == "" {
				targetDir = cfg.InstallDir
			}

			installer := install.NewInstaller(newRegistryClient(cfg), install.WithLogger(logger))

			p := installParams{
				stdout:      cmd.OutOrStdout(),
				stderr:      cmd.ErrOrStderr(),
				installer:   installer,
				name:        args[0],
				version:     versionFlag,
				targetDir:   targetDir,
				keepArchive: keepFlag,
			}

			if err := runInstall(cmd.Context(), p); err != nil {
				fmt.Fprintln(p.stderr, formatInstallError(err))
				return &ExitError{Code: classifyInstallExitCode(err), Err: err}
			}

			return nil
		},
	}

	cmd.Flags().String("version", "", "Exact version key to install (default: latest)")
	cmd.Flags().StringP("dir", "d", "", "Target directory for extraction (default: current directory)")
	cmd.Flags().Bool("keep-archive", false, "Keep the downloaded archive after extraction")

	return cmd
}

// runInstall is the core install logic, separated from Cobra for testability.
// All user-facing output goes through p.stdout and p.stderr.
func runInstall(ctx context.Context, p installParams) error {
	fmt.Fprintf(p.stdout, "Fetching manifest for %s...\n", p.name)

	result, err := p.installer.Install(ctx, install.Options{
		Name:        p.name,
		Version:     p.version,
		TargetDir:   p.targetDir,
		KeepArchive: p.keepArchive,
	})
	if err != nil {
		return err
	}

	if result.Verified {
		fmt.Fprintln(p.stdout, "Verifying checksum... OK")
	}

	fmt.Fprintf(p.stdout, "Extracted %d files (%d bytes)\n", len(result.Files), result.Bytes)
	if result.ArchivePath != "" {
		fmt.Fprintf(p.stdout, "Archive kept at %s\n", result.ArchivePath)
	}
	fmt.Fprintln(p.stdout, SuccessStyle.Render(fmt.Sprintf("Installed %s version %s", result.Name, result.Version)))

	return nil
}

// classifyInstallExitCode maps an install error to the appropriate process exit
// code. User-correctable failures (unknown egg, bad version pin, permissions)
// use exit code 1; all other failures use exit code 2 (unexpected/transient).
func classifyInstallExitCode(err error) int {
	switch {
	case errors.Is(err, hatchery.ErrEggNotFound):
		return 1
	case errors.Is(err, hatchery.ErrVersionNotFound):
		return 1
	case errors.Is(err, os.ErrPermission):
		return 1
	default:
		return 2
	}
}

// formatInstallError produces a user-friendly error message, attaching the
// rendered guidance for failure classes that have a known remediation.
func formatInstallError(err error) string {
	if id, ok := classifyIssue(err); ok {
		if rendered, renderErr := issue.Get(id).Render("dark"); renderErr == nil {
			return err.Error() + "\n" + rendered
		}
	}
	return err.Error()
}

// classifyIssue maps an install error to the known issue describing it.
func classifyIssue(err error) (issue.Id, bool) {
	var statusErr *hatchery.StatusError

	switch {
	case errors.Is(err, hatchery.ErrEggNotFound):
		return issue.EggNotFoundId, true
	case errors.Is(err, hatchery.ErrVersionNotFound):
		return issue.VersionNotFoundId, true
	case errors.Is(err, hatchery.ErrNoReleases):
		return issue.ManifestInvalidId, true
	case errors.Is(err, install.ErrChecksumMismatch):
		return issue.ChecksumMismatchId, true
	case errors.Is(err, install.ErrUnsafePath), errors.Is(err, install.ErrEntryTooLarge):
		return issue.ExtractFailedId, true
	case errors.As(err, &statusErr):
		return issue.RegistryUnreachableId, true
	}

	return 0, false
}
