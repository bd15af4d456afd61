// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"eggfetch/internal/hatchery"
)

// infoParams bundles the dependencies for the info command so runInfo can be
// tested against an httptest-backed client.
type infoParams struct {
	stdout io.Writer
	client *hatchery.Client
	name   string
}

// newInfoCommand creates the `eggfetch info` command, which prints the
// release manifest of an egg: every published version, its files, and which
// version an unpinned install would pick.
func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <egg>",
		Short: "Show the published versions of an egg",
		Example: `  # List all published versions of the 'clock' egg
  eggfetch info clock`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			cfg, err := effectiveConfig()
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), formatErrorForDisplay(err, verbose))
				return &ExitError{Code: 1, Err: err}
			}

			p := infoParams{
				stdout: cmd.OutOrStdout(),
				client: newRegistryClient(cfg),
				name:   args[0],
			}

			if err := runInfo(cmd.Context(), p); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), formatInstallError(err))
				return &ExitError{Code: classifyInstallExitCode(err), Err: err}
			}

			return nil
		},
	}
}

// runInfo fetches and prints the manifest for one egg.
func runInfo(ctx context.Context, p infoParams) error {
	manifest, err := p.client.GetManifest(ctx, p.name)
	if err != nil {
		return err
	}

	latest, latestErr := manifest.Latest()

	fmt.Fprintln(p.stdout, TitleStyle.Render(p.name))
	fmt.Fprintln(p.stdout)

	versions := manifest.Versions()
	if len(versions) == 0 {
		fmt.Fprintln(p.stdout, SubtitleStyle.Render("No published versions."))
		return nil
	}

	for _, v := range versions {
		marker := ""
		if latestErr == nil && v == latest.Version {
			marker = " " + SuccessStyle.Render("(latest)")
		}
		fmt.Fprintf(p.stdout, "%s%s\n", CmdStyle.Render("version "+v), marker)

		for _, f := range manifest[v] {
			line := "  " + f.URL
			if f.Size > 0 {
				line += fmt.Sprintf("  (%d bytes)", f.Size)
			}
			fmt.Fprintln(p.stdout, VerboseStyle.Render(line))
		}
	}

	return nil
}
