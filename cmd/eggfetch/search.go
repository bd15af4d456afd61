// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"eggfetch/internal/hatchery"
)

// searchParams bundles the dependencies for the search command so runSearch
// can be tested against an httptest-backed client.
type searchParams struct {
	stdout io.Writer
	client *hatchery.Client
	query  string
}

// newSearchCommand creates the `eggfetch search` command, which lists the
// eggs the registry reports for a query string.
func newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the registry for eggs",
		Example: `  # Find eggs related to clocks
  eggfetch search clock`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			cfg, err := effectiveConfig()
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), formatErrorForDisplay(err, verbose))
				return &ExitError{Code: 1, Err: err}
			}

			p := searchParams{
				stdout: cmd.OutOrStdout(),
				client: newRegistryClient(cfg),
				query:  args[0],
			}

			if err := runSearch(cmd.Context(), p); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), formatInstallError(err))
				return &ExitError{Code: classifyInstallExitCode(err), Err: err}
			}

			return nil
		},
	}
}

// runSearch queries the registry and prints one line per matching egg.
func runSearch(ctx context.Context, p searchParams) error {
	results, err := p.client.Search(ctx, p.query)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintf(p.stdout, "No eggs matching %q.\n", p.query)
		return nil
	}

	for _, egg := range results {
		name := egg.Slug
		if name == "" {
			name = egg.Name
		}

		fmt.Fprintf(p.stdout, "%s  %s\n", CmdStyle.Render(name), egg.Description)
		detail := fmt.Sprintf("  revision %d", egg.Revision)
		if egg.Category != "" {
			detail += ", " + egg.Category
		}
		if egg.DownloadCounter > 0 {
			detail += fmt.Sprintf(", %d downloads", egg.DownloadCounter)
		}
		fmt.Fprintln(p.stdout, SubtitleStyle.Render(detail))
	}

	return nil
}
