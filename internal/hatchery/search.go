// SPDX-License-Identifier: MPL-2.0

package hatchery

// EggSummary is one entry in a search listing: enough metadata to identify
// an egg and decide whether to install it, without its full release manifest.
type EggSummary struct {
	Name            string `json:"name"`             // Human-readable egg name
	Slug            string `json:"slug"`             // Registry identifier used in manifest URLs
	Description     string `json:"description"`      // Short free-form description
	Revision        int    `json:"revision"`         // Latest published revision number
	Category        string `json:"category"`         // Registry category, e.g. "utility"
	DownloadCounter int    `json:"download_counter"` // Total downloads across all revisions
}
