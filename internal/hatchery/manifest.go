// SPDX-License-Identifier: MPL-2.0

package hatchery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrNoReleases is returned when a manifest carries no installable release.
	ErrNoReleases = errors.New("no releases available")

	// ErrVersionNotFound is returned when a pinned version has no manifest entry.
	ErrVersionNotFound = errors.New("version not found")
)

type (
	// Manifest is the release manifest served by the registry: a JSON object
	// keyed by version, each value a list of downloadable release files.
	// Version keys are numeric revision strings ("1", "2", ...), though the
	// registry does not enforce that.
	Manifest map[string][]ReleaseFile

	// ReleaseFile is a single downloadable file inside a release.
	ReleaseFile struct {
		URL    string `json:"url"`              // Direct download URL
		Name   string `json:"name,omitempty"`   // Filename as stored in the registry
		Size   int64  `json:"size,omitempty"`   // File size in bytes, when the registry reports it
		SHA256 string `json:"sha256,omitempty"` // Hex-encoded SHA256 digest, when the registry reports it
	}

	// Release pairs a resolved version with the file chosen for download.
	Release struct {
		Version string
		File    ReleaseFile
	}
)

// parseManifest decodes a release manifest from the response body.
func parseManifest(body io.Reader) (Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(body).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return m, nil
}

// Versions returns the manifest's version keys sorted numerically descending.
// Non-numeric keys sort after all numeric ones, in lexical order, so they are
// still visible in listings without ever winning latest-version selection.
func (m Manifest) Versions() []string {
	versions := make([]string, 0, len(m))
	for v := range m {
		versions = append(versions, v)
	}

	slices.SortStableFunc(versions, func(a, b string) int {
		an, aok := parseRevision(a)
		bn, bok := parseRevision(b)
		switch {
		case aok && bok:
			// Numeric descending.
			if an != bn {
				if an > bn {
					return -1
				}
				return 1
			}
			return 0
		case aok:
			return -1
		case bok:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})

	return versions
}

// Latest resolves the release under the numerically-maximal version key.
// Versions without files and non-numeric keys are skipped. Returns
// ErrNoReleases when nothing qualifies.
func (m Manifest) Latest() (Release, error) {
	best := ""
	bestRev := 0
	for v, files := range m {
		rev, ok := parseRevision(v)
		if !ok || len(files) == 0 {
			continue
		}
		if best == "" || rev > bestRev {
			best, bestRev = v, rev
		}
	}

	if best == "" {
		return Release{}, ErrNoReleases
	}

	return Release{Version: best, File: pickArchive(m[best])}, nil
}

// Resolve returns the release for an exact version key, or the latest
// release when version is empty. A pinned version that is absent or empty
// yields ErrVersionNotFound.
func (m Manifest) Resolve(version string) (Release, error) {
	if version == "" {
		return m.Latest()
	}

	files, ok := m[version]
	if !ok || len(files) == 0 {
		if len(m) == 0 {
			return Release{}, fmt.Errorf("version %q: %w", version, ErrVersionNotFound)
		}
		return Release{}, fmt.Errorf("version %q (available: %s): %w",
			version, strings.Join(m.Versions(), ", "), ErrVersionNotFound)
	}

	return Release{Version: version, File: pickArchive(files)}, nil
}

// pickArchive chooses which file of a release to download: the first entry
// whose URL looks like a tar archive, falling back to the first entry.
// The caller guarantees files is non-empty.
func pickArchive(files []ReleaseFile) ReleaseFile {
	for _, f := range files {
		if isTarArchiveURL(f.URL) {
			return f
		}
	}
	return files[0]
}

// isTarArchiveURL reports whether the URL path ends in a tar archive suffix.
func isTarArchiveURL(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasSuffix(lower, ".tar.gz") ||
		strings.HasSuffix(lower, ".tgz") ||
		strings.HasSuffix(lower, ".tar")
}

// parseRevision parses a version key as a non-negative integer revision.
func parseRevision(v string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
