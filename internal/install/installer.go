// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"

	"eggfetch/internal/hatchery"
)

type (
	// Options describes one install request.
	Options struct {
		Name        string // Egg name as known to the registry
		Version     string // Exact manifest key to install; empty means latest
		TargetDir   string // Extraction root; empty means the current working directory
		KeepArchive bool   // Keep the downloaded archive next to the extracted files
	}

	// Result reports what an install actually did.
	Result struct {
		Name        string   // Egg name
		Version     string   // Resolved version key
		URL         string   // Download URL the archive came from
		ArchivePath string   // Path of the kept archive; empty unless Options.KeepArchive
		Files       []string // Extracted file paths, relative to the target directory
		Bytes       int64    // Total bytes written during extraction
		Verified    bool     // True when a registry-supplied SHA256 was checked
	}

	// Installer composes the registry client, checksum verification, and
	// archive extraction into an end-to-end install flow. It is the primary
	// facade for the install package.
	Installer struct {
		client *hatchery.Client
		logger *log.Logger
	}

	// InstallerOption configures an Installer during construction.
	InstallerOption func(*Installer)
)

// WithLogger sets the logger used for progress-level debug output.
func WithLogger(l *log.Logger) InstallerOption {
	return func(i *Installer) {
		i.logger = l
	}
}

// NewInstaller creates an Installer backed by the given registry client.
func NewInstaller(client *hatchery.Client, opts ...InstallerOption) *Installer {
	i := &Installer{
		client: client,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Resolve fetches the manifest for opts.Name and picks the release matching
// opts.Version (or the latest release when the version is empty), without
// downloading anything. Install calls this itself; it is exported so the
// info command can share the resolution rules.
func (i *Installer) Resolve(ctx context.Context, name, version string) (hatchery.Release, error) {
	manifest, err := i.client.GetManifest(ctx, name)
	if err != nil {
		return hatchery.Release{}, err
	}
	return manifest.Resolve(version)
}

// Install downloads and extracts one egg release.
//
// Flow:
//  1. Fetch the manifest and resolve the requested version.
//  2. Download the archive to a temp file inside the target directory, so
//     the later rename for --keep-archive is a same-filesystem move.
//  3. Verify the registry-supplied SHA256 when present.
//  4. Extract the archive into the target directory.
//  5. Keep or remove the archive per Options.KeepArchive.
func (i *Installer) Install(ctx context.Context, opts Options) (*Result, error) {
	if opts.Name == "" {
		return nil, errors.New("egg name must not be empty")
	}

	targetDir := opts.TargetDir
	if targetDir == "" {
		targetDir = "."
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating target directory: %w", err)
	}

	release, err := i.Resolve(ctx, opts.Name, opts.Version)
	if err != nil {
		return nil, err
	}

	i.logger.Debug("resolved release", "egg", opts.Name, "version", release.Version, "url", release.File.URL)

	archivePath, err := i.downloadToTempFile(ctx, release.File.URL, targetDir)
	if err != nil {
		return nil, fmt.Errorf("downloading archive: %w", err)
	}

	// Track whether the archive was kept so the deferred cleanup knows
	// whether to remove the temp file.
	kept := false
	defer func() {
		if !kept {
			_ = os.Remove(archivePath)
		}
	}()

	result := &Result{
		Name:    opts.Name,
		Version: release.Version,
		URL:     release.File.URL,
	}

	if release.File.SHA256 != "" {
		if !isValidHexHash(release.File.SHA256) {
			return nil, fmt.Errorf("manifest carries malformed sha256 %q for %s", release.File.SHA256, opts.Name)
		}
		if err := VerifyFile(archivePath, release.File.SHA256); err != nil {
			return nil, fmt.Errorf("verifying archive checksum: %w", err)
		}
		result.Verified = true
		i.logger.Debug("checksum verified", "sha256", release.File.SHA256)
	}

	files, total, err := extractArchive(archivePath, targetDir)
	if err != nil {
		return nil, fmt.Errorf("extracting archive: %w", err)
	}
	result.Files = files
	result.Bytes = total

	if opts.KeepArchive {
		keptPath := filepath.Join(targetDir, archiveBaseName(release))
		if err := os.Rename(archivePath, keptPath); err != nil {
			return nil, fmt.Errorf("keeping archive: %w", err)
		}
		kept = true
		result.ArchivePath = keptPath
	}

	i.logger.Debug("install complete", "egg", opts.Name, "files", len(files), "bytes", total)
	return result, nil
}

// downloadToTempFile downloads the archive at archiveURL into a temporary
// file in dir and returns the path to the temp file. The caller is
// responsible for removing the file when done.
func (i *Installer) downloadToTempFile(ctx context.Context, archiveURL, dir string) (_ string, err error) {
	body, err := i.client.Download(ctx, archiveURL)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	tmp, err := os.CreateTemp(dir, "eggfetch-download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if closeErr := tmp.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := io.Copy(tmp, body); err != nil {
		// Best-effort removal of partially written temp file.
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("writing to temp file: %w", err)
	}

	return tmp.Name(), nil
}

// archiveBaseName derives the on-disk name for a kept archive: the registry
// filename when present, otherwise the base of the download URL path.
func archiveBaseName(release hatchery.Release) string {
	if release.File.Name != "" {
		return filepath.Base(release.File.Name)
	}
	if u, err := url.Parse(release.File.URL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	return "egg-" + release.Version + ".tar.gz"
}
