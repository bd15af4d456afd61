// SPDX-License-Identifier: MPL-2.0

package install

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"eggfetch/internal/platform"
)

const (
	// maxEntryBytes is the upper bound on a single extracted file (500 MB).
	// Prevents decompression bombs hidden inside an egg archive.
	maxEntryBytes = 500 << 20

	// maxEntries bounds the number of archive entries processed, so a crafted
	// archive cannot exhaust inodes or file descriptors.
	maxEntries = 10000
)

var (
	// ErrUnsafePath indicates an archive entry would escape the target directory.
	ErrUnsafePath = errors.New("unsafe path in archive")

	// ErrEntryTooLarge indicates an archive entry exceeds the per-file size cap.
	ErrEntryTooLarge = errors.New("archive entry exceeds size limit")
)

// extractArchive unpacks the tar (optionally gzip-compressed) archive at
// archivePath into targetDir and returns the extracted file paths, relative
// to targetDir, plus the total number of bytes written.
//
// Gzip compression is detected by sniffing the stream rather than trusting
// the filename, so .tar, .tar.gz and .tgz archives all extract the same way.
func extractArchive(archivePath, targetDir string) (_ []string, _ int64, err error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, 0, fmt.Errorf("opening archive: %w", err)
	}
	defer func() {
		// Read-only file handle; close errors are exotic.
		_ = f.Close()
	}()

	r, err := maybeGunzip(f)
	if err != nil {
		return nil, 0, err
	}

	var (
		extracted []string
		total     int64
	)

	tr := tar.NewReader(r)
	for entries := 0; ; entries++ {
		if entries >= maxEntries {
			return nil, 0, fmt.Errorf("archive has more than %d entries", maxEntries)
		}

		hdr, nextErr := tr.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			return nil, 0, fmt.Errorf("reading tar entry: %w", nextErr)
		}

		rel, pathErr := safeRelPath(hdr.Name)
		if pathErr != nil {
			return nil, 0, pathErr
		}
		if rel == "." {
			continue
		}
		if runtime.GOOS == "windows" && platform.IsReservedFileName(filepath.Base(rel)) {
			// Device names like CON or COM1 cannot be created on Windows.
			continue
		}
		dest := filepath.Join(targetDir, rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if mkErr := os.MkdirAll(dest, dirMode(hdr)); mkErr != nil {
				return nil, 0, fmt.Errorf("creating directory %s: %w", rel, mkErr)
			}

		case tar.TypeReg:
			n, wrErr := writeEntry(tr, dest, hdr)
			if wrErr != nil {
				return nil, 0, fmt.Errorf("extracting %s: %w", rel, wrErr)
			}
			extracted = append(extracted, rel)
			total += n

		default:
			// Symlinks, devices, FIFOs and the like are not meaningful for
			// egg payloads; skip them rather than failing the install.
			continue
		}
	}

	return extracted, total, nil
}

// maybeGunzip wraps r in a gzip reader when the stream starts with the gzip
// magic bytes, and returns it unchanged otherwise.
func maybeGunzip(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(2)
	if err != nil {
		return nil, fmt.Errorf("reading archive header: %w", err)
	}

	if magic[0] != 0x1f || magic[1] != 0x8b {
		return br, nil
	}

	gz, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	return gz, nil
}

// safeRelPath validates and normalizes a tar entry name, rejecting absolute
// paths and any path that climbs out of the extraction root (Zip-Slip).
func safeRelPath(name string) (string, error) {
	// Tar names use forward slashes regardless of platform.
	clean := filepath.Clean(filepath.FromSlash(name))

	if filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: %q is absolute", ErrUnsafePath, name)
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes the target directory", ErrUnsafePath, name)
	}

	return clean, nil
}

// writeEntry copies one regular-file entry to dest, creating parent
// directories as needed and preserving the entry's mode bits.
func writeEntry(tr io.Reader, dest string, hdr *tar.Header) (_ int64, err error) {
	if hdr.Size > maxEntryBytes {
		return 0, fmt.Errorf("%w: %d bytes", ErrEntryTooLarge, hdr.Size)
	}

	if mkErr := os.MkdirAll(filepath.Dir(dest), 0o755); mkErr != nil {
		return 0, fmt.Errorf("creating parent directory: %w", mkErr)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode(hdr))
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	// Copy one byte past the cap so oversized entries are detected even when
	// the header lied about the size.
	n, err := io.Copy(out, io.LimitReader(tr, maxEntryBytes+1))
	if err != nil {
		return 0, fmt.Errorf("writing file: %w", err)
	}
	if n > maxEntryBytes {
		return 0, fmt.Errorf("%w: %d bytes", ErrEntryTooLarge, n)
	}

	return n, nil
}

// fileMode returns the permission bits for a regular-file entry, defaulting
// to 0644 when the archive carries none.
func fileMode(hdr *tar.Header) fs.FileMode {
	mode := hdr.FileInfo().Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	return mode
}

// dirMode returns the permission bits for a directory entry, defaulting to
// 0755 when the archive carries none.
func dirMode(hdr *tar.Header) fs.FileMode {
	mode := hdr.FileInfo().Mode().Perm()
	if mode == 0 {
		mode = 0o755
	}
	return mode
}
