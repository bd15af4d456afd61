// SPDX-License-Identifier: MPL-2.0

// Package install turns a resolved egg release into files on disk.
// It is organized into three concerns:
//   - installer.go: Installer type composing the registry client for the
//     end-to-end resolve, download, verify, extract flow
//   - checksum.go: SHA256 digest computation and verification
//   - archive.go: streaming tar/tar.gz extraction with traversal protection
package install
