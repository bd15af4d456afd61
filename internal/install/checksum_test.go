// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// sha256 of the ASCII string "hello world".
const helloWorldSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "payload")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestComputeFileHash(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "hello world")

	got, err := ComputeFileHash(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != helloWorldSHA256 {
		t.Errorf("hash = %q, want %q", got, helloWorldSHA256)
	}
}

func TestComputeFileHash_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := ComputeFileHash(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestVerifyFile_Match(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "hello world")

	if err := VerifyFile(path, helloWorldSHA256); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	// Comparison is case-insensitive.
	upper := "B94D27B9934D3E08A52E52D7DA7DABFAC484EFE37A5380EE9088F7ACE2EFCDE9"
	if err := VerifyFile(path, upper); err != nil {
		t.Errorf("uppercase hash: unexpected error: %v", err)
	}
}

func TestVerifyFile_Mismatch(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "tampered contents")

	err := VerifyFile(path, helloWorldSHA256)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("got %v, want ErrChecksumMismatch", err)
	}

	var checksumErr *ChecksumError
	if !errors.As(err, &checksumErr) {
		t.Fatalf("got %T, want *ChecksumError", err)
	}
	if checksumErr.Expected != helloWorldSHA256 {
		t.Errorf("Expected = %q, want %q", checksumErr.Expected, helloWorldSHA256)
	}
	if checksumErr.Got == helloWorldSHA256 {
		t.Error("Got should differ from the expected hash")
	}
}

func TestIsValidHexHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{helloWorldSHA256, true},
		{"B94D27B9934D3E08A52E52D7DA7DABFAC484EFE37A5380EE9088F7ACE2EFCDE9", true},
		{"abc123", false},
		{"zzzd27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isValidHexHash(tt.in); got != tt.want {
			t.Errorf("isValidHexHash(%q) = %t, want %t", tt.in, got, tt.want)
		}
	}
}
