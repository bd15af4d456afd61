// SPDX-License-Identifier: MPL-2.0

package hatchery

import (
	"errors"
	"strings"
	"testing"
)

func TestManifest_Versions_NumericDescending(t *testing.T) {
	t.Parallel()

	m := Manifest{
		"2":  {{URL: "https://cdn.example.org/egg-2.tar.gz"}},
		"10": {{URL: "https://cdn.example.org/egg-10.tar.gz"}},
		"1":  {{URL: "https://cdn.example.org/egg-1.tar.gz"}},
	}

	got := m.Versions()
	want := []string{"10", "2", "1"}

	if len(got) != len(want) {
		t.Fatalf("got %d versions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("versions[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestManifest_Versions_NonNumericSortLast(t *testing.T) {
	t.Parallel()

	m := Manifest{
		"beta": {{URL: "https://cdn.example.org/egg-beta.tar.gz"}},
		"3":    {{URL: "https://cdn.example.org/egg-3.tar.gz"}},
		"alfa": {{URL: "https://cdn.example.org/egg-alfa.tar.gz"}},
	}

	got := m.Versions()
	want := []string{"3", "alfa", "beta"}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("versions[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestManifest_Latest_PicksNumericMax(t *testing.T) {
	t.Parallel()

	m := Manifest{
		"1": {{URL: "https://cdn.example.org/egg-1.tar.gz"}},
		"3": {{URL: "https://cdn.example.org/egg-3.tar.gz"}},
		"2": {{URL: "https://cdn.example.org/egg-2.tar.gz"}},
	}

	release, err := m.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if release.Version != "3" {
		t.Errorf("Version = %q, want %q", release.Version, "3")
	}
	if release.File.URL != "https://cdn.example.org/egg-3.tar.gz" {
		t.Errorf("File.URL = %q, want the version 3 URL", release.File.URL)
	}
}

func TestManifest_Latest_IgnoresNonNumericAndEmpty(t *testing.T) {
	t.Parallel()

	m := Manifest{
		// Numerically larger but not a revision number.
		"99-beta": {{URL: "https://cdn.example.org/egg-beta.tar.gz"}},
		// Highest revision, but no installable files.
		"7": {},
		"5": {{URL: "https://cdn.example.org/egg-5.tar.gz"}},
	}

	release, err := m.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if release.Version != "5" {
		t.Errorf("Version = %q, want %q", release.Version, "5")
	}
}

func TestManifest_Latest_NoReleases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest Manifest
	}{
		{"empty manifest", Manifest{}},
		{"only non-numeric keys", Manifest{"beta": {{URL: "https://cdn.example.org/x.tar.gz"}}}},
		{"only empty file lists", Manifest{"1": {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.manifest.Latest()
			if !errors.Is(err, ErrNoReleases) {
				t.Errorf("got %v, want ErrNoReleases", err)
			}
		})
	}
}

func TestManifest_Resolve_Pinned(t *testing.T) {
	t.Parallel()

	m := Manifest{
		"1": {{URL: "https://cdn.example.org/egg-1.tar.gz"}},
		"2": {{URL: "https://cdn.example.org/egg-2.tar.gz"}},
	}

	release, err := m.Resolve("1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if release.Version != "1" {
		t.Errorf("Version = %q, want %q", release.Version, "1")
	}
}

func TestManifest_Resolve_EmptyMeansLatest(t *testing.T) {
	t.Parallel()

	m := Manifest{
		"1": {{URL: "https://cdn.example.org/egg-1.tar.gz"}},
		"4": {{URL: "https://cdn.example.org/egg-4.tar.gz"}},
	}

	release, err := m.Resolve("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if release.Version != "4" {
		t.Errorf("Version = %q, want %q", release.Version, "4")
	}
}

func TestManifest_Resolve_UnknownVersion(t *testing.T) {
	t.Parallel()

	m := Manifest{
		"1": {{URL: "https://cdn.example.org/egg-1.tar.gz"}},
	}

	_, err := m.Resolve("9")
	if !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("got %v, want ErrVersionNotFound", err)
	}
	if !strings.Contains(err.Error(), "available: 1") {
		t.Errorf("error should list the published versions, got %q", err)
	}
}

func TestPickArchive_PrefersTarSuffix(t *testing.T) {
	t.Parallel()

	files := []ReleaseFile{
		{URL: "https://cdn.example.org/icon.png"},
		{URL: "https://cdn.example.org/egg.TAR.GZ"},
		{URL: "https://cdn.example.org/other.tgz"},
	}

	got := pickArchive(files)
	if got.URL != "https://cdn.example.org/egg.TAR.GZ" {
		t.Errorf("pickArchive chose %q, want the first tar archive", got.URL)
	}
}

func TestPickArchive_FallsBackToFirst(t *testing.T) {
	t.Parallel()

	files := []ReleaseFile{
		{URL: "https://cdn.example.org/payload.bin"},
		{URL: "https://cdn.example.org/extra.bin"},
	}

	got := pickArchive(files)
	if got.URL != "https://cdn.example.org/payload.bin" {
		t.Errorf("pickArchive chose %q, want the first entry", got.URL)
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	t.Parallel()

	_, err := parseManifest(strings.NewReader(`["not", "an", "object"]`))
	if err == nil {
		t.Fatal("expected a decode error for a JSON array")
	}
}

func TestParseRevision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"0", 0, true},
		{"12", 12, true},
		{" 3 ", 3, true},
		{"-1", 0, false},
		{"1.2", 0, false},
		{"beta", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseRevision(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseRevision(%q) = (%d, %t), want (%d, %t)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
