// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eggfetch/internal/hatchery"
)

func TestRunInfo_ListsVersions(t *testing.T) {
	t.Parallel()

	manifest := hatchery.Manifest{
		"1": {{URL: "https://cdn.example.org/clock-1.tar.gz", Size: 100}},
		"3": {{URL: "https://cdn.example.org/clock-3.tar.gz", Size: 300}},
		"2": {{URL: "https://cdn.example.org/clock-2.tar.gz", Size: 200}},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(manifest); err != nil {
			t.Errorf("encoding manifest: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	var stdout bytes.Buffer
	p := infoParams{
		stdout: &stdout,
		client: hatchery.NewClient(hatchery.WithBaseURL(srv.URL)),
		name:   "clock",
	}

	if err := runInfo(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"version 3", "version 2", "version 1", "(latest)", "clock-3.tar.gz"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Versions print in descending order: 3 before 2 before 1.
	if strings.Index(out, "version 3") > strings.Index(out, "version 1") {
		t.Errorf("versions not in descending order:\n%s", out)
	}
}

func TestRunInfo_EmptyManifest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	var stdout bytes.Buffer
	p := infoParams{
		stdout: &stdout,
		client: hatchery.NewClient(hatchery.WithBaseURL(srv.URL)),
		name:   "clock",
	}

	if err := runInfo(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "No published versions") {
		t.Errorf("output = %q", stdout.String())
	}
}
