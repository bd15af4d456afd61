// SPDX-License-Identifier: MPL-2.0

// Package hatchery implements an HTTP client for the hatchery egg registry.
// It covers the three read endpoints eggfetch needs:
//   - client.go: HTTP plumbing (options, headers, capped JSON decode)
//   - manifest.go: release manifest decoding and version resolution
//   - search.go: egg summary listings for the search endpoint
package hatchery
