// SPDX-License-Identifier: MPL-2.0

package hatchery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// defaultBaseURL is the production hatchery endpoint.
	defaultBaseURL = "https://badge.team"

	// maxJSONResponseBytes is the upper bound on JSON API response size (10 MB).
	// Prevents unbounded memory consumption from malicious or malformed responses.
	maxJSONResponseBytes = 10 << 20
)

// ErrEggNotFound is returned when the registry has no egg with the requested name.
var ErrEggNotFound = errors.New("egg not found")

type (
	// StatusError is returned when the registry answers with an unexpected
	// HTTP status. It preserves the status code so callers can classify
	// failures without string matching.
	StatusError struct {
		URL        string
		StatusCode int
	}

	// Client queries the hatchery registry for egg metadata and archive downloads.
	Client struct {
		httpClient *http.Client
		baseURL    string // registry base URL (default: "https://badge.team", overridable for tests)
		userAgent  string // User-Agent header value
		logger     *log.Logger
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// Error formats the unexpected status as a human-readable message.
func (e *StatusError) Error() string {
	return fmt.Sprintf("registry request %s: unexpected status %d", redactURL(e.URL), e.StatusCode)
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *Client) {
		h.httpClient = c
	}
}

// WithBaseURL overrides the registry base URL, primarily for test servers
// and self-hosted hatcheries.
func WithBaseURL(base string) ClientOption {
	return func(h *Client) {
		h.baseURL = strings.TrimRight(base, "/")
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(h *Client) {
		h.userAgent = ua
	}
}

// WithLogger sets the logger used for request-level debug output.
func WithLogger(l *log.Logger) ClientOption {
	return func(h *Client) {
		h.logger = l
	}
}

// NewClient creates a Client with sensible defaults.
// Defaults: baseURL="https://badge.team", userAgent="eggfetch/dev",
// httpClient=http.DefaultClient, logger discarding all output.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		userAgent:  "eggfetch/dev",
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the registry base URL the client is configured against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetManifest fetches the release manifest for the named egg.
// Returns ErrEggNotFound when the registry answers 404.
func (c *Client) GetManifest(ctx context.Context, name string) (Manifest, error) {
	manifestURL := fmt.Sprintf("%s/eggs/get/%s/json", c.baseURL, url.PathEscape(name))

	resp, err := c.doRequest(ctx, manifestURL)
	if err != nil {
		return nil, fmt.Errorf("getting manifest for %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("egg %q: %w", name, ErrEggNotFound)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: manifestURL, StatusCode: resp.StatusCode}
	}

	m, err := parseManifest(io.LimitReader(resp.Body, maxJSONResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("getting manifest for %s: %w", name, err)
	}

	c.logger.Debug("fetched manifest", "egg", name, "versions", len(m))
	return m, nil
}

// Search queries the registry for eggs matching the given query string and
// returns their summaries unordered, as served by the registry.
func (c *Client) Search(ctx context.Context, query string) ([]EggSummary, error) {
	searchURL := fmt.Sprintf("%s/eggs/search/%s/json", c.baseURL, url.PathEscape(query))

	resp, err := c.doRequest(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: searchURL, StatusCode: resp.StatusCode}
	}

	var results []EggSummary
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(&results); err != nil {
		return nil, fmt.Errorf("searching for %q: decoding response: %w", query, err)
	}

	c.logger.Debug("search complete", "query", query, "results", len(results))
	return results, nil
}

// Download fetches the archive at the given URL and returns the response body
// as a streaming reader. The caller is responsible for closing the returned
// ReadCloser.
func (c *Client) Download(ctx context.Context, archiveURL string) (io.ReadCloser, error) {
	resp, err := c.doRequest(ctx, archiveURL)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", redactURL(archiveURL), err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{URL: archiveURL, StatusCode: resp.StatusCode}
	}

	c.logger.Debug("download started", "url", redactURL(archiveURL), "length", resp.ContentLength)
	return resp.Body, nil
}

// doRequest creates and executes an HTTP GET with common registry headers.
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return resp, nil
}

// redactURL strips query parameters and fragments from a URL for safe inclusion
// in error messages, preventing accidental exposure of signed URL parameters.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
