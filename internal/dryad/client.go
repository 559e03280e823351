// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dryad is a client for the Dryad v2 data repository API: token
// exchange, dataset resolution, file listing, and file download.
package dryad

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/dryad-fetch/pkg/types"
)

// defaultBaseURL is the public Dryad service.
const defaultBaseURL = "https://datadryad.org"

// doiPrefix is the fixed prefix combined with an identifier suffix to form
// a full Dryad dataset DOI.
const doiPrefix = "doi:10.5061/dryad."

// Sentinel errors for API failure classes. Callers match with errors.Is.
var (
	// ErrAuth indicates rejected credentials or an invalid/expired token.
	ErrAuth = errors.New("authentication failed")

	// ErrNotFound indicates an identifier that does not resolve to a dataset.
	ErrNotFound = errors.New("dataset not found")
)

// Client wraps HTTP access to the Dryad API. The base URL is configurable so
// tests can point the client at an httptest server.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
}

// New returns a Client using httpClient for transport. An empty
// cfg.BaseURL selects the public Dryad service.
func New(httpClient *http.Client, cfg types.HTTPConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimSuffix(base, "/"),
		userAgent: cfg.UserAgent,
	}
}

// DOI returns the full DOI for a bare identifier suffix (e.g. "8gtht76m1"
// becomes "doi:10.5061/dryad.8gtht76m1").
func DOI(identifier string) string {
	return doiPrefix + identifier
}

// datasetURL returns the API URL for a dataset, with the DOI URL-escaped and
// postfix appended (e.g. "/versions").
func (c *Client) datasetURL(identifier, postfix string) string {
	return c.baseURL + "/api/v2/datasets/" + url.QueryEscape(DOI(identifier)) + postfix
}

// DownloadURL returns the download URL for a file descriptor.
func (c *Client) DownloadURL(f types.FileDescriptor) string {
	return c.downloadURL(f.Href)
}

// downloadURL returns the download URL for a file resource href.
func (c *Client) downloadURL(href string) string {
	return c.baseURL + href + "/download"
}

// statusError maps an unexpected HTTP status to a sentinel-wrapped error.
func statusError(status int, apiURL string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d from %s", ErrAuth, status, apiURL)
	case http.StatusNotFound:
		return fmt.Errorf("%w: HTTP %d from %s", ErrNotFound, status, apiURL)
	default:
		return fmt.Errorf("HTTP %d from %s", status, apiURL)
	}
}

// newAPIRequest builds a GET request with Authorization and User-Agent headers.
func (c *Client) newAPIRequest(apiURL, token string) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}
