// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// BaseURL is the Dryad service root. Empty selects the public service;
	// tests point it at a local server.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "dryad-fetch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Credentials holds the Dryad API client-credentials pair. Loaded once at
// startup from the env file and immutable for the life of the process.
type Credentials struct {
	// ClientID is the Dryad application client id.
	ClientID string `json:"client_id" yaml:"client_id"`

	// ClientSecret is the Dryad application client secret.
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
}

// FetchConfig holds settings for dataset fetching.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Credentials authenticate against the Dryad token endpoint.
	Credentials Credentials `json:"credentials" yaml:"credentials"`

	// ParentDir is the base directory for downloads. Each dataset is written
	// to a subdirectory named after its identifier.
	ParentDir string `json:"parent_dir" yaml:"parent_dir"`

	// DownloadDelay is the delay between consecutive file downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// TokenCachePath is where the bearer token is cached between runs.
	// Empty disables caching.
	TokenCachePath string `json:"token_cache_path,omitempty" yaml:"token_cache_path,omitempty"`
}
