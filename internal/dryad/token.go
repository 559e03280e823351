// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dryad

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/dryad-fetch/pkg/types"
)

// tokenTTL is how long a Dryad bearer token stays valid. The cache expiry is
// recorded one minute short so a token is never used at the edge of its life.
const tokenTTL = 10 * time.Hour

// tokenResponse captures the fields we need from the token endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Token returns a bearer token for creds. A valid cached token is reused;
// otherwise the token endpoint is called and the new token cached at
// cachePath. An empty cachePath disables caching.
func (c *Client) Token(creds types.Credentials, cachePath string) (string, error) {
	if cachePath != "" {
		if tok, ok := loadCachedToken(cachePath); ok {
			return tok, nil
		}
	}

	tok, err := c.Authenticate(creds)
	if err != nil {
		return "", err
	}

	if cachePath != "" {
		// Caching is best-effort; the token itself is good.
		if err := cacheToken(cachePath, tok, tokenTTL-time.Minute); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not cache token: %v\n", err)
		}
	}
	return tok, nil
}

// Authenticate exchanges the client-credentials pair for a bearer token.
// Rejected credentials surface as ErrAuth; transport failures are returned
// wrapped.
func (c *Client) Authenticate(creds types.Credentials) (string, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return "", fmt.Errorf("%w: CLIENT_ID and CLIENT_SECRET must be set", ErrAuth)
	}

	form := url.Values{
		"client_id":     {creds.ClientID},
		"client_secret": {creds.ClientSecret},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token endpoint request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d from token endpoint", ErrAuth, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: token endpoint returned no access_token", ErrAuth)
	}
	return tr.AccessToken, nil
}
