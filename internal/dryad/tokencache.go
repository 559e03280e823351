// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dryad

import (
	"encoding/json"
	"os"
	"time"
)

// cachedToken is the on-disk token cache record.
type cachedToken struct {
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

// loadCachedToken returns the cached token at path if it has not expired.
// A missing, corrupt, or expired cache file is a miss, never an error;
// expired files are removed.
func loadCachedToken(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	var c cachedToken
	if err := json.Unmarshal(data, &c); err != nil || c.Token == "" {
		return "", false
	}

	if !time.Now().Before(c.Expiry) {
		os.Remove(path)
		return "", false
	}
	return c.Token, true
}

// cacheToken writes token to path with an expiry ttl from now.
func cacheToken(path, token string, ttl time.Duration) error {
	c := cachedToken{
		Token:  token,
		Expiry: time.Now().Add(ttl),
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
