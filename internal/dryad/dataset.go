package dryad

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/dryad-fetch/pkg/types"
)

// HAL+JSON structures for the Dryad v2 API.

type halLink struct {
	Href string `json:"href"`
}

type halLinks struct {
	Self halLink `json:"self"`
}

type versionsResponse struct {
	Count    int `json:"count"`
	Embedded struct {
		Versions []struct {
			Links halLinks `json:"_links"`
		} `json:"stash:versions"`
	} `json:"_embedded"`
}

type filesResponse struct {
	Embedded struct {
		Files []struct {
			Path     string   `json:"path"`
			Size     int64    `json:"size"`
			MimeType string   `json:"mimeType"`
			Links    halLinks `json:"_links"`
		} `json:"stash:files"`
	} `json:"_embedded"`
}

type datasetResponse struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Authors  []struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"authors"`
}

// LatestVersionHref resolves an identifier to the API path of its newest
// version. Unknown identifiers surface as ErrNotFound, bad tokens as ErrAuth.
func (c *Client) LatestVersionHref(identifier, token string) (string, error) {
	apiURL := c.datasetURL(identifier, "/versions")

	req, err := c.newAPIRequest(apiURL, token)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("versions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, apiURL)
	}

	var vr versionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return "", fmt.Errorf("parsing versions response: %w", err)
	}

	if vr.Count == 0 || vr.Count > len(vr.Embedded.Versions) {
		return "", fmt.Errorf("%w: no versions for %s", ErrNotFound, DOI(identifier))
	}

	// The versions list is ordered oldest first; the last entry is newest.
	href := vr.Embedded.Versions[vr.Count-1].Links.Self.Href
	if href == "" {
		return "", fmt.Errorf("%w: version record for %s has no self link", ErrNotFound, DOI(identifier))
	}
	return href, nil
}

// ListFiles returns the file descriptors for a dataset version.
func (c *Client) ListFiles(versionHref, token string) ([]types.FileDescriptor, error) {
	apiURL := c.baseURL + versionHref + "/files"

	req, err := c.newAPIRequest(apiURL, token)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("files request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, apiURL)
	}

	var fr filesResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("parsing files response: %w", err)
	}

	files := make([]types.FileDescriptor, 0, len(fr.Embedded.Files))
	for _, f := range fr.Embedded.Files {
		files = append(files, types.FileDescriptor{
			Path:     f.Path,
			Size:     f.Size,
			MimeType: f.MimeType,
			Href:     f.Links.Self.Href,
		})
	}
	return files, nil
}

// GetDataset fetches title, authors, and abstract for an identifier.
func (c *Client) GetDataset(identifier, token string) (*types.Dataset, error) {
	apiURL := c.datasetURL(identifier, "")

	req, err := c.newAPIRequest(apiURL, token)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataset request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, apiURL)
	}

	var dr datasetResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("parsing dataset response: %w", err)
	}

	ds := &types.Dataset{
		Identifier: identifier,
		DOI:        DOI(identifier),
		Title:      strings.TrimSpace(dr.Title),
		Abstract:   strings.TrimSpace(dr.Abstract),
	}
	for _, a := range dr.Authors {
		name := strings.TrimSpace(a.FirstName + " " + a.LastName)
		if name != "" {
			ds.Authors = append(ds.Authors, name)
		}
	}
	return ds, nil
}
