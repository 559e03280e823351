// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dryad

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/dryad-fetch/pkg/types"
)

const (
	testClientID     = "dryad-client"
	testClientSecret = "s3cret"
	testToken        = "tok-abc"
)

const sampleVersionsJSON = `{
  "count": 2,
  "_embedded": {
    "stash:versions": [
      {"_links": {"self": {"href": "/api/v2/versions/41"}}},
      {"_links": {"self": {"href": "/api/v2/versions/42"}}}
    ]
  }
}`

const sampleFilesJSON = `{
  "_embedded": {
    "stash:files": [
      {"path": "a.csv", "size": 120, "mimeType": "text/csv",
       "_links": {"self": {"href": "/api/v2/files/1"}}},
      {"path": "b.csv", "size": 340, "mimeType": "text/csv",
       "_links": {"self": {"href": "/api/v2/files/2"}}}
    ]
  }
}`

const sampleDatasetJSON = `{
  "title": "Test Dataset Title",
  "abstract": "A dataset used in tests.",
  "authors": [
    {"firstName": "Alice", "lastName": "Smith"},
    {"firstName": "Bob", "lastName": "Jones"}
  ]
}`

var (
	fileContentA = strings.Repeat("a", 120)
	fileContentB = strings.Repeat("b", 340)
)

// newTestServer serves a fake Dryad API: token endpoint, one known dataset
// ("8gtht76m1") with two versions and two files, and per-file downloads.
// Every other identifier is unknown.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "bad form", http.StatusBadRequest)
				return
			}
			if r.Form.Get("client_id") != testClientID ||
				r.Form.Get("client_secret") != testClientSecret ||
				r.Form.Get("grant_type") != "client_credentials" {
				http.Error(w, "invalid client", http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"access_token": %q, "token_type": "bearer", "expires_in": 36000}`, testToken)
			return
		}

		if r.Header.Get("Authorization") != "Bearer "+testToken {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// The DOI arrives percent-encoded; net/http decodes it into Path.
		switch r.URL.Path {
		case "/api/v2/datasets/doi:10.5061/dryad.8gtht76m1":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, sampleDatasetJSON)
		case "/api/v2/datasets/doi:10.5061/dryad.8gtht76m1/versions":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, sampleVersionsJSON)
		case "/api/v2/versions/42/files":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, sampleFilesJSON)
		case "/api/v2/files/1/download":
			fmt.Fprint(w, fileContentA)
		case "/api/v2/files/2/download":
			fmt.Fprint(w, fileContentB)
		default:
			http.NotFound(w, r)
		}
	}))
}

func testClient(ts *httptest.Server) *Client {
	return New(ts.Client(), types.HTTPConfig{
		BaseURL:   ts.URL,
		Timeout:   10 * time.Second,
		UserAgent: "dryad-fetch-test/0.1",
	})
}

func testCreds() types.Credentials {
	return types.Credentials{ClientID: testClientID, ClientSecret: testClientSecret}
}

func TestDOI(t *testing.T) {
	got := DOI("8gtht76m1")
	want := "doi:10.5061/dryad.8gtht76m1"
	if got != want {
		t.Errorf("DOI = %q, want %q", got, want)
	}
}

func TestDatasetURLEncoding(t *testing.T) {
	c := New(http.DefaultClient, types.HTTPConfig{})
	got := c.datasetURL("8gtht76m1", "/versions")
	want := "https://datadryad.org/api/v2/datasets/doi%3A10.5061%2Fdryad.8gtht76m1/versions"
	if got != want {
		t.Errorf("datasetURL = %q, want %q", got, want)
	}
}

func TestDownloadURL(t *testing.T) {
	c := New(http.DefaultClient, types.HTTPConfig{})
	got := c.DownloadURL(types.FileDescriptor{Href: "/api/v2/files/1"})
	want := "https://datadryad.org/api/v2/files/1/download"
	if got != want {
		t.Errorf("DownloadURL = %q, want %q", got, want)
	}
}

func TestAuthenticate(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	tok, err := testClient(ts).Authenticate(testCreds())
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if tok != testToken {
		t.Errorf("token = %q, want %q", tok, testToken)
	}
}

func TestAuthenticateRejectedCredentials(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	_, err := testClient(ts).Authenticate(types.Credentials{ClientID: "wrong", ClientSecret: "nope"})
	if err == nil {
		t.Fatal("expected error for rejected credentials")
	}
	if !errors.Is(err, ErrAuth) {
		t.Errorf("error = %v, want ErrAuth", err)
	}
}

func TestAuthenticateMissingCredentials(t *testing.T) {
	// No server: missing credentials must fail before any network call.
	c := New(http.DefaultClient, types.HTTPConfig{})
	_, err := c.Authenticate(types.Credentials{})
	if !errors.Is(err, ErrAuth) {
		t.Errorf("error = %v, want ErrAuth", err)
	}
}

func TestTokenUsesCache(t *testing.T) {
	tokenCalls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/token" {
			http.NotFound(w, r)
			return
		}
		tokenCalls++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token": %q, "token_type": "bearer", "expires_in": 36000}`, testToken)
	}))
	defer ts.Close()

	cachePath := filepath.Join(t.TempDir(), ".token_cache.json")
	c := testClient(ts)

	tok, err := c.Token(testCreds(), cachePath)
	if err != nil {
		t.Fatalf("Token (cold): %v", err)
	}
	if tok != testToken {
		t.Errorf("token = %q, want %q", tok, testToken)
	}
	if tokenCalls != 1 {
		t.Fatalf("token endpoint calls = %d, want 1", tokenCalls)
	}

	tok, err = c.Token(testCreds(), cachePath)
	if err != nil {
		t.Fatalf("Token (warm): %v", err)
	}
	if tok != testToken {
		t.Errorf("cached token = %q, want %q", tok, testToken)
	}
	if tokenCalls != 1 {
		t.Errorf("token endpoint calls after cache hit = %d, want 1", tokenCalls)
	}
}

func TestLatestVersionHref(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	href, err := testClient(ts).LatestVersionHref("8gtht76m1", testToken)
	if err != nil {
		t.Fatalf("LatestVersionHref: %v", err)
	}
	if href != "/api/v2/versions/42" {
		t.Errorf("href = %q, want %q", href, "/api/v2/versions/42")
	}
}

func TestLatestVersionHrefNotFound(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	_, err := testClient(ts).LatestVersionHref("does-not-exist", testToken)
	if err == nil {
		t.Fatal("expected error for unknown identifier")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestLatestVersionHrefBadToken(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	_, err := testClient(ts).LatestVersionHref("8gtht76m1", "expired-token")
	if err == nil {
		t.Fatal("expected error for bad token")
	}
	if !errors.Is(err, ErrAuth) {
		t.Errorf("error = %v, want ErrAuth", err)
	}
}

func TestListFiles(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	files, err := testClient(ts).ListFiles("/api/v2/versions/42", testToken)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if files[0].Path != "a.csv" || files[0].Size != 120 {
		t.Errorf("files[0] = %+v, want a.csv with 120 bytes", files[0])
	}
	if files[1].Path != "b.csv" || files[1].Size != 340 {
		t.Errorf("files[1] = %+v, want b.csv with 340 bytes", files[1])
	}
	if files[0].Href != "/api/v2/files/1" {
		t.Errorf("files[0].Href = %q, want %q", files[0].Href, "/api/v2/files/1")
	}
	if files[0].MimeType != "text/csv" {
		t.Errorf("files[0].MimeType = %q, want %q", files[0].MimeType, "text/csv")
	}
}

func TestGetDataset(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	ds, err := testClient(ts).GetDataset("8gtht76m1", testToken)
	if err != nil {
		t.Fatalf("GetDataset: %v", err)
	}
	if ds.Title != "Test Dataset Title" {
		t.Errorf("Title = %q, want %q", ds.Title, "Test Dataset Title")
	}
	if len(ds.Authors) != 2 || ds.Authors[0] != "Alice Smith" {
		t.Errorf("Authors = %v, want [Alice Smith, Bob Jones]", ds.Authors)
	}
	if ds.DOI != "doi:10.5061/dryad.8gtht76m1" {
		t.Errorf("DOI = %q", ds.DOI)
	}
}

func TestDownloadFile(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	dir := t.TempDir()
	destPath := filepath.Join(dir, "a.csv")

	var lastWritten, lastTotal int64
	err := testClient(ts).DownloadFile("/api/v2/files/1", destPath, testToken, func(written, total int64) {
		lastWritten, lastTotal = written, total
	})
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}

	data, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("reading download: %v", err)
	}
	if string(data) != fileContentA {
		t.Errorf("content length = %d, want %d", len(data), len(fileContentA))
	}

	if lastWritten != int64(len(fileContentA)) {
		t.Errorf("progress written = %d, want %d", lastWritten, len(fileContentA))
	}
	if lastTotal != int64(len(fileContentA)) {
		t.Errorf("progress total = %d, want %d", lastTotal, len(fileContentA))
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".fetch-") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestDownloadFileNotFound(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	destPath := filepath.Join(t.TempDir(), "missing.csv")
	err := testClient(ts).DownloadFile("/api/v2/files/999", destPath, testToken, nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if _, statErr := os.Stat(destPath); statErr == nil {
		t.Error("destination file should not exist after failed download")
	}
}
