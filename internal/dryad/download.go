// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dryad

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// progressWriter counts bytes as they stream to the underlying writer and
// reports progress through update.
type progressWriter struct {
	w       io.Writer
	total   int64
	written int64
	update  func(written, total int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	if p.update != nil {
		p.update(p.written, p.total)
	}
	return n, err
}

// DownloadFile streams the file at fileHref to destPath. The body is written
// to a temporary file in the destination directory and renamed on success, so
// an interrupted transfer never leaves a truncated file behind. The progress
// callback, when non-nil, receives byte counts as the transfer advances; total
// is the Content-Length, or -1 when the server does not send one.
func (c *Client) DownloadFile(fileHref, destPath, token string, progress func(written, total int64)) error {
	apiURL := c.downloadURL(fileHref)

	req, err := c.newAPIRequest(apiURL, token)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, apiURL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	var dst io.Writer = tmpFile
	if progress != nil {
		dst = &progressWriter{w: tmpFile, total: resp.ContentLength, update: progress}
	}

	_, copyErr := io.Copy(dst, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
