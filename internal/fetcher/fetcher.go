// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetcher orchestrates dataset downloads: resolve the latest version,
// list its files, stream each one to disk, and record dataset metadata.
package fetcher

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dryad-fetch/internal/dryad"
	"github.com/pdiddy/dryad-fetch/pkg/types"
)

// metadataFile is the per-dataset metadata record written next to the
// downloaded files.
const metadataFile = "dataset.yaml"

// DatasetResult holds the outcome of fetching one dataset.
type DatasetResult struct {
	Dataset         *types.Dataset
	FilesDownloaded int
	FilesSkipped    int
}

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Datasets   []*types.Dataset
}

// Total returns the total number of identifiers processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any datasets failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FetchDataset downloads every file of the identifier's latest version into
// cfg.ParentDir/<identifier>/. Files already present on disk are left alone
// and counted as skipped, so a re-run never corrupts a previous download.
// Status lines go to w.
func FetchDataset(client *dryad.Client, identifier, token string, cfg types.FetchConfig, w io.Writer) (DatasetResult, error) {
	var result DatasetResult

	versionHref, err := client.LatestVersionHref(identifier, token)
	if err != nil {
		return result, fmt.Errorf("resolving %s: %w", identifier, err)
	}

	files, err := client.ListFiles(versionHref, token)
	if err != nil {
		return result, fmt.Errorf("listing files for %s: %w", identifier, err)
	}

	destDir := filepath.Join(cfg.ParentDir, identifier)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return result, fmt.Errorf("creating directory %s: %w", destDir, err)
	}

	for i, f := range files {
		destPath := filepath.Join(destDir, f.Path)

		if _, err := os.Stat(destPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", f.Path)
			result.FilesSkipped++
			continue
		}

		if i > 0 && cfg.DownloadDelay > 0 {
			time.Sleep(cfg.DownloadDelay)
		}

		if err := client.DownloadFile(f.Href, destPath, token, progressPrinter(w)); err != nil {
			return result, fmt.Errorf("downloading %s: %w", f.Path, err)
		}
		fmt.Fprintf(w, "downloaded: %s (%d bytes)\n", f.Path, f.Size)
		result.FilesDownloaded++
	}

	// Metadata is a best-effort enrichment; a fetch failure here must not
	// fail a dataset whose files are already on disk.
	ds, err := client.GetDataset(identifier, token)
	if err != nil {
		fmt.Fprintf(w, "  warning: dataset metadata fetch failed: %v\n", err)
		ds = &types.Dataset{Identifier: identifier, DOI: dryad.DOI(identifier)}
	}
	ds.VersionHref = versionHref
	ds.Files = files

	if err := writeMetadata(ds, filepath.Join(destDir, metadataFile)); err != nil {
		return result, fmt.Errorf("writing metadata for %s: %w", identifier, err)
	}

	result.Dataset = ds
	return result, nil
}

// FetchBatch processes identifiers in order, printing per-item status and
// returning a summary. One identifier's failure does not abort the batch.
func FetchBatch(client *dryad.Client, identifiers []string, token string, cfg types.FetchConfig, w io.Writer) BatchResult {
	var result BatchResult
	for _, id := range identifiers {
		fmt.Fprintf(w, "fetching: %s (%s)\n", id, dryad.DOI(id))

		res, err := FetchDataset(client, id, token, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			result.Failed++
			continue
		}
		if res.FilesDownloaded == 0 && res.FilesSkipped > 0 {
			result.Skipped++
		} else {
			result.Downloaded++
		}
		result.Datasets = append(result.Datasets, res.Dataset)
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// progressPrinter returns a download progress callback that writes a
// percentage line to w, updating only on whole-percent changes to keep the
// output readable.
func progressPrinter(w io.Writer) func(written, total int64) {
	last := -1
	return func(written, total int64) {
		if total <= 0 {
			return
		}
		pct := int(float64(written) / float64(total) * 100)
		if pct != last {
			last = pct
			fmt.Fprintf(w, "  progress: %d%%\r", pct)
		}
	}
}

// writeMetadata writes a Dataset record to a YAML file.
func writeMetadata(ds *types.Dataset, path string) error {
	data, err := yaml.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
