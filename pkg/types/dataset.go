// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FileDescriptor describes one file belonging to a dataset version.
type FileDescriptor struct {
	// Path is the filename as recorded by Dryad (e.g. "measurements.csv").
	Path string `json:"path" yaml:"path"`

	// Size is the file size in bytes as reported by the API.
	Size int64 `json:"size" yaml:"size"`

	// MimeType is the file's media type as reported by the API.
	MimeType string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`

	// Href is the API path of the file resource; the binary content lives
	// at Href + "/download".
	Href string `json:"href" yaml:"href"`
}

// Dataset holds metadata and the file inventory for one Dryad dataset.
// Written to dataset.yaml in the dataset's download directory.
type Dataset struct {
	// Identifier is the DOI suffix given on the command line (e.g. "8gtht76m1").
	Identifier string `json:"identifier" yaml:"identifier"`

	// DOI is the full dataset DOI (e.g. "doi:10.5061/dryad.8gtht76m1").
	DOI string `json:"doi" yaml:"doi"`

	// Title is the dataset title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Authors lists the dataset authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Abstract is the dataset abstract.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// VersionHref is the API path of the latest version the files came from.
	VersionHref string `json:"version_href,omitempty" yaml:"version_href,omitempty"`

	// Files lists the files belonging to the latest version.
	Files []FileDescriptor `json:"files" yaml:"files"`
}
