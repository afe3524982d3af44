package domain

import "time"

// markerPrefix is the fixed first-line prefix of every archival commit.
// The history ledger searches for it, so the format is frozen.
const markerPrefix = "Add metadata for "

// Marker returns the commit message first line that records tag as processed.
func Marker(tag string) string {
	return markerPrefix + tag
}

// VersionTag identifies a release tag in the source repository.
type VersionTag struct {
	Name string
	Hash string
	When time.Time
}

// FileSpec describes one file tracked across releases: where it lives in the
// source repository, where its copy lands in the tracking repository, and the
// label used for it in commit messages.
type FileSpec struct {
	Source string
	Dest   string
	Label  string
}

// ExtractionResult holds the per-tag outcome of the extractor as ordered
// label lists. A label lands in Missing on any read failure; file-gone and
// read-error are deliberately not distinguished.
type ExtractionResult struct {
	Extracted []string
	Missing   []string
}
