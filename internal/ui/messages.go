// Package ui provides the Bubble Tea TUI for releasebase.
package ui

import (
	"github.com/abelbrown/releasebase/internal/catalog"
	"github.com/abelbrown/releasebase/internal/merge"
)

// DocumentsLoaded carries the normalized result of one bulk fetch.
// RequestID correlates it with the fetch that produced it; a reply for any
// other id is stale and ignored.
type DocumentsLoaded struct {
	RequestID string
	Tab       catalog.Tab
	Items     []catalog.Item
	Skipped   int // records the normalizer rejected
	Err       error
}

// PeopleLoaded carries the person facets for the image tabs.
type PeopleLoaded struct {
	People []catalog.PersonFacet
	Err    error
}

// StatsLoaded carries the aggregate counters.
type StatsLoaded struct {
	Stats catalog.StatsSummary
	Err   error
}

// ManifestLoaded carries the curated manifest.
type ManifestLoaded struct {
	Manifest merge.Manifest
	Err      error
}

// enterTabMsg switches to Tab and starts its fetch. Init sends one for the
// starting tab so the first fetch goes through the same path as a tab key.
type enterTabMsg struct {
	Tab catalog.Tab
}
