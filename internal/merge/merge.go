// Package merge combines the three origins of catalog items (embedded
// samples, the curated manifest and live API results) into one
// catalog.Collections snapshot.
//
// All functions return new snapshots; input slices are never modified.
package merge

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/abelbrown/releasebase/internal/catalog"
)

//go:embed samples.json
var samplesJSON []byte

// Curated defaults, carried over from the static release page.
const (
	CuratedSource           = "DOJ"
	curatedAudioDate        = "July 24-25, 2025"
	curatedAudioDescription = "Maxwell proffer session recording"
)

// Samples returns the embedded fallback collections shown before the API
// answers.
func Samples() catalog.Collections {
	var c catalog.Collections
	if err := json.Unmarshal(samplesJSON, &c); err != nil {
		panic(fmt.Sprintf("merge: embedded samples are invalid: %v", err))
	}
	return c
}

// ManifestEntry is one curated asset.
type ManifestEntry struct {
	Title string `json:"title" yaml:"title"`
	Path  string `json:"path" yaml:"path"`
}

// Manifest is /curated/manifest.json. Paths are directly usable URLs.
type Manifest struct {
	Images []ManifestEntry `json:"images" yaml:"images"`
	Audio  []ManifestEntry `json:"audio" yaml:"audio"`
}

// Curated maps manifest entries onto minimal items with deterministic ids
// (curated_img_<i>, curated_audio_<i>).
func Curated(m Manifest) (images, audio []catalog.Item) {
	images = make([]catalog.Item, 0, len(m.Images))
	for i, e := range m.Images {
		images = append(images, catalog.Item{
			ID:           fmt.Sprintf("curated_img_%d", i),
			Type:         catalog.TypeImage,
			Title:        e.Title,
			Source:       CuratedSource,
			URL:          e.Path,
			ThumbnailURL: e.Path,
		})
	}

	audio = make([]catalog.Item, 0, len(m.Audio))
	for i, e := range m.Audio {
		audio = append(audio, catalog.Item{
			ID:          fmt.Sprintf("curated_audio_%d", i),
			Type:        catalog.TypeAudio,
			Title:       e.Title,
			Source:      CuratedSource,
			URL:         e.Path,
			Date:        curatedAudioDate,
			Description: curatedAudioDescription,
		})
	}
	return images, audio
}

// PrependCurated puts curated images and audio ahead of whatever c already
// holds for those types.
func PrependCurated(c catalog.Collections, m Manifest) catalog.Collections {
	images, audio := Curated(m)
	c = c.With(catalog.TypeImage, slices.Concat(images, c.Images))
	c = c.With(catalog.TypeAudio, slices.Concat(audio, c.Audio))
	return c
}

// Group regroups normalized items by type, preserving order. Images without
// any media reference are dropped here so they never reach a renderer.
func Group(items []catalog.Item) catalog.Collections {
	c := catalog.Collections{
		Videos:    []catalog.Item{},
		Audio:     []catalog.Item{},
		Images:    []catalog.Item{},
		Documents: []catalog.Item{},
		Emails:    []catalog.Item{},
	}
	for _, it := range items {
		if !it.Renderable() {
			continue
		}
		switch it.Type {
		case catalog.TypeVideo:
			c.Videos = append(c.Videos, it)
		case catalog.TypeAudio:
			c.Audio = append(c.Audio, it)
		case catalog.TypeImage:
			c.Images = append(c.Images, it)
		case catalog.TypeEmail:
			c.Emails = append(c.Emails, it)
		default:
			c.Documents = append(c.Documents, it)
		}
	}
	return c
}

// Empty returns collections with every slot present and empty.
func Empty() catalog.Collections {
	return Group(nil)
}

// Replace swaps in fresh wholesale. Nothing from prev survives; nil slots in
// fresh come back as empty slices.
func Replace(_ catalog.Collections, fresh catalog.Collections) catalog.Collections {
	next := Empty()
	for _, t := range catalog.Types() {
		if items := fresh.Slot(t); items != nil {
			next = next.With(t, items)
		}
	}
	return next
}

// AfterTimeout is the fallback when a bulk fetch for tab exceeds its budget.
// Slots the fetch was loading are emptied, as are documents and emails; the
// other slots keep what prev already held.
func AfterTimeout(prev catalog.Collections, tab catalog.Tab) catalog.Collections {
	next := Empty()
	fetching := tab.FetchType()
	for _, t := range []catalog.Type{catalog.TypeVideo, catalog.TypeAudio, catalog.TypeImage} {
		if fetching == "" || fetching == t {
			continue
		}
		if held := prev.Slot(t); held != nil {
			next = next.With(t, held)
		}
	}
	return next
}
