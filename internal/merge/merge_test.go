package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelbrown/releasebase/internal/catalog"
)

func ids(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSamples(t *testing.T) {
	c := Samples()
	assert.Len(t, c.Videos, 2)
	assert.Len(t, c.Audio, 4)
	assert.Len(t, c.Images, 6)
	assert.Len(t, c.Documents, 5)
	assert.Len(t, c.Emails, 2)

	// Each call returns an independent snapshot.
	c.Videos[0].Title = "changed"
	assert.NotEqual(t, "changed", Samples().Videos[0].Title)
}

func TestCuratedIDsAndFields(t *testing.T) {
	m := Manifest{
		Images: []ManifestEntry{{Title: "One", Path: "/curated/images/1.jpg"}, {Title: "Two", Path: "/curated/images/2.jpg"}},
		Audio:  []ManifestEntry{{Title: "Day 1", Path: "/curated/audio/d1.wav"}},
	}
	images, audio := Curated(m)

	require.Len(t, images, 2)
	assert.Equal(t, "curated_img_0", images[0].ID)
	assert.Equal(t, "curated_img_1", images[1].ID)
	assert.Equal(t, "/curated/images/2.jpg", images[1].URL)
	assert.Equal(t, "/curated/images/2.jpg", images[1].ThumbnailURL)
	assert.Equal(t, CuratedSource, images[0].Source)
	assert.Equal(t, catalog.TypeImage, images[0].Type)

	require.Len(t, audio, 1)
	assert.Equal(t, "curated_audio_0", audio[0].ID)
	assert.Equal(t, "/curated/audio/d1.wav", audio[0].URL)
	assert.Equal(t, curatedAudioDescription, audio[0].Description)
}

func TestPrependCuratedGoesFirst(t *testing.T) {
	existing := catalog.Collections{
		Images: []catalog.Item{{ID: "api_1", Type: catalog.TypeImage, URL: "https://x"}},
		Audio:  []catalog.Item{{ID: "api_a", Type: catalog.TypeAudio}},
		Videos: []catalog.Item{{ID: "v"}},
	}
	m := Manifest{
		Images: []ManifestEntry{{Title: "c", Path: "/curated/c.jpg"}},
		Audio:  []ManifestEntry{{Title: "ca", Path: "/curated/ca.wav"}},
	}

	got := PrependCurated(existing, m)
	assert.Equal(t, []string{"curated_img_0", "api_1"}, ids(got.Images))
	assert.Equal(t, []string{"curated_audio_0", "api_a"}, ids(got.Audio))
	assert.Equal(t, []string{"v"}, ids(got.Videos))

	// input untouched
	assert.Equal(t, []string{"api_1"}, ids(existing.Images))
}

func TestGroupDropsUnrenderableImages(t *testing.T) {
	items := []catalog.Item{
		{ID: "1", Type: catalog.TypeVideo},
		{ID: "2", Type: catalog.TypeImage},
		{ID: "3", Type: catalog.TypeImage, ThumbnailURL: "https://t"},
		{ID: "4", Type: catalog.TypeEmail},
		{ID: "5", Type: catalog.TypeDocument},
		{ID: "6", Type: catalog.TypeAudio},
	}
	c := Group(items)
	assert.Equal(t, []string{"1"}, ids(c.Videos))
	assert.Equal(t, []string{"3"}, ids(c.Images))
	assert.Equal(t, []string{"4"}, ids(c.Emails))
	assert.Equal(t, []string{"5"}, ids(c.Documents))
	assert.Equal(t, []string{"6"}, ids(c.Audio))
}

func TestAfterTimeout(t *testing.T) {
	prev := catalog.Collections{
		Videos:    []catalog.Item{{ID: "v"}},
		Audio:     []catalog.Item{{ID: "a"}},
		Images:    []catalog.Item{{ID: "i"}},
		Documents: []catalog.Item{{ID: "d"}},
		Emails:    []catalog.Item{{ID: "e"}},
	}

	got := AfterTimeout(prev, catalog.TabImages)
	assert.Equal(t, []string{"v"}, ids(got.Videos))
	assert.Equal(t, []string{"a"}, ids(got.Audio))
	assert.Empty(t, got.Images)
	assert.Empty(t, got.Documents)
	assert.Empty(t, got.Emails)

	all := AfterTimeout(prev, catalog.TabAll)
	assert.Zero(t, all.Len())

	docs := AfterTimeout(prev, catalog.TabDocuments)
	assert.Equal(t, 3, docs.Len())
	assert.Empty(t, docs.Documents)
}

func TestReplaceIsWholesale(t *testing.T) {
	prev := catalog.Collections{
		Videos: []catalog.Item{{ID: "old_v"}},
		Emails: []catalog.Item{{ID: "old_e"}},
	}
	fresh := catalog.Collections{Images: []catalog.Item{{ID: "new_i"}}}

	got := Replace(prev, fresh)
	assert.Equal(t, []string{"new_i"}, ids(got.Images))
	assert.Empty(t, got.Videos)
	assert.Empty(t, got.Emails)
	assert.NotNil(t, got.Documents)
}
