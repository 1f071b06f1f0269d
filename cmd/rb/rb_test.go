package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/abelbrown/releasebase/internal/catalog"
	"github.com/abelbrown/releasebase/internal/coord"
	"github.com/abelbrown/releasebase/internal/fixture"
	"github.com/abelbrown/releasebase/internal/otel"
)

// runRB executes the root command against a fixture backend with an
// isolated home directory.
func runRB(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RELEASEBASE_HOME", t.TempDir())

	srv, err := fixture.New()
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--api", ts.URL))
	err = cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListImagesJSON(t *testing.T) {
	out, err := runRB(t, "list", "--tab", "images", "-o", "json")
	require.NoError(t, err)

	var snap coord.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, catalog.TabImages, snap.Tab)
	assert.Equal(t, 14, snap.Stats.Total)
	assert.Len(t, snap.People, 2)
	// curated images are prepended, then people-first ordering moves the
	// two tagged photos to the front
	imgs := snap.Collections.Images
	require.Len(t, imgs, 5)
	assert.Equal(t, "301", imgs[0].ID)
	assert.Equal(t, "302", imgs[1].ID)
	assert.Equal(t, "curated_img_0", imgs[2].ID)
}

func TestListPersonFacet(t *testing.T) {
	out, err := runRB(t, "list", "--tab", "images", "--person", "Bob Example", "-o", "yaml")
	require.NoError(t, err)

	var snap coord.Snapshot
	require.NoError(t, yaml.Unmarshal([]byte(out), &snap))
	require.Len(t, snap.Collections.Images, 1)
	assert.Equal(t, "302", snap.Collections.Images[0].ID)
}

func TestListRejectsPersonOffImageTabs(t *testing.T) {
	_, err := runRB(t, "list", "--tab", "videos", "--person", "Bob Example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--person")
}

func TestListText(t *testing.T) {
	out, err := runRB(t, "list", "--tab", "all", "--source", "HuggingFace")
	require.NoError(t, err)
	assert.Contains(t, out, "Documents & Datasets (1)")
	assert.Contains(t, out, "OCR Text Corpus")
	assert.NotContains(t, out, "Surveillance Videos")
	assert.Contains(t, out, "1 malformed records skipped")
}

func TestStatsText(t *testing.T) {
	out, err := runRB(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "DOJ Documents")
	assert.Contains(t, out, "Flight Logs")
	assert.Contains(t, out, "House Oversight")
}

func TestShow(t *testing.T) {
	out, err := runRB(t, "show", "501", "-o", "json")
	require.NoError(t, err)

	var it catalog.Item
	require.NoError(t, json.Unmarshal([]byte(out), &it))
	assert.Equal(t, catalog.TypeEmail, it.Type)
	assert.Equal(t, "assistant@example.org", it.From)

	_, err = runRB(t, "show", "999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestManifest(t *testing.T) {
	out, err := runRB(t, "manifest")
	require.NoError(t, err)
	assert.Contains(t, out, "curated_img_1")
	assert.Contains(t, out, "curated_audio_0")
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := runRB(t, "stats", "-o", "xml")
	require.Error(t, err)
}

func TestEventsCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	l, err := otel.Open(path)
	require.NoError(t, err)
	l.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindFetchStart, Comp: "ui", Tab: "images", RequestID: "abcdef123456"})
	l.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindFetchTimeout, Comp: "ui", Tab: "images", Dur: 15 * time.Second})
	l.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindFacet, Comp: "ui", Query: "Alice"})
	l.Close()

	out, err := runRB(t, "events", "--file", path, "--kind", "fetch", "--level", "warn")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "fetch.timeout")
	assert.Contains(t, lines[0], "(15s)")

	out, err = runRB(t, "events", "--file", path, "--rid", "abcdef", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"rid":"abcdef123456"`)
}

func TestEventsMissingLog(t *testing.T) {
	_, err := runRB(t, "events", "--file", filepath.Join(t.TempDir(), "none.jsonl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no event log")
}

func TestParseFault(t *testing.T) {
	path, code, err := parseFault("/api/people=503")
	require.NoError(t, err)
	assert.Equal(t, "/api/people", path)
	assert.Equal(t, 503, code)

	for _, bad := range []string{"api/people=500", "/api/people", "/x=abc", "/x=42"} {
		_, _, err := parseFault(bad)
		assert.Error(t, err, bad)
	}
}

func TestEventFilter(t *testing.T) {
	ev := otel.Event{Level: otel.LevelWarn, Kind: otel.KindFetchTimeout, Comp: "ui", Tab: "images", RequestID: "r-123"}

	assert.True(t, eventFilter{}.match(ev))
	assert.True(t, eventFilter{kind: "fetch", level: "info", rid: "r-1", tab: "images"}.match(ev))
	assert.False(t, eventFilter{level: "error"}.match(ev))
	assert.False(t, eventFilter{comp: "coord"}.match(ev))
	assert.False(t, eventFilter{kind: "people"}.match(ev))
}

func TestLastN(t *testing.T) {
	evs := make([]otel.Event, 5)
	for i := range evs {
		evs[i].Count = i
	}
	got := lastN(evs, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Count)
	assert.Len(t, lastN(evs, 0), 5)
}

func TestFormatCountAndTruncate(t *testing.T) {
	assert.Equal(t, "0", formatCount(0))
	assert.Equal(t, "12,345", formatCount(12345))
	assert.Equal(t, "-1,000", formatCount(-1000))
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
}
