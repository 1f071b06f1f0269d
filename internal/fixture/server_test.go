package fixture

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func newServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	s, err := New(opts...)
	require.NoError(t, err)
	return s
}

func TestStats(t *testing.T) {
	rec := get(t, newServer(t), "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total      int            `json:"total_documents"`
		ByType     map[string]int `json:"by_type"`
		BySource   map[string]int `json:"by_source"`
		Flightlogs int            `json:"flightlogs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 14, body.Total)
	assert.Equal(t, 2, body.Flightlogs)
	assert.Equal(t, 2, body.ByType["video"])
	assert.Equal(t, 4, body.ByType["image"], "flight log images are not counted as images")
	assert.Equal(t, 1, body.ByType["photo"])
	assert.Equal(t, 9, body.BySource["DOJ"])
	assert.Equal(t, 3, body.BySource["House Oversight"])
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) documentsPage {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p documentsPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestDocumentsFilters(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name  string
		query string
		total int
	}{
		{"everything", "", 14},
		{"videos", "?type=video", 2},
		{"images without flight logs", "?type=image&flightlogs=false", 4},
		{"flight logs", "?type=image&flightlogs=true", 2},
		{"type is case-insensitive", "?type=EMAIL", 1},
		{"unknown type", "?type=hologram", 0},
		{"all means no filter", "?type=all", 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := decodePage(t, get(t, s, "/api/documents"+tt.query))
			assert.Equal(t, tt.total, p.Total)
			assert.Len(t, p.Results, min(tt.total, defaultPerPage))
		})
	}
}

func TestDocumentsPagination(t *testing.T) {
	s := newServer(t)

	p := decodePage(t, get(t, s, "/api/documents?page=3&per_page=5"))
	assert.Equal(t, 14, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Results, 4)

	p = decodePage(t, get(t, s, "/api/documents?page=9&per_page=5"))
	assert.Empty(t, p.Results)
	assert.NotNil(t, p.Results, "past the end is an empty list, not null")
}

func TestDocumentsRejectsBadParams(t *testing.T) {
	s := newServer(t)
	for _, q := range []string{"page=0", "per_page=0", "per_page=1001", "page=x", "flightlogs=maybe"} {
		rec := get(t, s, "/api/documents?"+q)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, q)
	}
}

func TestDocumentDetail(t *testing.T) {
	s := newServer(t)

	rec := get(t, s, "/api/documents/601")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Non-Prosecution Agreement")

	rec = get(t, s, "/api/documents/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Document not found"}`, rec.Body.String())
}

func TestPeople(t *testing.T) {
	s := newServer(t)

	var people []Person
	rec := get(t, s, "/api/people?type=image&limit=50")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &people))
	require.Len(t, people, 2)
	assert.Equal(t, "Alice Example", people[0].Name)
	assert.Equal(t, 2, people[0].DocCount)
	assert.Equal(t, "Bob Example", people[1].Name)

	rec = get(t, s, "/api/people?type=image&limit=1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &people))
	assert.Len(t, people, 1)

	rec = get(t, s, "/api/people?type=video")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestManifest(t *testing.T) {
	rec := get(t, newServer(t), "/curated/manifest.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/curated/images/island_aerial.jpg")
}

func TestFaultInjection(t *testing.T) {
	s := newServer(t, WithFault("/api/stats", http.StatusServiceUnavailable))

	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/api/stats").Code)
	assert.Equal(t, http.StatusOK, get(t, s, "/api/people").Code)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "estate", "photos"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "estate", "photos", "page_001.png"), []byte("png"), 0o644))

	s := newServer(t, WithFiles(dir))
	rec := get(t, s, "/files/estate/photos/page_001.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
	assert.Equal(t, http.StatusNotFound, get(t, s, "/files/missing.png").Code)

	rec = get(t, newServer(t), "/files/estate/photos/page_001.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"File not found"}`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newServer(t), "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoadDatasetYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
manifest:
  images:
    - title: Cover
      path: /curated/cover.jpg
documents:
  - id: 7
    type: image
    file_path: flight_logs/p1.png
    metadata:
      detected_people: [Carol]
  - id: "x-8"
    type: audio
    title: Tape
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	ds, err := LoadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 1, ds.Stats().Flightlogs)
	assert.Len(t, ds.Manifest.Images, 1)

	raw, ok := ds.Find("x-8")
	require.True(t, ok)
	assert.Contains(t, string(raw), "Tape")

	people := ds.People("image", 0)
	require.Len(t, people, 1)
	assert.Equal(t, "Carol", people[0].Name)
}

func TestParseJSONRejectsBadRecord(t *testing.T) {
	_, err := ParseJSON([]byte(`{"documents":[{"id":{"nested":true}}]}`))
	assert.Error(t, err)
}
