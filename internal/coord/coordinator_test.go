package coord

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abelbrown/releasebase/internal/api"
	"github.com/abelbrown/releasebase/internal/catalog"
	"github.com/abelbrown/releasebase/internal/merge"
	"github.com/abelbrown/releasebase/internal/normalize"
	"github.com/abelbrown/releasebase/internal/stats"
	"github.com/abelbrown/releasebase/internal/ui"
)

// mockBackend implements Backend for testing.
type mockBackend struct {
	mu       sync.Mutex
	requests []api.DocumentsRequest

	records     []json.RawMessage
	docsErr     error
	docsDelay   time.Duration
	statsErr    error
	peopleErr   error
	manifestErr error

	statsCalls  atomic.Int32
	peopleCalls atomic.Int32
}

func (m *mockBackend) Stats(ctx context.Context) (stats.Response, error) {
	m.statsCalls.Add(1)
	if m.statsErr != nil {
		return stats.Response{}, m.statsErr
	}
	return stats.Response{TotalDocuments: 42, ByType: map[string]int{"video": 5}}, nil
}

func (m *mockBackend) People(ctx context.Context, limit int) ([]catalog.PersonFacet, error) {
	m.peopleCalls.Add(1)
	if m.peopleErr != nil {
		return nil, m.peopleErr
	}
	return []catalog.PersonFacet{{Name: "Alice", DocCount: 3}}, nil
}

func (m *mockBackend) Documents(ctx context.Context, req api.DocumentsRequest) ([]json.RawMessage, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.docsDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.docsDelay):
		}
	}
	return m.records, m.docsErr
}

func (m *mockBackend) Manifest(ctx context.Context) (merge.Manifest, error) {
	if m.manifestErr != nil {
		return merge.Manifest{}, m.manifestErr
	}
	return merge.Manifest{Images: []merge.ManifestEntry{{Title: "c", Path: "/curated/c.jpg"}}}, nil
}

func rawRecords(s ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(s))
	for i, r := range s {
		out[i] = json.RawMessage(r)
	}
	return out
}

func newCoordinator(b Backend) *Coordinator {
	return New(b, normalize.New("http://backend.test"), Options{PerPage: 250})
}

func TestLoadDocumentsNormalizesAndCountsSkips(t *testing.T) {
	mock := &mockBackend{records: rawRecords(
		`{"id": 1, "type": "video", "title": "Tape"}`,
		`{"id": null, "type": "video"}`,
		`{"id": 2, "type": "image", "file_path": "a/b.png"}`,
	)}
	c := newCoordinator(mock)

	msg := c.LoadDocuments(context.Background(), catalog.TabAll, "rid-1")()
	got, ok := msg.(ui.DocumentsLoaded)
	if !ok {
		t.Fatalf("expected DocumentsLoaded, got %T", msg)
	}
	if got.RequestID != "rid-1" || got.Tab != catalog.TabAll {
		t.Errorf("correlation lost: %+v", got)
	}
	if len(got.Items) != 2 || got.Skipped != 1 {
		t.Errorf("items=%d skipped=%d, want 2 and 1", len(got.Items), got.Skipped)
	}
	if got.Items[1].URL != "http://backend.test/files/a/b.png" {
		t.Errorf("url = %q", got.Items[1].URL)
	}
	if mock.requests[0].PerPage != 250 {
		t.Errorf("per_page = %d, want 250", mock.requests[0].PerPage)
	}
}

func TestLoadDocumentsPassesErrorThrough(t *testing.T) {
	mock := &mockBackend{docsDelay: time.Second}
	c := newCoordinator(mock)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	got := c.LoadDocuments(ctx, catalog.TabImages, "rid")().(ui.DocumentsLoaded)
	if !errors.Is(got.Err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", got.Err)
	}
	if got.Items != nil {
		t.Error("failed fetch should carry no items")
	}
}

func TestLoadDocumentsUsesTabRequest(t *testing.T) {
	mock := &mockBackend{}
	c := newCoordinator(mock)

	c.LoadDocuments(context.Background(), catalog.TabFlightlogs, "rid")()

	req := mock.requests[0]
	if req.Type != catalog.TypeImage || req.Flightlogs == nil || !*req.Flightlogs {
		t.Errorf("flightlogs tab request = %+v", req)
	}
}

func TestSideLoaders(t *testing.T) {
	mock := &mockBackend{}
	c := newCoordinator(mock)

	s := c.LoadStats()().(ui.StatsLoaded)
	if s.Err != nil || s.Stats.Total != 42 || s.Stats.Videos != 5 {
		t.Errorf("stats = %+v", s)
	}
	p := c.LoadPeople()().(ui.PeopleLoaded)
	if p.Err != nil || len(p.People) != 1 {
		t.Errorf("people = %+v", p)
	}
	m := c.LoadManifest()().(ui.ManifestLoaded)
	if m.Err != nil || len(m.Manifest.Images) != 1 {
		t.Errorf("manifest = %+v", m)
	}
}

func TestSideLoaderErrors(t *testing.T) {
	boom := errors.New("boom")
	mock := &mockBackend{statsErr: boom, peopleErr: boom, manifestErr: boom}
	c := newCoordinator(mock)

	if s := c.LoadStats()().(ui.StatsLoaded); !errors.Is(s.Err, boom) {
		t.Errorf("stats err = %v", s.Err)
	}
	if p := c.LoadPeople()().(ui.PeopleLoaded); !errors.Is(p.Err, boom) {
		t.Errorf("people err = %v", p.Err)
	}
	if m := c.LoadManifest()().(ui.ManifestLoaded); !errors.Is(m.Err, boom) {
		t.Errorf("manifest err = %v", m.Err)
	}
}

func TestWireInstallsLoaders(t *testing.T) {
	var cfg ui.AppConfig
	newCoordinator(&mockBackend{}).Wire(&cfg)
	if cfg.LoadDocuments == nil || cfg.LoadPeople == nil || cfg.LoadStats == nil || cfg.LoadManifest == nil {
		t.Errorf("missing loader in %+v", cfg)
	}
}

func TestSnapshotCombinesLoads(t *testing.T) {
	mock := &mockBackend{records: rawRecords(
		`{"id": 1, "type": "image", "url": "https://x/1.jpg"}`,
		`{"id": 2, "type": "image"}`,
		`{"type": "image", "url": "https://x/3.jpg"}`,
	)}
	c := newCoordinator(mock)

	snap, err := c.Snapshot(context.Background(), catalog.TabImages)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Stats.Total != 42 {
		t.Errorf("stats total = %d", snap.Stats.Total)
	}
	if len(snap.People) != 1 {
		t.Errorf("people = %+v", snap.People)
	}
	if snap.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", snap.Skipped)
	}
	imgs := snap.Collections.Images
	if len(imgs) != 2 || imgs[0].ID != "curated_img_0" || imgs[1].ID != "1" {
		t.Errorf("images = %+v", imgs)
	}
	if len(snap.Warnings) != 0 {
		t.Errorf("warnings = %v", snap.Warnings)
	}
}

func TestSnapshotSkipsPeopleOffImageTabs(t *testing.T) {
	mock := &mockBackend{}
	c := newCoordinator(mock)

	if _, err := c.Snapshot(context.Background(), catalog.TabVideos); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if n := mock.peopleCalls.Load(); n != 0 {
		t.Errorf("people fetched %d times for videos", n)
	}
	if n := mock.statsCalls.Load(); n != 1 {
		t.Errorf("stats fetched %d times, want 1", n)
	}
}

func TestSnapshotSideFailuresAreWarnings(t *testing.T) {
	boom := errors.New("boom")
	mock := &mockBackend{statsErr: boom, peopleErr: boom, manifestErr: boom}
	c := newCoordinator(mock)

	snap, err := c.Snapshot(context.Background(), catalog.TabImages)
	if err != nil {
		t.Fatalf("side-load failures should not fail the snapshot: %v", err)
	}
	if len(snap.Warnings) != 3 {
		t.Errorf("warnings = %v", snap.Warnings)
	}
	if snap.Stats != (catalog.StatsSummary{}) {
		t.Errorf("stats should be zero, got %+v", snap.Stats)
	}
	if snap.People == nil || len(snap.People) != 0 {
		t.Errorf("people should be an empty list, got %v", snap.People)
	}
}

func TestSnapshotDocumentFailureIsFatal(t *testing.T) {
	mock := &mockBackend{docsErr: &api.StatusError{Path: "/api/documents", Code: 500}}
	c := newCoordinator(mock)

	_, err := c.Snapshot(context.Background(), catalog.TabAll)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "load all") {
		t.Errorf("error should name the tab: %v", err)
	}
	var se *api.StatusError
	if !errors.As(err, &se) {
		t.Errorf("error should wrap the status error: %v", err)
	}
}
