package otel

import (
	"sync"
	"testing"
)

func TestPushAndSnapshot(t *testing.T) {
	r := NewRingBuffer(8)
	for i := 0; i < 5; i++ {
		r.Push(Event{Kind: KindFetchStart, Count: i})
	}

	snap := r.Snapshot()
	if len(snap) != 5 {
		t.Fatalf("expected 5 events, got %d", len(snap))
	}
	for i, e := range snap {
		if e.Count != i {
			t.Errorf("snap[%d].Count=%d, want %d", i, e.Count, i)
		}
	}
}

func TestWrapAround(t *testing.T) {
	r := NewRingBuffer(4)
	for i := 0; i < 10; i++ {
		r.Push(Event{Kind: KindFetchStart, Count: i})
	}

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("expected 4 events, got %d", len(snap))
	}
	for i, e := range snap {
		if want := i + 6; e.Count != want {
			t.Errorf("snap[%d].Count=%d, want %d", i, e.Count, want)
		}
	}
}

func TestLast(t *testing.T) {
	r := NewRingBuffer(4)
	for i := 0; i < 6; i++ {
		r.Push(Event{Kind: KindFetchStart, Count: i})
	}

	last := r.Last(3)
	if len(last) != 3 {
		t.Fatalf("expected 3, got %d", len(last))
	}
	for i, e := range last {
		if want := i + 3; e.Count != want {
			t.Errorf("last[%d].Count=%d, want %d", i, e.Count, want)
		}
	}

	if got := r.Last(100); len(got) != 4 {
		t.Errorf("Last(100) returned %d events, want 4", len(got))
	}
	if got := r.Last(-1); got != nil {
		t.Errorf("Last(-1) = %v, want nil", got)
	}
}

func TestEmptySnapshot(t *testing.T) {
	r := NewRingBuffer(4)
	if snap := r.Snapshot(); snap != nil {
		t.Errorf("expected nil snapshot, got %v", snap)
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestStatsAndMatching(t *testing.T) {
	r := NewRingBuffer(16)
	r.Push(Event{Kind: KindFetchStart})
	r.Push(Event{Kind: KindFetchComplete})
	r.Push(Event{Kind: KindFetchStale})
	r.Push(Event{Kind: KindTabChange})
	r.Push(Event{Kind: KindFetchStart})

	stats := r.Stats()
	if stats[KindFetchStart] != 2 {
		t.Errorf("fetch.start = %d, want 2", stats[KindFetchStart])
	}
	if stats[KindTabChange] != 1 {
		t.Errorf("ui.tab = %d, want 1", stats[KindTabChange])
	}
	if got := r.Matching("fetch."); len(got) != 4 {
		t.Errorf("Matching(fetch.) = %d events, want 4", len(got))
	}
}

func TestExtraIsCopied(t *testing.T) {
	r := NewRingBuffer(4)
	extra := map[string]any{"k": "v"}
	r.Push(Event{Kind: KindStartup, Extra: extra})
	extra["k"] = "changed"

	if got := r.Snapshot()[0].Extra["k"]; got != "v" {
		t.Errorf("Extra aliased: got %v", got)
	}
}

func TestDefaultRingSize(t *testing.T) {
	if r := NewRingBuffer(0); r.Cap() != DefaultRingSize {
		t.Errorf("Cap = %d, want %d", r.Cap(), DefaultRingSize)
	}
}

func TestConcurrentPushSnapshot(t *testing.T) {
	r := NewRingBuffer(64)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Push(Event{Kind: KindKeyPress})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.Snapshot()
			}
		}()
	}
	wg.Wait()

	if r.Len() != 64 {
		t.Errorf("Len = %d, want 64", r.Len())
	}
}

func TestRingBufferWithLogger(t *testing.T) {
	l := NewNullLogger()
	r := NewRingBuffer(8)
	l.SetRingBuffer(r)

	l.Emit(Event{Kind: KindFetchStart, RequestID: "abc"})
	l.Emit(Event{Kind: KindFetchComplete, RequestID: "abc", Count: 3})
	l.Close()

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 ring events, got %d", len(snap))
	}
	if snap[1].Count != 3 || snap[1].RequestID != "abc" {
		t.Errorf("unexpected event: %+v", snap[1])
	}
}
