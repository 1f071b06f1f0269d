package catalog

import (
	"slices"
	"testing"
)

func TestTabCycle(t *testing.T) {
	tabs := Tabs()
	for i, tab := range tabs {
		next := tabs[(i+1)%len(tabs)]
		if got := tab.Next(); got != next {
			t.Errorf("%s.Next() = %s, want %s", tab, got, next)
		}
		if got := next.Prev(); got != tab {
			t.Errorf("%s.Prev() = %s, want %s", next, got, tab)
		}
	}
	if got := Tab("bogus").Next(); got != TabAll {
		t.Errorf("unknown tab Next = %s", got)
	}
}

func TestParseTab(t *testing.T) {
	for _, tab := range Tabs() {
		got, err := ParseTab(string(tab))
		if err != nil || got != tab {
			t.Errorf("ParseTab(%q) = %q, %v", tab, got, err)
		}
	}
	if _, err := ParseTab("Images"); err == nil {
		t.Error("tab names are case-sensitive")
	}
}

func TestTabRequestShape(t *testing.T) {
	tests := []struct {
		tab      Tab
		typ      Type
		flag     bool
		flagSent bool
		people   bool
	}{
		{TabAll, "", false, false, false},
		{TabVideos, TypeVideo, false, false, false},
		{TabAudio, TypeAudio, false, false, false},
		{TabImages, TypeImage, false, true, true},
		{TabFlightlogs, TypeImage, true, true, true},
		{TabEmails, TypeEmail, false, false, false},
		{TabDocuments, TypeDocument, false, false, false},
	}
	for _, tt := range tests {
		if got := tt.tab.FetchType(); got != tt.typ {
			t.Errorf("%s.FetchType() = %q, want %q", tt.tab, got, tt.typ)
		}
		flag, sent := tt.tab.FlightlogsFlag()
		if flag != tt.flag || sent != tt.flagSent {
			t.Errorf("%s.FlightlogsFlag() = %v, %v", tt.tab, flag, sent)
		}
		if got := tt.tab.PeopleEligible(); got != tt.people {
			t.Errorf("%s.PeopleEligible() = %v", tt.tab, got)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := TabFlightlogs.Label(); got != "Flight Logs" {
		t.Errorf("label = %q", got)
	}
	if got := Tab("x").Label(); got != "x" {
		t.Errorf("fallback label = %q", got)
	}
}

func TestCollectionsWithCopies(t *testing.T) {
	base := Collections{Videos: []Item{{ID: "v"}}}
	next := base.With(TypeImage, []Item{{ID: "i"}})

	if len(base.Images) != 0 {
		t.Error("With modified the receiver")
	}
	if next.Len() != 2 {
		t.Errorf("Len = %d, want 2", next.Len())
	}
	if _, ok := next.Find(TypeImage, "i"); !ok {
		t.Error("image not found")
	}
	if _, ok := next.Find(TypeVideo, "i"); ok {
		t.Error("Find should only search the requested slot")
	}

	// unknown types share the documents slot
	docs := next.With(Type("dataset"), []Item{{ID: "d"}})
	if len(docs.Slot(TypeDocument)) != 1 {
		t.Errorf("documents = %+v", docs.Documents)
	}
}

func TestAllPeople(t *testing.T) {
	it := Item{
		People:   []string{"Alice", ""},
		Metadata: map[string]any{"detected_people": []any{"Bob", 3, "", "Alice"}},
	}
	want := []string{"Alice", "Bob", "Alice"}
	if got := it.AllPeople(); !slices.Equal(got, want) {
		t.Errorf("AllPeople = %v, want %v", got, want)
	}
	if !it.HasPeople() {
		t.Error("HasPeople = false")
	}
	if (Item{Metadata: map[string]any{"detected_people": "Bob"}}).HasPeople() {
		t.Error("a bare string is not a people list")
	}
}

func TestRenderable(t *testing.T) {
	tests := []struct {
		name string
		it   Item
		want bool
	}{
		{"image with url", Item{Type: TypeImage, URL: "u"}, true},
		{"image with thumbnail", Item{Type: TypeImage, ThumbnailURL: "t"}, true},
		{"bare image", Item{Type: TypeImage}, false},
		{"bare video", Item{Type: TypeVideo}, true},
	}
	for _, tt := range tests {
		if got := tt.it.Renderable(); got != tt.want {
			t.Errorf("%s: Renderable = %v", tt.name, got)
		}
	}
}

func TestStringList(t *testing.T) {
	if got := StringList([]string{"a", "", "b"}); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("[]string = %v", got)
	}
	if got := StringList(nil); got != nil {
		t.Errorf("nil = %v", got)
	}
	if got := StringList(map[string]any{}); got != nil {
		t.Errorf("map = %v", got)
	}
}
