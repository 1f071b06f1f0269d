// Package catalog holds the canonical display model shared by every layer of
// releasebase. Items from the API, the curated manifest and the embedded
// samples all end up as catalog.Item.
package catalog

// Type is the content type of an item. Assigned once by the normalizer.
type Type string

const (
	TypeVideo    Type = "video"
	TypeAudio    Type = "audio"
	TypeImage    Type = "image"
	TypeEmail    Type = "email"
	TypeDocument Type = "document"
)

// Types lists the content types in display order.
func Types() []Type {
	return []Type{TypeVideo, TypeAudio, TypeImage, TypeDocument, TypeEmail}
}

// Item is the canonical record rendered by the UI.
// Empty strings mean the field is absent.
type Item struct {
	ID           string         `json:"id" yaml:"id"`
	Type         Type           `json:"type" yaml:"type"`
	Title        string         `json:"title" yaml:"title"`
	Source       string         `json:"source" yaml:"source"`
	Date         string         `json:"date,omitempty" yaml:"date,omitempty"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	Context      string         `json:"context,omitempty" yaml:"context,omitempty"`
	URL          string         `json:"url,omitempty" yaml:"url,omitempty"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	People       []string       `json:"people,omitempty" yaml:"people,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// video
	Duration string `json:"duration,omitempty" yaml:"duration,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// audio; nil means unknown
	Redacted *bool `json:"redacted,omitempty" yaml:"redacted,omitempty"`

	// document
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
	Subtype string `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Count   string `json:"count,omitempty" yaml:"count,omitempty"`

	// email
	From    string `json:"from,omitempty" yaml:"from,omitempty"`
	To      string `json:"to,omitempty" yaml:"to,omitempty"`
	CC      string `json:"cc,omitempty" yaml:"cc,omitempty"`
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty"`
	EftaID  string `json:"efta_id,omitempty" yaml:"efta_id,omitempty"`
	Body    string `json:"body,omitempty" yaml:"body,omitempty"`

	Highlights []string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
	Webapp     string   `json:"webapp,omitempty" yaml:"webapp,omitempty"`
}

// DetectedPeople returns the non-empty string entries of metadata["detected_people"].
func (it Item) DetectedPeople() []string {
	return StringList(it.Metadata["detected_people"])
}

// AllPeople returns explicit people followed by detected people.
// Duplicates are kept; callers compare, they don't display this.
func (it Item) AllPeople() []string {
	detected := it.DetectedPeople()
	out := make([]string, 0, len(it.People)+len(detected))
	for _, p := range it.People {
		if p != "" {
			out = append(out, p)
		}
	}
	return append(out, detected...)
}

// HasPeople reports whether any person is associated with the item.
func (it Item) HasPeople() bool {
	return len(it.AllPeople()) > 0
}

// Renderable is false only for images with no usable media reference.
func (it Item) Renderable() bool {
	if it.Type != TypeImage {
		return true
	}
	return it.URL != "" || it.ThumbnailURL != ""
}

// StringList converts a decoded JSON value into its non-empty string entries.
// Anything that is not a list yields nil.
func StringList(v any) []string {
	switch list := v.(type) {
	case []string:
		out := make([]string, 0, len(list))
		for _, s := range list {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(list))
		for _, e := range list {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// PersonFacet is a backend-supplied person aggregate over the image collection.
type PersonFacet struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string `json:"name" yaml:"name"`
	DocCount int    `json:"doc_count" yaml:"doc_count"`
}

// StatsSummary holds the display counters. Zero value is the "unavailable" summary.
type StatsSummary struct {
	Total      int `json:"total" yaml:"total"`
	Videos     int `json:"videos" yaml:"videos"`
	Audio      int `json:"audio" yaml:"audio"`
	Images     int `json:"images" yaml:"images"`
	Documents  int `json:"documents" yaml:"documents"`
	Emails     int `json:"emails" yaml:"emails"`
	DOJ        int `json:"doj" yaml:"doj"`
	Flightlogs int `json:"flightlogs" yaml:"flightlogs"`
}
