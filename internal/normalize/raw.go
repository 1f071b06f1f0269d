package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RawItem is one record as the backend sends it. Field names and shapes vary
// between ingestion paths, so most fields are optional and a few accept more
// than one JSON type.
type RawItem struct {
	ID            FlexString      `json:"id"`
	Type          string          `json:"type"`
	Title         string          `json:"title"`
	Source        string          `json:"source"`
	Date          string          `json:"date"`
	DateReleased  string          `json:"date_released"`
	Description   string          `json:"description"`
	Context       string          `json:"context"`
	URL           string          `json:"url"`
	FilePath      string          `json:"file_path"`
	ThumbnailURL  string          `json:"thumbnail_url"`
	ThumbnailPath string          `json:"thumbnail_path"`
	Thumbnail     string          `json:"thumbnail"`
	Metadata      json.RawMessage `json:"metadata"`
	People        []string        `json:"people"`
	OCRText       string          `json:"ocr_text"`
	Body          string          `json:"body"`

	Duration string `json:"duration"`
	Location string `json:"location"`
	Redacted *bool  `json:"redacted"`

	Format  string     `json:"format"`
	Subtype string     `json:"subtype"`
	Count   FlexString `json:"count"`

	From    FlexString `json:"from"`
	To      FlexString `json:"to"`
	CC      FlexString `json:"cc"`
	Subject string     `json:"subject"`
	EftaID  FlexString `json:"efta_id"`

	Highlights []string `json:"highlights"`
	Webapp     string   `json:"webapp"`
}

// FlexString accepts a JSON string, number, bool, null, or a list of strings
// (joined with ", ").
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("flex string list: %w", err)
		}
		*f = FlexString(strings.Join(list, ", "))
	case '{':
		return fmt.Errorf("flex string: unexpected object")
	default:
		// numbers and booleans keep their literal text
		*f = FlexString(data)
	}
	return nil
}

// String returns the decoded value.
func (f FlexString) String() string {
	return string(f)
}

// ParseMetadata decodes a metadata field that may be an object or a JSON
// encoded string. Anything unparseable yields an empty map, never an error.
func ParseMetadata(raw json.RawMessage) map[string]any {
	meta := map[string]any{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return meta
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return meta
		}
		raw = []byte(strings.TrimSpace(encoded))
		if len(raw) == 0 {
			return meta
		}
	}
	if raw[0] != '{' {
		return meta
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded == nil {
		return meta
	}
	return decoded
}
