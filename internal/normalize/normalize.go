// Package normalize maps raw backend records onto catalog.Item.
//
// Every resolved attribute has a fixed priority table (see ResolveURL and
// ResolveThumbnail). The package is pure: no I/O and no logging; callers
// decide what to do with per-record errors.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abelbrown/releasebase/internal/catalog"
)

// curatedPrefix roots statically hosted curated assets.
const curatedPrefix = "/curated/"

// ErrMissingID is returned for records without an id.
var ErrMissingID = errors.New("record has no id")

// Normalizer turns RawItems into canonical items.
type Normalizer struct {
	// FilesBase is the backend origin used to build /files/<path> URLs.
	// Empty yields host-relative "/files/..." URLs.
	FilesBase string
}

// New creates a Normalizer that builds file URLs under filesBase.
func New(filesBase string) Normalizer {
	return Normalizer{FilesBase: strings.TrimRight(filesBase, "/")}
}

// Normalize converts one raw record.
func (n Normalizer) Normalize(raw RawItem) (catalog.Item, error) {
	id := strings.TrimSpace(raw.ID.String())
	if id == "" {
		return catalog.Item{}, ErrMissingID
	}

	meta := ParseMetadata(raw.Metadata)
	typ := CanonicalType(raw.Type)
	imageLike := typ == catalog.TypeImage

	people := MergePeople(catalog.StringList(meta["people"]), catalog.StringList(meta["detected_people"]))
	if len(people) == 0 {
		people = MergePeople(raw.People)
	}

	url := n.ResolveURL(raw)
	thumb := n.ResolveThumbnail(raw, url, imageLike)

	title := raw.Title
	if imageLike {
		title = DeriveTitle(TitleInput{
			ID:          id,
			Title:       raw.Title,
			Description: raw.Description,
			Context:     raw.Context,
			People:      people,
			Metadata:    meta,
		})
	}

	item := catalog.Item{
		ID:           id,
		Type:         typ,
		Title:        title,
		Source:       raw.Source,
		Date:         firstNonEmpty(raw.Date, raw.DateReleased),
		Description:  raw.Description,
		Context:      raw.Context,
		URL:          url,
		ThumbnailURL: thumb,
		People:       people,
		Metadata:     meta,
		Duration:     raw.Duration,
		Location:     raw.Location,
		Redacted:     raw.Redacted,
		Format:       raw.Format,
		Subtype:      raw.Subtype,
		Count:        raw.Count.String(),
		EftaID:       raw.EftaID.String(),
		Body:         firstNonEmpty(raw.OCRText, raw.Body),
		Highlights:   raw.Highlights,
		Webapp:       raw.Webapp,
	}

	if typ == catalog.TypeEmail {
		item.From = firstNonEmpty(headerValue(meta["from"]), raw.From.String())
		item.To = firstNonEmpty(headerValue(meta["to"]), raw.To.String())
		item.CC = firstNonEmpty(headerValue(meta["cc"]), raw.CC.String())
		item.Subject = firstNonEmpty(headerValue(meta["subject"]), raw.Subject, raw.Title)
		item.Date = firstNonEmpty(headerValue(meta["date"]), item.Date)
		item.Body = firstNonEmpty(item.Body, raw.Context, raw.Description)
	}

	return item, nil
}

// NormalizeBatch decodes and normalizes each record independently. Records
// that fail to decode or normalize are skipped and reported in errs; the
// rest of the batch is unaffected.
func (n Normalizer) NormalizeBatch(records []json.RawMessage) (items []catalog.Item, errs []error) {
	items = make([]catalog.Item, 0, len(records))
	for i, rec := range records {
		var raw RawItem
		if err := json.Unmarshal(rec, &raw); err != nil {
			errs = append(errs, fmt.Errorf("record %d: decode: %w", i, err))
			continue
		}
		item, err := n.Normalize(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		items = append(items, item)
	}
	return items, errs
}

// CanonicalType maps a backend type string onto a catalog type.
// "photo" is an image; unknown or missing types are documents.
func CanonicalType(t string) catalog.Type {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "video":
		return catalog.TypeVideo
	case "audio":
		return catalog.TypeAudio
	case "image", "photo":
		return catalog.TypeImage
	case "email":
		return catalog.TypeEmail
	default:
		return catalog.TypeDocument
	}
}

// ResolveURL picks the display URL:
//
//	1. url, if absolute
//	2. url, if rooted under /curated/
//	3. file_path, if rooted under /curated/
//	4. <FilesBase>/files/<file_path>
//	5. ""
func (n Normalizer) ResolveURL(raw RawItem) string {
	switch {
	case isAbsolute(raw.URL):
		return raw.URL
	case strings.HasPrefix(raw.URL, curatedPrefix):
		return raw.URL
	case strings.HasPrefix(raw.FilePath, curatedPrefix):
		return raw.FilePath
	case raw.FilePath != "":
		return n.FileURL(raw.FilePath)
	}
	return ""
}

// ResolveThumbnail picks the preview URL:
//
//	1. thumbnail_url, if absolute or rooted
//	2. thumbnail_path, if absolute
//	3. thumbnail_path, if rooted under /curated/
//	4. <FilesBase>/files/<thumbnail_path>
//	5. thumbnail, if absolute
//	6. the resolved main URL (images only)
//	7. ""
func (n Normalizer) ResolveThumbnail(raw RawItem, mainURL string, image bool) string {
	switch {
	case isAbsolute(raw.ThumbnailURL) || strings.HasPrefix(raw.ThumbnailURL, "/"):
		return raw.ThumbnailURL
	case isAbsolute(raw.ThumbnailPath):
		return raw.ThumbnailPath
	case strings.HasPrefix(raw.ThumbnailPath, curatedPrefix):
		return raw.ThumbnailPath
	case raw.ThumbnailPath != "":
		return n.FileURL(raw.ThumbnailPath)
	case isAbsolute(raw.Thumbnail):
		return raw.Thumbnail
	case image && mainURL != "":
		return mainURL
	}
	return ""
}

// FileURL builds the backend-relative URL for a storage key.
func (n Normalizer) FileURL(path string) string {
	return n.FilesBase + "/files/" + strings.TrimLeft(path, "/")
}

// MergePeople concatenates the lists, dropping empty names and repeats.
// Order is first occurrence; comparison is case-sensitive.
func MergePeople(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, p := range list {
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func isAbsolute(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// headerValue renders an email header from metadata, which may hold a
// string or a list of addresses.
func headerValue(v any) string {
	switch h := v.(type) {
	case string:
		return h
	case []any:
		return strings.Join(catalog.StringList(h), ", ")
	}
	return ""
}
