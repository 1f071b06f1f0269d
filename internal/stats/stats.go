// Package stats turns the backend's aggregate counters into the summary
// shown in the header and on tab badges.
//
// The summary is only ever built from the aggregate endpoint. Locally held
// collections reflect the active tab's fetch, not the whole archive, so they
// are never counted here.
package stats

import "github.com/abelbrown/releasebase/internal/catalog"

// Response is the body of GET /api/stats.
type Response struct {
	TotalDocuments int            `json:"total_documents" yaml:"total_documents"`
	ByType         map[string]int `json:"by_type" yaml:"by_type"`
	BySource       map[string]int `json:"by_source" yaml:"by_source"`
	Flightlogs     int            `json:"flightlogs" yaml:"flightlogs"`
}

// SourceDOJ is the by_source key counted in the DOJ banner.
const SourceDOJ = "DOJ"

// FromResponse maps the aggregate response onto display counters.
// Missing keys count as zero.
func FromResponse(r Response) catalog.StatsSummary {
	return catalog.StatsSummary{
		Total:      r.TotalDocuments,
		Videos:     r.ByType[string(catalog.TypeVideo)],
		Audio:      r.ByType[string(catalog.TypeAudio)],
		Images:     r.ByType[string(catalog.TypeImage)],
		Documents:  r.ByType[string(catalog.TypeDocument)],
		Emails:     r.ByType[string(catalog.TypeEmail)],
		DOJ:        r.BySource[SourceDOJ],
		Flightlogs: r.Flightlogs,
	}
}

// Zero is the summary used when the stats fetch fails.
func Zero() catalog.StatsSummary {
	return catalog.StatsSummary{}
}

// Badge returns the count shown next to tab.
func Badge(s catalog.StatsSummary, tab catalog.Tab) int {
	switch tab {
	case catalog.TabVideos:
		return s.Videos
	case catalog.TabAudio:
		return s.Audio
	case catalog.TabImages:
		return s.Images
	case catalog.TabFlightlogs:
		return s.Flightlogs
	case catalog.TabEmails:
		return s.Emails
	case catalog.TabDocuments:
		return s.Documents
	default:
		return s.Total
	}
}

// Banner is one labelled counter in the header.
type Banner struct {
	Label string
	Value int
}

// Banners returns the header counters in display order.
func Banners(s catalog.StatsSummary) []Banner {
	return []Banner{
		{Label: "DOJ Documents", Value: s.DOJ},
		{Label: "Videos", Value: s.Videos},
		{Label: "Audio Files", Value: s.Audio},
		{Label: "Photos", Value: s.Images},
	}
}
