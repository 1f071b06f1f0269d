package catalog

import "fmt"

// Tab is a top-level view selection.
type Tab string

const (
	TabAll        Tab = "all"
	TabVideos     Tab = "videos"
	TabAudio      Tab = "audio"
	TabImages     Tab = "images"
	TabFlightlogs Tab = "flightlogs"
	TabEmails     Tab = "emails"
	TabDocuments  Tab = "documents"
)

var tabLabels = map[Tab]string{
	TabAll:        "All Files",
	TabVideos:     "Videos",
	TabAudio:      "Audio",
	TabImages:     "Images",
	TabFlightlogs: "Flight Logs",
	TabEmails:     "Emails",
	TabDocuments:  "Documents",
}

// Tabs returns every tab in display order.
func Tabs() []Tab {
	return []Tab{TabAll, TabVideos, TabAudio, TabImages, TabFlightlogs, TabEmails, TabDocuments}
}

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, error) {
	t := Tab(s)
	if _, ok := tabLabels[t]; !ok {
		return "", fmt.Errorf("unknown tab %q", s)
	}
	return t, nil
}

// Label is the human label shown in the tab bar.
func (t Tab) Label() string {
	if l, ok := tabLabels[t]; ok {
		return l
	}
	return string(t)
}

// PeopleEligible reports whether the tab shows person facets.
func (t Tab) PeopleEligible() bool {
	return t == TabImages || t == TabFlightlogs
}

// FetchType is the content type requested from the API for this tab.
// The all tab returns "" (no type filter).
func (t Tab) FetchType() Type {
	switch t {
	case TabVideos:
		return TypeVideo
	case TabAudio:
		return TypeAudio
	case TabImages, TabFlightlogs:
		return TypeImage
	case TabEmails:
		return TypeEmail
	case TabDocuments:
		return TypeDocument
	}
	return ""
}

// FlightlogsFlag returns the server-side flight-log partition flag for the tab.
// ok is false when the flag is not sent.
func (t Tab) FlightlogsFlag() (value bool, ok bool) {
	switch t {
	case TabFlightlogs:
		return true, true
	case TabImages:
		return false, true
	}
	return false, false
}

// Next returns the tab after t, wrapping around.
func (t Tab) Next() Tab {
	tabs := Tabs()
	for i, x := range tabs {
		if x == t {
			return tabs[(i+1)%len(tabs)]
		}
	}
	return TabAll
}

// Prev returns the tab before t, wrapping around.
func (t Tab) Prev() Tab {
	tabs := Tabs()
	for i, x := range tabs {
		if x == t {
			return tabs[(i-1+len(tabs))%len(tabs)]
		}
	}
	return TabAll
}
